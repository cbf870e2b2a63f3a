package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/dto"
)

// contextKey is unexported so only this package can set or read the value.
type contextKey string

const sharerKey contextKey = "sharerID"

// RequireSharer reads the X-Sharer-User-Id header and stores the acting
// user's id in the request context. A missing or malformed header stops the
// request with 400.
//
// The header is only parsed here. Whether the user exists is up to the
// service handling the request.
func RequireSharer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := dto.ParseSharer(r.Header.Get(dto.SharerHeader))
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sharerKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SharerFromContext returns the acting user's id set by RequireSharer.
func SharerFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(sharerKey).(int64)
	return id, ok && id > 0
}

func writeBadRequest(w http.ResponseWriter, err error) {
	msg := "bad request"
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
