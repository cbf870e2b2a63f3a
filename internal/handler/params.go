package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/dto"
	"github.com/sakif/shareit/internal/middleware"
	"github.com/sakif/shareit/internal/model"
)

// sharer returns the acting user set by middleware.RequireSharer.
func sharer(r *http.Request) (int64, error) {
	id, ok := middleware.SharerFromContext(r.Context())
	if !ok {
		return 0, apperror.ValidationFailed(dto.SharerHeader, dto.SharerHeader+" header is required")
	}
	return id, nil
}

// pathID parses the chi URL parameter name.
func pathID(r *http.Request, name string) (int64, error) {
	return dto.ParseID(name, chi.URLParam(r, name))
}

// page parses the from/size query parameters.
func page(r *http.Request) (model.Page, error) {
	q := r.URL.Query()
	return dto.ParsePage(q.Get("from"), q.Get("size"))
}
