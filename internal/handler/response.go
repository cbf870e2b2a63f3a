// Package handler translates HTTP requests into service calls.
//
// Handlers only parse and render: path and query parameters, the acting
// user from the request context, JSON bodies through the dto validation
// pass. Every rule lives in the service layer.
package handler

// RESPONSE HELPERS:
// Every error response has the same shape:
//
//	{"error": "booking not found with id 7"}
//
// WriteError picks the status from the error kind; the message is the
// AppError's human-readable text.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/shareit/internal/apperror"
)

// ErrorResponse is the error body returned by all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body is written.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps an error kind to an HTTP status.
//
// AccessDenied is a 400, not a 403: the caller is known, the request is
// just not acceptable in the entity's current state.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrUnknownState),
		errors.Is(err, apperror.ErrAccessDenied):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps a domain error to its HTTP status and sends it. The
// gateway uses it too, so both tiers render errors the same way.
// Unknown errors become a generic 500; their details stay in the log.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, statusFor(err), ErrorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "An internal error occurred",
	})
}
