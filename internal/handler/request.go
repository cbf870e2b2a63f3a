package handler

import (
	"net/http"

	"github.com/sakif/shareit/internal/dto"
	"github.com/sakif/shareit/internal/service"
)

// RequestHandler serves /requests. Every route requires the
// X-Sharer-User-Id header.
type RequestHandler struct {
	requests *service.RequestService
	validate *dto.Validator
}

func NewRequestHandler(requests *service.RequestService, validate *dto.Validator) *RequestHandler {
	return &RequestHandler{requests: requests, validate: validate}
}

// HandleCreate: POST /requests
// REQUEST BODY: {"description": "need a ladder"}
func (h *RequestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body dto.RequestCreate
	if err := h.validate.Decode(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	req, err := h.requests.Create(r.Context(), userID, body.Description)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// HandleGet: GET /requests/{id}
func (h *RequestHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.requests.GetByID(r.Context(), requestID, userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleListOwn: GET /requests
func (h *RequestHandler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	userID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	views, err := h.requests.ListOwn(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleListOthers: GET /requests/all?from&size
func (h *RequestHandler) HandleListOthers(w http.ResponseWriter, r *http.Request) {
	userID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	p, err := page(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	views, err := h.requests.ListOthers(r.Context(), userID, p)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
