package handler

import (
	"net/http"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/dto"
	"github.com/sakif/shareit/internal/service"
)

// ItemHandler serves /items and item comments. Every route requires the
// X-Sharer-User-Id header.
type ItemHandler struct {
	items    *service.ItemService
	comments *service.CommentService
	validate *dto.Validator
}

func NewItemHandler(items *service.ItemService, comments *service.CommentService, validate *dto.Validator) *ItemHandler {
	return &ItemHandler{items: items, comments: comments, validate: validate}
}

// HandleCreate lists a new item for the acting user.
//
// HTTP: POST /items
// REQUEST BODY: {"name", "description", "available", "requestId"?}
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body dto.ItemCreate
	if err := h.validate.Decode(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	item, err := h.items.Create(r.Context(), ownerID, body.NewItem())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HandleGet: GET /items/{id}
// The owner also gets lastBooking and nextBooking.
func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewerID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.items.Get(r.Context(), itemID, viewerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleList: GET /items?from&size
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	p, err := page(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	views, err := h.items.ListForOwner(r.Context(), ownerID, p)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleUpdate: PATCH /items/{id}
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body dto.ItemUpdate
	if err := h.validate.Decode(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	item, err := h.items.Update(r.Context(), ownerID, itemID, body.Patch())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleDelete: DELETE /items/{id}
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.items.Delete(r.Context(), ownerID, itemID); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch: GET /items/search?text&from&size
//
// A missing text parameter is a client error; an empty one matches nothing.
func (h *ItemHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("text") {
		WriteError(w, apperror.ValidationFailed("text", "text is required"))
		return
	}
	p, err := page(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	items, err := h.items.Search(r.Context(), q.Get("text"), p)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleComment: POST /items/{id}/comment
// REQUEST BODY: {"text": "..."}
func (h *ItemHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	authorID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body dto.CommentCreate
	if err := h.validate.Decode(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), authorID, itemID, body.Text)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
