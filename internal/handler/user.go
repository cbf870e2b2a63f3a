package handler

import (
	"net/http"

	"github.com/sakif/shareit/internal/dto"
	"github.com/sakif/shareit/internal/service"
)

// UserHandler serves /users.
type UserHandler struct {
	users    *service.UserService
	validate *dto.Validator
}

func NewUserHandler(users *service.UserService, validate *dto.Validator) *UserHandler {
	return &UserHandler{users: users, validate: validate}
}

// HandleCreate registers a user.
//
// HTTP: POST /users
// REQUEST BODY: {"name": "Ann", "email": "ann@example.com"}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body dto.UserCreate
	if err := h.validate.Decode(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), body.Name, body.Email)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleGet: GET /users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleList: GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleUpdate applies a partial update.
//
// HTTP: PATCH /users/{id}
// REQUEST BODY: any subset of {"name", "email"}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body dto.UserUpdate
	if err := h.validate.Decode(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, body.Patch())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDelete: DELETE /users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
