package handler

import (
	"context"
	"net/http"

	"github.com/sakif/shareit/internal/availability"
	"github.com/sakif/shareit/internal/dto"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/service"
)

// BookingHandler serves /bookings. Every route requires the
// X-Sharer-User-Id header.
type BookingHandler struct {
	bookings *service.BookingService
	validate *dto.Validator
}

func NewBookingHandler(bookings *service.BookingService, validate *dto.Validator) *BookingHandler {
	return &BookingHandler{bookings: bookings, validate: validate}
}

// HandleCreate: POST /bookings
// REQUEST BODY: {"itemId": 1, "start": "2030-01-01T10:00:00Z", "end": "..."}
func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	bookerID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body dto.BookingCreate
	if err := h.validate.Decode(r.Body, &body); err != nil {
		WriteError(w, err)
		return
	}

	d, err := h.bookings.Create(r.Context(), bookerID, body.NewBooking())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d.View())
}

// HandleGet: GET /bookings/{id}
// Only the booker and the item owner may see a booking.
func (h *BookingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	d, err := h.bookings.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.View())
}

// HandleUpdateStatus: PATCH /bookings/{id}?approved=true|false
func (h *BookingHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}
	approved, err := dto.ParseApproved(r.URL.Query().Get("approved"))
	if err != nil {
		WriteError(w, err)
		return
	}

	d, err := h.bookings.UpdateStatus(r.Context(), bookingID, ownerID, approved)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.View())
}

// HandleListForBooker: GET /bookings?state&from&size
func (h *BookingHandler) HandleListForBooker(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.bookings.ListForBooker)
}

// HandleListForOwner: GET /bookings/owner?state&from&size
func (h *BookingHandler) HandleListForOwner(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.bookings.ListForOwner)
}

type listFunc func(ctx context.Context, subjectID int64, state model.State, page model.Page) ([]model.BookingDetail, error)

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, fetch listFunc) {
	userID, err := sharer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	state, err := availability.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		WriteError(w, err)
		return
	}
	p, err := page(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	ds, err := fetch(r.Context(), userID, state, p)
	if err != nil {
		WriteError(w, err)
		return
	}

	views := make([]model.BookingView, len(ds))
	for i, d := range ds {
		views[i] = d.View()
	}
	writeJSON(w, http.StatusOK, views)
}
