// Package dto holds the JSON request bodies and the validation pass that
// runs over them before anything reaches a service.
//
// Both tiers use it: the gateway rejects bad input before forwarding, and
// the server checks again because it can be called directly.
package dto

import (
	"time"

	"github.com/sakif/shareit/internal/model"
)

type UserCreate struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
}

// UserUpdate fields are optional but may not be blank when present.
type UserUpdate struct {
	Name  *string `json:"name" validate:"omitempty,notblank"`
	Email *string `json:"email" validate:"omitempty,notblank,email"`
}

func (u UserUpdate) Patch() model.UserPatch {
	return model.UserPatch{Name: u.Name, Email: u.Email}
}

type ItemCreate struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

func (c ItemCreate) NewItem() model.NewItem {
	in := model.NewItem{
		Name:        c.Name,
		Description: c.Description,
		RequestID:   c.RequestID,
	}
	if c.Available != nil {
		in.Available = *c.Available
	}
	return in
}

type ItemUpdate struct {
	Name        *string `json:"name" validate:"omitempty,notblank"`
	Description *string `json:"description" validate:"omitempty,notblank"`
	Available   *bool   `json:"available"`
}

func (u ItemUpdate) Patch() model.ItemPatch {
	return model.ItemPatch{Name: u.Name, Description: u.Description, Available: u.Available}
}

type CommentCreate struct {
	Text string `json:"text" validate:"notblank"`
}

// BookingCreate also carries a struct-level rule: start before end.
type BookingCreate struct {
	ItemID *int64     `json:"itemId" validate:"required,gt=0"`
	Start  *time.Time `json:"start" validate:"required,future"`
	End    *time.Time `json:"end" validate:"required,future"`
}

// NewBooking converts a validated body.
func (b BookingCreate) NewBooking() model.NewBooking {
	var in model.NewBooking
	if b.ItemID != nil {
		in.ItemID = *b.ItemID
	}
	if b.Start != nil {
		in.Start = *b.Start
	}
	if b.End != nil {
		in.End = *b.End
	}
	return in
}

type RequestCreate struct {
	Description string `json:"description" validate:"notblank"`
}
