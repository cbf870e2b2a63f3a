// Package repository declares the storage contracts the services depend on.
//
// Services only see these interfaces. The sqlite package provides the real
// implementation; tests run it against an in-memory database.
package repository

import (
	"context"
	"time"

	"github.com/sakif/shareit/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
	// EmailTaken reports whether another user (not exceptID) holds email.
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error)
	// Search matches text case-insensitively against name or description of
	// available items.
	Search(ctx context.Context, text string, page model.Page) ([]model.Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error)
}

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	GetByID(ctx context.Context, id int64) (*model.Request, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]model.Request, error)
	ListExcept(ctx context.Context, userID int64, page model.Page) ([]model.Request, error)
}

// Role says which side of a booking the filter subject is on.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

// BookingFilter selects bookings for ListBookings.
//
// SubjectID and Role are required. Every other field narrows the result when
// set. Results are always ordered by start descending, then id descending.
type BookingFilter struct {
	SubjectID int64
	Role      Role

	Status     *model.Status
	StartAfter *time.Time // start > t
	EndBefore  *time.Time // end < t
	Covering   *time.Time // start <= t AND end >= t

	Page model.Page
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.BookingDetail, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) error
	List(ctx context.Context, filter BookingFilter) ([]model.BookingDetail, error)
	// ListApproved returns the approved bookings of the given items ordered
	// by id.
	ListApproved(ctx context.Context, itemIDs []int64) ([]model.BookingShort, error)
	// HasCompleted reports whether booker has an approved booking of item
	// that ended strictly before t.
	HasCompleted(ctx context.Context, bookerID, itemID int64, t time.Time) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByItemIDs(ctx context.Context, itemIDs []int64) ([]model.CommentView, error)
}

// Store groups the repositories and runs multi-step operations atomically.
type Store interface {
	Users() UserRepository
	Items() ItemRepository
	Requests() RequestRepository
	Bookings() BookingRepository
	Comments() CommentRepository

	// Atomic runs fn inside one transaction. The Store passed to fn must be
	// used for every read and write that belongs to the unit. Returning an
	// error rolls everything back.
	Atomic(ctx context.Context, fn func(Store) error) error
}
