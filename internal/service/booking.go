package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/availability"
	"github.com/sakif/shareit/internal/events"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// Producer is the name booking events are published under.
const Producer = "shareit-server"

// BookingService runs the booking lifecycle.
//
// LIFECYCLE:
//
//	create   → WAITING
//	approve  → APPROVED (terminal)
//	reject   → REJECTED (the owner may still change their mind)
//
// Every change is published as an event after the transaction commits.
type BookingService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewBookingService(store repository.Store, publisher events.Publisher, logger *slog.Logger, now func() time.Time) *BookingService {
	return &BookingService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       clock(now),
	}
}

// Create books an item for bookerID.
//
// Checks, in order: the window is valid and starts in the future; the booker
// exists; the item exists; the item is available; the booker is not the
// owner. An owner trying to book their own item gets NotFound, the same as
// for an item they cannot see.
func (s *BookingService) Create(ctx context.Context, bookerID int64, in model.NewBooking) (*model.BookingDetail, error) {
	// === VALIDATION ===
	now := s.now()
	if !model.ValidWindow(in.Start, in.End) {
		return nil, apperror.ValidationFailed("end", "booking end must be after start")
	}
	if !in.Start.After(now) {
		return nil, apperror.ValidationFailed("start", "booking start must be in the future")
	}

	var created model.BookingDetail
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, bookerID); err != nil {
			return err
		}
		item, err := tx.Items().GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if !item.Available {
			return apperror.AccessDenied(fmt.Sprintf("item %d is not available", item.ID))
		}
		if item.OwnerID == bookerID {
			return apperror.NotFoundf("item %d cannot be booked by its owner", item.ID)
		}

		b := model.Booking{
			ItemID:   item.ID,
			BookerID: bookerID,
			Start:    in.Start,
			End:      in.End,
			Status:   model.StatusWaiting,
		}
		if err := tx.Bookings().Create(ctx, &b); err != nil {
			return err
		}
		created = model.BookingDetail{Booking: b, ItemName: item.Name, OwnerID: item.OwnerID}
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "booking", "create booking", err)
	}

	s.logger.Info("booking created",
		slog.Int64("id", created.ID),
		slog.Int64("item_id", created.ItemID),
		slog.Int64("booker_id", bookerID),
	)
	s.publish(ctx, events.BookingCreated, created)
	return &created, nil
}

// GetByID returns a booking to its booker or to the item's owner. Anyone
// else gets NotFound.
func (s *BookingService) GetByID(ctx context.Context, bookingID, requesterID int64) (*model.BookingDetail, error) {
	d, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, fail(s.logger, "booking", "get booking", err)
	}
	if d.BookerID != requesterID && d.OwnerID != requesterID {
		return nil, apperror.NotFound("booking", bookingID)
	}
	return d, nil
}

// UpdateStatus records the owner's decision. Once approved a booking can no
// longer change.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, ownerID int64, approved bool) (*model.BookingDetail, error) {
	next := model.DecisionStatus(approved)

	var d *model.BookingDetail
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		var err error
		if d, err = tx.Bookings().GetByID(ctx, bookingID); err != nil {
			return err
		}
		if d.OwnerID != ownerID {
			return apperror.NotFound("booking", bookingID)
		}
		if d.Status == model.StatusApproved {
			return apperror.AccessDenied("status already approved")
		}
		if !model.CanTransition(d.Status, next) {
			return apperror.AccessDenied(fmt.Sprintf("cannot change status from %s to %s", d.Status, next))
		}
		if err := tx.Bookings().UpdateStatus(ctx, bookingID, next); err != nil {
			return err
		}
		d.Status = next
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "booking", "update booking status", err)
	}

	s.logger.Info("booking status updated",
		slog.Int64("id", bookingID),
		slog.String("status", string(next)),
	)
	s.publish(ctx, events.TypeForStatus(next), *d)
	return d, nil
}

// ListForBooker returns bookerID's bookings in state, newest start first.
func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, state model.State, page model.Page) ([]model.BookingDetail, error) {
	return s.list(ctx, repository.RoleBooker, bookerID, state, page)
}

// ListForOwner returns bookings of ownerID's items in state, newest start
// first.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state model.State, page model.Page) ([]model.BookingDetail, error) {
	return s.list(ctx, repository.RoleOwner, ownerID, state, page)
}

func (s *BookingService) list(ctx context.Context, role repository.Role, subjectID int64, state model.State, page model.Page) ([]model.BookingDetail, error) {
	if _, err := s.store.Users().GetByID(ctx, subjectID); err != nil {
		return nil, fail(s.logger, "booking", "list bookings", err)
	}

	filter := availability.Filter(role, subjectID, state, s.now(), page)
	out, err := s.store.Bookings().List(ctx, filter)
	if err != nil {
		return nil, fail(s.logger, "booking", "list bookings", err)
	}
	return out, nil
}

// publish sends a lifecycle event. The booking is already committed, so a
// failure is logged and not returned.
func (s *BookingService) publish(ctx context.Context, typ events.Type, d model.BookingDetail) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewBookingEvent(Producer, typ, d, s.now())
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.Warn("failed to publish booking event",
			slog.Int64("booking_id", d.ID),
			slog.String("event_type", string(typ)),
			slog.String("error", err.Error()),
		)
	}
}
