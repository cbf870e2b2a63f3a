package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// compile-time check that *BookingDB implements repository.BookingRepository
var _ repository.BookingRepository = (*BookingDB)(nil)

// BookingDB is the bookings table.
type BookingDB struct {
	db *DB
}

// Every detail query joins the item for its name and owner.
const bookingDetailSelect = `
	SELECT b.id, b.item_id, b.booker_id, b.start_at, b.end_at, b.status, i.name, i.owner_id
	FROM bookings b
	JOIN items i ON i.id = b.item_id`

func scanBookingDetail(s scanner) (model.BookingDetail, error) {
	var (
		d          model.BookingDetail
		start, end string
	)
	if err := s.Scan(&d.ID, &d.ItemID, &d.BookerID, &start, &end, &d.Status, &d.ItemName, &d.OwnerID); err != nil {
		return d, err
	}
	var err error
	if d.Start, err = decodeTime(start); err != nil {
		return d, err
	}
	if d.End, err = decodeTime(end); err != nil {
		return d, err
	}
	return d, nil
}

func (r *BookingDB) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.q.ExecContext(ctx,
		`INSERT INTO bookings (item_id, booker_id, start_at, end_at, status)
		 VALUES (?, ?, ?, ?, ?)`,
		b.ItemID, b.BookerID, encodeTime(b.Start), encodeTime(b.End), string(b.Status),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting booking: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading booking id: %w", err)
	}
	b.ID = id
	return nil
}

func (r *BookingDB) GetByID(ctx context.Context, id int64) (*model.BookingDetail, error) {
	d, err := scanBookingDetail(r.db.q.QueryRowContext(ctx,
		bookingDetailSelect+` WHERE b.id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("booking", id)
		}
		return nil, fmt.Errorf("sqlite: getting booking %d: %w", id, err)
	}
	return &d, nil
}

func (r *BookingDB) UpdateStatus(ctx context.Context, id int64, status model.Status) error {
	res, err := r.db.q.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, string(status), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating booking %d status: %w", id, err)
	}
	return requireAffected(res, "booking", id)
}

// List is the single query behind every booking listing.
//
// The WHERE clause is assembled from the filter; each optional field adds
// one predicate. Ordering is fixed: newest start first, id breaking ties so
// pages are stable.
func (r *BookingDB) List(ctx context.Context, f repository.BookingFilter) ([]model.BookingDetail, error) {
	var (
		where []string
		args  []any
	)

	switch f.Role {
	case repository.RoleOwner:
		where = append(where, "i.owner_id = ?")
	default:
		where = append(where, "b.booker_id = ?")
	}
	args = append(args, f.SubjectID)

	if f.Status != nil {
		where = append(where, "b.status = ?")
		args = append(args, string(*f.Status))
	}
	if f.StartAfter != nil {
		where = append(where, "b.start_at > ?")
		args = append(args, encodeTime(*f.StartAfter))
	}
	if f.EndBefore != nil {
		where = append(where, "b.end_at < ?")
		args = append(args, encodeTime(*f.EndBefore))
	}
	if f.Covering != nil {
		t := encodeTime(*f.Covering)
		where = append(where, "b.start_at <= ? AND b.end_at >= ?")
		args = append(args, t, t)
	}

	query := bookingDetailSelect +
		` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY b.start_at DESC, b.id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bookings: %w", err)
	}
	defer rows.Close()

	out := []model.BookingDetail{}
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning booking row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating booking rows: %w", err)
	}
	return out, nil
}

func (r *BookingDB) ListApproved(ctx context.Context, itemIDs []int64) ([]model.BookingShort, error) {
	if len(itemIDs) == 0 {
		return []model.BookingShort{}, nil
	}
	placeholders, args := inClause(itemIDs)
	args = append(args, string(model.StatusApproved))

	rows, err := r.db.q.QueryContext(ctx,
		`SELECT id, item_id, booker_id, start_at, end_at FROM bookings
		 WHERE item_id IN (`+placeholders+`) AND status = ?
		 ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing approved bookings: %w", err)
	}
	defer rows.Close()

	out := []model.BookingShort{}
	for rows.Next() {
		var (
			s          model.BookingShort
			start, end string
		)
		if err := rows.Scan(&s.ID, &s.ItemID, &s.BookerID, &start, &end); err != nil {
			return nil, fmt.Errorf("sqlite: scanning booking row: %w", err)
		}
		if s.Start, err = decodeTime(start); err != nil {
			return nil, err
		}
		if s.End, err = decodeTime(end); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating booking rows: %w", err)
	}
	return out, nil
}

func (r *BookingDB) HasCompleted(ctx context.Context, bookerID, itemID int64, t time.Time) (bool, error) {
	var n int
	err := r.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE booker_id = ? AND item_id = ? AND status = ? AND end_at < ?`,
		bookerID, itemID, string(model.StatusApproved), encodeTime(t),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking completed bookings: %w", err)
	}
	return n > 0, nil
}
