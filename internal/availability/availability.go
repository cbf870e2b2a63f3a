// Package availability classifies bookings by state and derives the
// last/next approved booking of an item.
//
// Everything here is pure: callers pass "now" in, and nothing touches the
// store. Filter builds the store query for a state, and
// LastAndNext/BatchLastAndNext compute the owner's view of an item's
// schedule.
package availability

import (
	"time"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// Filter returns the store filter that selects subject's bookings in state.
//
// State predicates, evaluated at now:
//
//	ALL       no filter
//	CURRENT   start <= now <= end
//	PAST      end < now
//	FUTURE    start > now
//	WAITING   status = WAITING
//	REJECTED  status = REJECTED
func Filter(role repository.Role, subjectID int64, state model.State, now time.Time, page model.Page) repository.BookingFilter {
	f := repository.BookingFilter{
		SubjectID: subjectID,
		Role:      role,
		Page:      page,
	}

	switch state {
	case model.StateCurrent:
		f.Covering = &now
	case model.StatePast:
		f.EndBefore = &now
	case model.StateFuture:
		f.StartAfter = &now
	case model.StateWaiting:
		s := model.StatusWaiting
		f.Status = &s
	case model.StateRejected:
		s := model.StatusRejected
		f.Status = &s
	}
	return f
}

// Window is an item's last and next approved booking. Either may be nil.
type Window struct {
	Last *model.BookingShort
	Next *model.BookingShort
}

// LastAndNext derives the window from one item's approved bookings.
//
// Last is the booking with the greatest start at or before now; Next is the
// one with the smallest start after now. On equal starts the booking seen
// first wins, so callers should pass bookings in id order.
func LastAndNext(bookings []model.BookingShort, now time.Time) Window {
	var w Window
	for i := range bookings {
		b := &bookings[i]
		if !b.Start.After(now) {
			if w.Last == nil || b.Start.After(w.Last.Start) {
				w.Last = b
			}
			continue
		}
		if w.Next == nil || b.Start.Before(w.Next.Start) {
			w.Next = b
		}
	}
	return w
}

// BatchLastAndNext groups bookings by item and derives each item's window.
// Items without approved bookings are absent from the result.
func BatchLastAndNext(bookings []model.BookingShort, now time.Time) map[int64]Window {
	byItem := make(map[int64][]model.BookingShort)
	for _, b := range bookings {
		byItem[b.ItemID] = append(byItem[b.ItemID], b)
	}

	out := make(map[int64]Window, len(byItem))
	for itemID, group := range byItem {
		out[itemID] = LastAndNext(group, now)
	}
	return out
}

// ParseState parses a state query parameter. An empty value means ALL.
func ParseState(raw string) (model.State, error) {
	s, ok := model.ParseState(raw)
	if !ok {
		return "", apperror.UnknownState(raw)
	}
	return s, nil
}
