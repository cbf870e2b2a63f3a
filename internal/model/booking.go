package model

import (
	"strings"
	"time"
)

// Status is the decision state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// validNext lists the status changes an owner may make.
// APPROVED is terminal. REJECTED may be re-decided by the owner.
var validNext = map[Status]map[Status]bool{
	StatusWaiting: {
		StatusApproved: true,
		StatusRejected: true,
	},
	StatusRejected: {
		StatusApproved: true,
		StatusRejected: true,
	},
	StatusApproved: {},
}

// CanTransition reports whether a booking in status from may move to to.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// DecisionStatus maps the owner's approve/reject flag to a status.
func DecisionStatus(approved bool) Status {
	if approved {
		return StatusApproved
	}
	return StatusRejected
}

// State selects which of a user's bookings to list.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = map[State]bool{
	StateAll:      true,
	StateCurrent:  true,
	StatePast:     true,
	StateFuture:   true,
	StateWaiting:  true,
	StateRejected: true,
}

// ParseState parses a state filter. An empty string means ALL. Matching is
// exact, so "current" is not a valid state.
func ParseState(raw string) (State, bool) {
	if strings.TrimSpace(raw) == "" {
		return StateAll, true
	}
	s := State(raw)
	return s, states[s]
}

// ValidWindow reports whether [start, end] is a usable booking window.
func ValidWindow(start, end time.Time) bool {
	return start.Before(end)
}

// Booking is a reservation of an item by a booker for a time window.
type Booking struct {
	ID       int64
	ItemID   int64
	BookerID int64
	Start    time.Time
	End      time.Time
	Status   Status
}

// BookingDetail is a booking resolved with the item fields every view needs.
type BookingDetail struct {
	Booking
	ItemName string
	OwnerID  int64
}

// NewBooking is the input to booking creation.
type NewBooking struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

// BookingShort is the compact form shown as an item's last/next booking.
type BookingShort struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"-"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// BookingView is the JSON shape of a booking.
type BookingView struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
	Booker UserRef   `json:"booker"`
	Item   ItemRef   `json:"item"`
}

type UserRef struct {
	ID int64 `json:"id"`
}

type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// View renders the detail as its API representation.
func (d BookingDetail) View() BookingView {
	return BookingView{
		ID:     d.ID,
		Start:  d.Start,
		End:    d.End,
		Status: d.Status,
		Booker: UserRef{ID: d.BookerID},
		Item:   ItemRef{ID: d.ItemID, Name: d.ItemName},
	}
}
