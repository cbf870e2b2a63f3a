// Package events publishes booking lifecycle events.
//
// Every event travels in an Envelope: a small fixed header (id, type,
// version, time, producer) around a JSON payload. Consumers switch on
// EventType and decode Payload into the matching struct.
//
// Two publishers exist: KafkaPublisher for real deployments and LogPublisher,
// which writes events to the structured log when no broker is configured.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/shareit/internal/model"
)

// Type names an event.
type Type string

const (
	BookingCreated  Type = "BookingCreated"
	BookingApproved Type = "BookingApproved"
	BookingRejected Type = "BookingRejected"
)

// Version of the booking payload schema.
const Version = 1

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     Type            `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// BookingPayload is the payload of every booking event.
type BookingPayload struct {
	BookingID int64        `json:"booking_id"`
	ItemID    int64        `json:"item_id"`
	BookerID  int64        `json:"booker_id"`
	OwnerID   int64        `json:"owner_id"`
	Start     time.Time    `json:"start"`
	End       time.Time    `json:"end"`
	Status    model.Status `json:"status"`
}

// Publisher delivers envelopes somewhere.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// TypeForStatus maps a booking's new status to its event type.
func TypeForStatus(s model.Status) Type {
	switch s {
	case model.StatusApproved:
		return BookingApproved
	case model.StatusRejected:
		return BookingRejected
	default:
		return BookingCreated
	}
}

// NewBookingEvent wraps d in an envelope. The booking id is the correlation
// id, so all events of one booking share a partition.
func NewBookingEvent(producer string, typ Type, d model.BookingDetail, at time.Time) (Envelope, error) {
	payload, err := json.Marshal(BookingPayload{
		BookingID: d.ID,
		ItemID:    d.ItemID,
		BookerID:  d.BookerID,
		OwnerID:   d.OwnerID,
		Start:     d.Start,
		End:       d.End,
		Status:    d.Status,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("events: encoding booking payload: %w", err)
	}

	return Envelope{
		EventID:       xid.New().String(),
		EventType:     typ,
		EventVersion:  Version,
		OccurredAt:    at.UTC(),
		Producer:      producer,
		CorrelationID: strconv.FormatInt(d.ID, 10),
		Payload:       payload,
	}, nil
}

// DecodeBooking unwraps the payload of a booking event.
func DecodeBooking(env Envelope) (BookingPayload, error) {
	var p BookingPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return p, fmt.Errorf("events: decoding booking payload: %w", err)
	}
	return p, nil
}
