package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the structured log. It is the publisher
// used when no Kafka broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the envelope header and the decoded booking fields.
func (p *LogPublisher) Publish(ctx context.Context, env Envelope) error {
	b, err := DecodeBooking(env)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "event",
		slog.String("event_id", env.EventID),
		slog.String("event_type", string(env.EventType)),
		slog.String("correlation_id", env.CorrelationID),
		slog.Int64("booking_id", b.BookingID),
		slog.Int64("item_id", b.ItemID),
		slog.Int64("booker_id", b.BookerID),
		slog.String("status", string(b.Status)),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
