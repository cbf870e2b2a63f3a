package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("events: publisher closed")

// KafkaPublisher hands messages to a background writer loop.
//
// Publish only enqueues, so a slow or unavailable broker never holds up an
// HTTP request. Write failures are logged by the loop. Close drains the
// queue and flushes the writer.
type KafkaPublisher struct {
	w      *kafka.Writer
	inbox  chan kafka.Message
	done   chan struct{}
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewKafkaPublisher starts the writer loop. buf is the queue length.
func NewKafkaPublisher(brokers []string, topic string, buf int, logger *slog.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
		inbox:  make(chan kafka.Message, buf),
		done:   make(chan struct{}),
		logger: logger,
	}
	go p.loop()
	return p
}

func (p *KafkaPublisher) loop() {
	defer close(p.done)
	for m := range p.inbox {
		if err := p.w.WriteMessages(context.Background(), m); err != nil {
			p.logger.Error("failed to publish event",
				slog.String("key", string(m.Key)),
				slog.String("error", err.Error()),
			)
		}
	}
	if err := p.w.Close(); err != nil {
		p.logger.Error("failed to close kafka writer", slog.String("error", err.Error()))
	}
}

// Publish enqueues env. It blocks only while the queue is full.
func (p *KafkaPublisher) Publish(ctx context.Context, env Envelope) error {
	msg, err := toMessage(env)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()

	<-p.done
	return nil
}

// toMessage keys the message by correlation id and copies the type and
// version into headers so consumers can route without decoding the body.
func toMessage(env Envelope) (kafka.Message, error) {
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("events: encoding envelope: %w", err)
	}
	return kafka.Message{
		Key:   []byte(env.CorrelationID),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
		},
	}, nil
}
