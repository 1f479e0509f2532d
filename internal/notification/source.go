package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"restaurant-console/internal/model"
)

// ErrMalformedEvent marks a delivery that could not be decoded as an order event.
var ErrMalformedEvent = errors.New("malformed order event")

// EventSource yields order events over time.
type EventSource interface {
	// Next blocks until an event arrives, ctx ends or the source is closed.
	// A closed source returns io.EOF.
	Next(ctx context.Context) (model.OrderEvent, error)

	Close() error
}

// orderEventNames are the envelope event names carrying an order event.
var orderEventNames = map[string]bool{
	"order_created": true,
	"new_order":     true,
}

// errIgnoredEvent marks an envelope for an event the intake does not consume.
var errIgnoredEvent = errors.New("not an order event")

// decodeEvent parses a bare order event or an {"event": ..., "data": ...}
// envelope wrapping one.
func decodeEvent(payload []byte) (model.OrderEvent, error) {
	var envelope struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return model.OrderEvent{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	body := payload
	if envelope.Event != "" {
		if !orderEventNames[envelope.Event] {
			return model.OrderEvent{}, fmt.Errorf("%w: %q", errIgnoredEvent, envelope.Event)
		}
		body = envelope.Data
	}

	var e model.OrderEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return model.OrderEvent{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	return e, nil
}

// ChanSource is an in-process event source.
type ChanSource struct {
	events chan model.OrderEvent
	done   chan struct{}
	once   sync.Once
}

// NewChanSource creates a source buffering up to size events.
func NewChanSource(size int) *ChanSource {
	return &ChanSource{
		events: make(chan model.OrderEvent, size),
		done:   make(chan struct{}),
	}
}

// Publish delivers e to the reader. It fails once the source is closed.
func (s *ChanSource) Publish(ctx context.Context, e model.OrderEvent) error {
	select {
	case <-s.done:
		return io.ErrClosedPipe
	default:
	}

	select {
	case s.events <- e:
		return nil
	case <-s.done:
		return io.ErrClosedPipe
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next implements EventSource. Events published before Close are still
// delivered.
func (s *ChanSource) Next(ctx context.Context) (model.OrderEvent, error) {
	select {
	case e := <-s.events:
		return e, nil
	default:
	}

	select {
	case e := <-s.events:
		return e, nil
	case <-s.done:
		select {
		case e := <-s.events:
			return e, nil
		default:
			return model.OrderEvent{}, io.EOF
		}
	case <-ctx.Done():
		return model.OrderEvent{}, ctx.Err()
	}
}

// Close ends the source.
func (s *ChanSource) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}
