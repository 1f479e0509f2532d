// Package notification accumulates incoming order notifications for the
// owner and feeds them from an order event source.
package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"restaurant-console/internal/model"

	"github.com/rs/zerolog"
)

// Intake holds the notification list in arrival order.
type Intake struct {
	mu     sync.Mutex
	list   []model.Notification
	logger zerolog.Logger
}

// NewIntake creates an empty intake.
func NewIntake(logger zerolog.Logger) *Intake {
	return &Intake{
		logger: logger.With().Str("component", "notification-intake").Logger(),
	}
}

// Ingest appends the notification for e. An event whose id and timestamp
// are both already listed is dropped and Ingest reports false.
func (i *Intake) Ingest(e model.OrderEvent) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	n := model.NotificationFromEvent(e)
	key := n.Key()

	i.mu.Lock()
	defer i.mu.Unlock()

	for _, existing := range i.list {
		if existing.Key() == key {
			i.logger.Debug().Str("notification_key", key).Msg("duplicate order event dropped")
			return false, nil
		}
	}
	i.list = append(i.list, n)

	i.logger.Info().
		Str("notification_id", n.ID).
		Float64("total", n.Order.Total).
		Msg("order notification received")
	return true, nil
}

// Dismiss removes every notification with the given id and returns how
// many were removed. Unknown ids leave the list untouched.
func (i *Intake) Dismiss(id string) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	kept := make([]model.Notification, 0, len(i.list))
	for _, n := range i.list {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	removed := len(i.list) - len(kept)
	if removed > 0 {
		i.list = kept
	}
	return removed
}

// Notifications returns a copy of the list in arrival order.
func (i *Intake) Notifications() []model.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]model.Notification{}, i.list...)
}

// Len returns the number of listed notifications.
func (i *Intake) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.list)
}

// Run ingests events from src until ctx ends or src is exhausted.
// Malformed events are logged and skipped. Run returns nil on either of
// those endings and the source error otherwise.
func (i *Intake) Run(ctx context.Context, src EventSource) error {
	i.logger.Info().Msg("listening for order events")
	defer i.logger.Info().Msg("stopped listening for order events")

	for {
		e, err := src.Next(ctx)
		switch {
		case err == nil:
		case errors.Is(err, errIgnoredEvent):
			i.logger.Debug().Err(err).Msg("ignoring event")
			continue
		case errors.Is(err, ErrMalformedEvent):
			i.logger.Warn().Err(err).Msg("skipping malformed order event")
			continue
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("order event source: %w", err)
		}

		if _, err := i.Ingest(e); err != nil {
			i.logger.Warn().Err(err).Msg("skipping invalid order event")
		}
	}
}

// Consume runs src until it ends and then closes it. A source failure is
// logged and ends only the intake; the notifications already received stay listed.
func (i *Intake) Consume(ctx context.Context, src EventSource) {
	defer func() {
		if err := src.Close(); err != nil {
			i.logger.Warn().Err(err).Msg("failed to close order event source")
		}
	}()
	if err := i.Run(ctx, src); err != nil {
		i.logger.Error().Err(err).Msg("order event source failed, new orders will not be shown")
	}
}

// PanelHeaderFormat is the panel heading, filled with the notification count.
const PanelHeaderFormat = "New Orders (%d)"

const panelTimeLayout = "Jan 2, 2006, 3:04 PM"

// Panel is the rendered notification panel.
type Panel struct {
	Header  string       `json:"header"`
	Count   int          `json:"count"`
	Entries []PanelEntry `json:"entries"`
}

// PanelEntry is one rendered notification.
type PanelEntry struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Total     string    `json:"total"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"time"`
}

// Panel renders the list with times shown in loc (time.Local when nil).
// It returns nil when there is nothing to show, in which case the host
// renders no panel at all.
func (i *Intake) Panel(loc *time.Location) *Panel {
	if loc == nil {
		loc = time.Local
	}

	list := i.Notifications()
	if len(list) == 0 {
		return nil
	}

	p := &Panel{
		Header:  fmt.Sprintf(PanelHeaderFormat, len(list)),
		Count:   len(list),
		Entries: make([]PanelEntry, len(list)),
	}
	for idx, n := range list {
		p.Entries[idx] = PanelEntry{
			Key:       n.Key(),
			ID:        n.ID,
			Message:   n.Message,
			Total:     fmt.Sprintf("$%.2f", n.Order.Total),
			Timestamp: n.Timestamp,
			Time:      n.Timestamp.In(loc).Format(panelTimeLayout),
		}
	}
	return p
}
