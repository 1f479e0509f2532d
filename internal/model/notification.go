package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// OrderSummary is the order payload embedded in a notification.
// Fields other than the total are kept as raw JSON.
type OrderSummary struct {
	Total float64                    `json:"total"`
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts the total as a number or a numeric string and
// keeps every other key in Extra.
func (o *OrderSummary) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	total, ok := raw["total"]
	if !ok {
		return fmt.Errorf("order summary: missing total")
	}
	delete(raw, "total")

	var n json.Number
	if err := json.Unmarshal(total, &n); err != nil {
		var s string
		if err := json.Unmarshal(total, &s); err != nil {
			return fmt.Errorf("order summary: total is not a number")
		}
		n = json.Number(s)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("order summary: total: %w", err)
	}

	o.Total = f
	o.Extra = raw
	return nil
}

// MarshalJSON writes the total alongside the extra keys.
func (o OrderSummary) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.Extra)+1)
	for k, v := range o.Extra {
		out[k] = v
	}
	out["total"] = o.Total
	return json.Marshal(out)
}

// OrderEvent is an order-created event as delivered by an order event source.
type OrderEvent struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Message   string       `json:"message"`
	Order     OrderSummary `json:"order"`
}

// UnmarshalJSON accepts the timestamp as RFC 3339 text or as epoch milliseconds.
func (e *OrderEvent) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID        json.RawMessage `json:"id"`
		Timestamp json.RawMessage `json:"timestamp"`
		Message   string          `json:"message"`
		Order     OrderSummary    `json:"order"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	id, err := parseEventID(wire.ID)
	if err != nil {
		return err
	}
	ts, err := parseEventTime(wire.Timestamp)
	if err != nil {
		return err
	}

	*e = OrderEvent{ID: id, Timestamp: ts, Message: wire.Message, Order: wire.Order}
	return nil
}

// parseEventID accepts string or numeric identifiers.
func parseEventID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("order event: id must be a string or number")
	}
	return n.String(), nil
}

func parseEventTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("order event: timestamp: %w", err)
		}
		return t, nil
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("order event: timestamp must be RFC 3339 or epoch milliseconds")
	}
	return time.UnixMilli(ms).UTC(), nil
}

// Validate checks that the event carries an identity.
func (e OrderEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("order event: missing id")
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("order event %s: missing timestamp", e.ID)
	}
	return nil
}

// Notification is an incoming-order notice shown to the owner.
// Dismissal is keyed by ID; list identity is ID plus Timestamp.
type Notification struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Message   string       `json:"message"`
	Order     OrderSummary `json:"order"`
}

// Key returns the display identity of the notification.
func (n Notification) Key() string {
	return n.ID + "-" + n.Timestamp.UTC().Format(time.RFC3339Nano)
}

// NotificationFromEvent builds a notification from an order event.
func NotificationFromEvent(e OrderEvent) Notification {
	return Notification{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Message:   e.Message,
		Order:     e.Order,
	}
}
