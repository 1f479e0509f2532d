// Package store talks to the remote entity store holding the restaurant
// record and its menu.
package store

import (
	"context"
	"errors"
	"fmt"

	"restaurant-console/internal/model"
	"restaurant-console/internal/session"
)

// ErrNotFound is returned when the addressed restaurant or menu item does not exist.
var ErrNotFound = errors.New("not found")

// StatusError reports a non-success response from the store.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: store responded %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: store responded %d", e.Op, e.StatusCode)
}

// RemoteStore is the remote entity store contract. Every call is keyed by
// the session owner id and carries the session credential.
type RemoteStore interface {
	// GetRestaurant reads the restaurant owned by the session owner.
	GetRestaurant(ctx context.Context, s session.Session) (*model.Restaurant, error)

	// GetMenu reads the menu items in store order.
	GetMenu(ctx context.Context, s session.Session) ([]model.MenuItem, error)

	// UpdateRestaurant replaces the restaurant with r and returns the stored representation.
	UpdateRestaurant(ctx context.Context, s session.Session, r model.Restaurant) (*model.Restaurant, error)

	// DeleteRestaurant removes the restaurant.
	DeleteRestaurant(ctx context.Context, s session.Session) error

	// CreateMenuItem creates item and returns it with its assigned id.
	CreateMenuItem(ctx context.Context, s session.Session, item model.MenuItem) (*model.MenuItem, error)

	// UpdateMenuItem replaces the item with the given id.
	UpdateMenuItem(ctx context.Context, s session.Session, itemID string, item model.MenuItem) (*model.MenuItem, error)

	// DeleteMenuItem removes the item with the given id.
	DeleteMenuItem(ctx context.Context, s session.Session, itemID string) error
}
