// Package console holds the restaurant management console: the restaurant
// edit session, the menu collection and the deletion confirmation gate
// shared by both.
package console

import (
	"context"

	"restaurant-console/internal/session"
	"restaurant-console/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Console wires the controllers of one authenticated session.
type Console struct {
	Session session.Session
	Edit    *EditSession
	Menu    *Menu
	Gate    *Gate
	Notices *NoticeBoard
}

// Snapshot is the combined state rendered by the host.
type Snapshot struct {
	OwnerID    string          `json:"ownerId"`
	Restaurant RestaurantState `json:"restaurant"`
	Menu       MenuState       `json:"menu"`
	Gate       GateState       `json:"gate"`
	Notices    int             `json:"pendingNotices"`
}

// New creates a console for sess backed by st.
func New(st store.RemoteStore, sess session.Session, logger zerolog.Logger) *Console {
	gate := NewGate(logger)
	notices := NewNoticeBoard()

	edit := NewEditSession(st, sess, gate, notices, logger)
	menu := NewMenu(st, sess, gate, notices, logger)

	gate.Register(TargetRestaurant, edit)
	gate.Register(TargetMenuItem, menu)

	return &Console{
		Session: sess,
		Edit:    edit,
		Menu:    menu,
		Gate:    gate,
		Notices: notices,
	}
}

// Load fetches the restaurant and its menu together. Both fetches run to
// completion; the first failure is returned.
func (c *Console) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.Edit.Load(ctx) })
	g.Go(func() error { return c.Menu.Load(ctx) })
	return g.Wait()
}

// Snapshot returns the state of every controller.
func (c *Console) Snapshot() Snapshot {
	return Snapshot{
		OwnerID:    c.Session.OwnerID,
		Restaurant: c.Edit.State(),
		Menu:       c.Menu.State(),
		Gate:       c.Gate.State(),
		Notices:    c.Notices.Len(),
	}
}

// Deleted reports whether the restaurant was deleted in this session.
func (c *Console) Deleted() bool {
	return c.Edit.State().Deleted
}
