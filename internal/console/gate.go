package console

import (
	"context"
	"fmt"
	"sync"

	"restaurant-console/internal/model"

	"github.com/rs/zerolog"
)

// TargetKind names what a deletion request is about.
type TargetKind string

const (
	TargetRestaurant TargetKind = "restaurant"
	TargetMenuItem   TargetKind = "menuItem"
)

// Target is a deletable target: the restaurant, or one menu item by id.
type Target struct {
	Kind   TargetKind `json:"kind"`
	ItemID string     `json:"itemId,omitempty"`
}

// RestaurantTarget addresses the session's restaurant.
func RestaurantTarget() Target {
	return Target{Kind: TargetRestaurant}
}

// MenuItemTarget addresses a single menu item.
func MenuItemTarget(itemID string) Target {
	return Target{Kind: TargetMenuItem, ItemID: itemID}
}

// Confirmer performs a deletion once the user has confirmed it.
type Confirmer interface {
	OnConfirm(ctx context.Context, target Target) error
}

// Requester opens a deletion confirmation.
type Requester interface {
	Open(target Target) error
}

// GateState is what the host renders for the confirmation dialog.
type GateState struct {
	Open   bool    `json:"open"`
	Target *Target `json:"target,omitempty"`
	Title  string  `json:"title,omitempty"`
	Prompt string  `json:"prompt,omitempty"`
}

// Gate is the single confirmation step shared by restaurant and menu item
// deletion. It dispatches to the Confirmer registered for the target kind.
type Gate struct {
	mu         sync.Mutex
	confirmers map[TargetKind]Confirmer
	open       bool
	target     Target
	logger     zerolog.Logger
}

// NewGate creates a closed gate with no confirmers registered.
func NewGate(logger zerolog.Logger) *Gate {
	return &Gate{
		confirmers: make(map[TargetKind]Confirmer),
		logger:     logger.With().Str("component", "delete-gate").Logger(),
	}
}

// Register sets the confirmer for kind, replacing any previous one.
func (g *Gate) Register(kind TargetKind, c Confirmer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.confirmers[kind] = c
}

// Open records target and opens the gate. Opening an already open gate
// replaces its target.
func (g *Gate) Open(target Target) error {
	if target.Kind == TargetMenuItem && target.ItemID == "" {
		return fmt.Errorf("menu item deletion needs an item id")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.confirmers[target.Kind]; !ok {
		return fmt.Errorf("no confirmer registered for %q", target.Kind)
	}

	g.open = true
	g.target = target

	g.logger.Debug().
		Str("kind", string(target.Kind)).
		Str("item_id", target.ItemID).
		Msg("deletion awaiting confirmation")

	return nil
}

// Confirm closes the gate and dispatches the recorded target. The gate is
// closed before dispatch and stays closed whatever the outcome; the
// confirmer reports its own failures. Only ErrGateClosed is returned.
func (g *Gate) Confirm(ctx context.Context) (Target, error) {
	g.mu.Lock()
	if !g.open {
		g.mu.Unlock()
		return Target{}, model.ErrGateClosed
	}
	target := g.target
	confirmer := g.confirmers[target.Kind]
	g.open = false
	g.target = Target{}
	g.mu.Unlock()

	if err := confirmer.OnConfirm(ctx, target); err != nil {
		g.logger.Debug().
			Err(err).
			Str("kind", string(target.Kind)).
			Msg("confirmed deletion did not complete")
	}

	return target, nil
}

// Cancel closes the gate without dispatching.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = false
	g.target = Target{}
}

// State returns the dialog state.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.open {
		return GateState{}
	}

	target := g.target
	noun := "restaurant"
	title := "Delete Restaurant"
	if target.Kind == TargetMenuItem {
		noun = "menu item"
		title = "Delete Menu Item"
	}

	return GateState{
		Open:   true,
		Target: &target,
		Title:  title,
		Prompt: fmt.Sprintf("Are you sure you want to delete this %s? This action cannot be undone.", noun),
	}
}
