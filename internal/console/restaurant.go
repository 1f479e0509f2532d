package console

import (
	"context"
	"errors"
	"sync"

	"restaurant-console/internal/model"
	"restaurant-console/internal/session"
	"restaurant-console/internal/store"

	"github.com/rs/zerolog"
)

// ExitPath is where the host sends the user once the restaurant is deleted.
const ExitPath = "/restaurants"

// Mode is the edit session state.
type Mode string

const (
	ModeViewing Mode = "viewing"
	ModeEditing Mode = "editing"
)

// RestaurantState is a snapshot of the edit session for rendering.
type RestaurantState struct {
	Mode        Mode              `json:"mode"`
	Loading     bool              `json:"loading"`
	Restaurant  *model.Restaurant `json:"restaurant,omitempty"`
	WorkingCopy *model.Restaurant `json:"workingCopy,omitempty"`
	Missing     bool              `json:"missing"`
	Error       string            `json:"error,omitempty"`
	Busy        bool              `json:"busy"`
	Deleted     bool              `json:"deleted"`
	ExitPath    string            `json:"exitPath,omitempty"`
}

// EditSession owns the loaded restaurant and its working copy. Edits are
// staged on the working copy and reach the loaded restaurant only through
// a successful commit.
type EditSession struct {
	mu      sync.Mutex
	store   store.RemoteStore
	sess    session.Session
	gate    Requester
	notices *NoticeBoard
	logger  zerolog.Logger

	mode    Mode
	loaded  *model.Restaurant
	working *model.Restaurant
	loading bool
	loadErr error
	missing bool
	busy    bool
	deleted bool
}

// NewEditSession creates an edit session in Viewing mode with nothing loaded.
func NewEditSession(st store.RemoteStore, sess session.Session, gate Requester, notices *NoticeBoard, logger zerolog.Logger) *EditSession {
	return &EditSession{
		store:   st,
		sess:    sess,
		gate:    gate,
		notices: notices,
		logger:  logger.With().Str("component", "edit-session").Str("owner_id", sess.OwnerID).Logger(),
		mode:    ModeViewing,
	}
}

// Load fetches the restaurant. A fetch failure leaves the session blocked
// until a later Load succeeds; a missing restaurant is reported as
// ErrRestaurantNotFound.
func (s *EditSession) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return model.ErrBusy
	}
	s.busy = true
	s.loading = true
	s.mu.Unlock()

	r, err := s.store.GetRestaurant(ctx, s.sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.loading = false

	switch {
	case errors.Is(err, store.ErrNotFound):
		s.loaded, s.working = nil, nil
		s.mode = ModeViewing
		s.missing = true
		s.loadErr = nil
		s.logger.Info().Msg("no restaurant for owner")
		return model.ErrRestaurantNotFound.Wrap(err)
	case err != nil:
		s.loadErr = model.ErrFetchFailed.Wrap(err)
		s.logger.Error().Err(err).Msg("failed to load restaurant")
		return s.loadErr
	}

	s.loaded = r
	s.missing = false
	s.loadErr = nil
	s.logger.Debug().Str("restaurant_id", r.ID).Msg("restaurant loaded")
	return nil
}

// EnterEdit snapshots the loaded restaurant into a working copy.
func (s *EditSession) EnterEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usableLocked(); err != nil {
		return err
	}
	if s.mode != ModeViewing {
		return model.ErrInvalidState
	}

	working := s.loaded.Clone()
	s.working = &working
	s.mode = ModeEditing
	return nil
}

// UpdateField sets one field of the working copy.
func (s *EditSession) UpdateField(field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeEditing {
		return model.ErrInvalidState
	}
	if s.busy {
		return model.ErrBusy
	}
	return s.working.SetField(field, value)
}

// Commit sends the working copy to the store. On success the store's
// representation replaces the loaded restaurant and the session returns
// to Viewing; on failure it stays in Editing with the working copy intact.
func (s *EditSession) Commit(ctx context.Context) error {
	s.mu.Lock()
	if s.mode != ModeEditing {
		s.mu.Unlock()
		return model.ErrInvalidState
	}
	if s.busy {
		s.mu.Unlock()
		return model.ErrBusy
	}
	s.busy = true
	payload := s.working.Clone()
	s.mu.Unlock()

	updated, err := s.store.UpdateRestaurant(ctx, s.sess, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.logger.Error().Err(err).Msg("failed to update restaurant")
		err = model.ErrMutationFailed.Wrap(err)
		s.notices.Post("restaurant", err)
		return err
	}

	s.loaded = updated
	s.working = nil
	s.mode = ModeViewing
	s.logger.Info().Msg("restaurant updated")
	return nil
}

// Cancel discards the working copy.
func (s *EditSession) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeEditing {
		return model.ErrInvalidState
	}
	if s.busy {
		return model.ErrBusy
	}
	s.working = nil
	s.mode = ModeViewing
	return nil
}

// RequestDelete asks the gate to confirm deleting the restaurant.
func (s *EditSession) RequestDelete() error {
	s.mu.Lock()
	err := s.usableLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.gate.Open(RestaurantTarget())
}

// ConfirmDelete deletes the restaurant. On success the session is marked
// deleted and the host is expected to leave for ExitPath.
func (s *EditSession) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.busy {
		s.mu.Unlock()
		return model.ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	err := s.store.DeleteRestaurant(ctx, s.sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.logger.Error().Err(err).Msg("failed to delete restaurant")
		err = model.ErrMutationFailed.Wrap(err)
		s.notices.Post("restaurant", err)
		return err
	}

	s.deleted = true
	s.loaded, s.working = nil, nil
	s.mode = ModeViewing
	s.logger.Info().Msg("restaurant deleted")
	return nil
}

// OnConfirm implements Confirmer.
func (s *EditSession) OnConfirm(ctx context.Context, _ Target) error {
	return s.ConfirmDelete(ctx)
}

// State returns a snapshot safe for the caller to keep.
func (s *EditSession) State() RestaurantState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := RestaurantState{
		Mode:    s.mode,
		Loading: s.loading,
		Missing: s.missing,
		Busy:    s.busy,
		Deleted: s.deleted,
	}
	if s.loaded != nil {
		r := s.loaded.Clone()
		st.Restaurant = &r
	}
	if s.working != nil {
		w := s.working.Clone()
		st.WorkingCopy = &w
	}
	if s.loadErr != nil {
		st.Error = s.loadErr.Error()
	}
	if s.deleted {
		st.ExitPath = ExitPath
	}
	return st
}

// usableLocked reports why the restaurant cannot be acted on, if it cannot.
func (s *EditSession) usableLocked() error {
	switch {
	case s.deleted || s.missing:
		return model.ErrRestaurantNotFound
	case s.loadErr != nil:
		return s.loadErr
	case s.loaded == nil:
		return model.ErrInvalidState
	}
	return nil
}
