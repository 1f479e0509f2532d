package console

import (
	"context"
	"sync"

	"restaurant-console/internal/model"
	"restaurant-console/internal/session"
	"restaurant-console/internal/store"

	"github.com/rs/zerolog"
)

// MenuState is a snapshot of the menu collection for rendering.
type MenuState struct {
	Items         []model.MenuItem    `json:"items"`
	EditingItemID string              `json:"editingItemId,omitempty"`
	Draft         model.MenuItemDraft `json:"draft"`
	DraftReady    bool                `json:"draftReady"`
	Loaded        bool                `json:"loaded"`
	Error         string              `json:"error,omitempty"`
	Busy          bool                `json:"busy"`
}

// Menu owns the local menu collection, the add-item draft and the single
// editing-item id.
type Menu struct {
	mu      sync.Mutex
	store   store.RemoteStore
	sess    session.Session
	gate    Requester
	notices *NoticeBoard
	logger  zerolog.Logger

	items     []model.MenuItem
	editingID string
	draft     model.MenuItemDraft
	loaded    bool
	loadErr   error
	busy      bool
}

// NewMenu creates an empty menu controller.
func NewMenu(st store.RemoteStore, sess session.Session, gate Requester, notices *NoticeBoard, logger zerolog.Logger) *Menu {
	return &Menu{
		store:   st,
		sess:    sess,
		gate:    gate,
		notices: notices,
		logger:  logger.With().Str("component", "menu").Str("owner_id", sess.OwnerID).Logger(),
	}
}

// Load fetches the menu and replaces the local collection wholesale.
func (m *Menu) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return model.ErrBusy
	}
	m.busy = true
	m.mu.Unlock()

	items, err := m.store.GetMenu(ctx, m.sess)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false

	if err != nil {
		m.loadErr = model.ErrFetchFailed.Wrap(err)
		m.logger.Error().Err(err).Msg("failed to load menu")
		return m.loadErr
	}

	m.items = append([]model.MenuItem{}, items...)
	m.loaded = true
	m.loadErr = nil
	if m.editingID != "" && m.indexLocked(m.editingID) < 0 {
		m.editingID = ""
	}
	m.logger.Debug().Int("item_count", len(items)).Msg("menu loaded")
	return nil
}

// Draft returns the add-item form contents.
func (m *Menu) Draft() model.MenuItemDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// UpdateDraftField sets one field of the add-item draft. The draft is
// frozen while a request is in flight.
func (m *Menu) UpdateDraftField(field string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return model.ErrBusy
	}
	return m.draft.SetField(field, value)
}

// SubmitDraft adds the current add-item draft and resets it on success.
// See AddItem.
func (m *Menu) SubmitDraft(ctx context.Context) (*model.MenuItem, error) {
	return m.addItem(ctx, m.Draft(), true)
}

// AddItem creates draft in the store and appends the stored item. A draft
// that is not Ready is ignored: no request is sent and nil, nil is returned.
// The staged add-item draft is left alone.
func (m *Menu) AddItem(ctx context.Context, draft model.MenuItemDraft) (*model.MenuItem, error) {
	return m.addItem(ctx, draft, false)
}

func (m *Menu) addItem(ctx context.Context, draft model.MenuItemDraft, fromForm bool) (*model.MenuItem, error) {
	if !draft.Ready() {
		m.logger.Debug().Msg("incomplete draft ignored")
		return nil, nil
	}

	m.mu.Lock()
	if err := m.usableLocked(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if m.busy {
		m.mu.Unlock()
		return nil, model.ErrBusy
	}
	m.busy = true
	m.mu.Unlock()

	created, err := m.store.CreateMenuItem(ctx, m.sess, draft.Item())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false

	if err != nil {
		m.logger.Error().Err(err).Str("name", draft.Name).Msg("failed to add menu item")
		err = model.ErrMutationFailed.Wrap(err)
		m.notices.Post("menu", err)
		return nil, err
	}

	m.items = append(m.items, *created)
	if fromForm && m.draft == draft {
		m.draft = model.MenuItemDraft{}
	}
	m.logger.Info().Str("item_id", created.ID).Msg("menu item added")

	out := *created
	return &out, nil
}

// BeginEditItem makes id the editing item. Unsaved edits on a previously
// edited row are abandoned in place.
func (m *Menu) BeginEditItem(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.usableLocked(); err != nil {
		return err
	}
	if m.indexLocked(id) < 0 {
		return model.ErrItemNotFound
	}
	if m.editingID != "" && m.editingID != id {
		m.logger.Debug().
			Str("previous_item_id", m.editingID).
			Str("item_id", id).
			Msg("switching edited item")
	}
	m.editingID = id
	return nil
}

// UpdateField sets one field of the item with the given id, which must be
// the editing item.
func (m *Menu) UpdateField(id, field string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.editingID == "" || m.editingID != id {
		return model.ErrInvalidState
	}
	if m.busy {
		return model.ErrBusy
	}
	idx := m.indexLocked(id)
	if idx < 0 {
		return model.ErrItemNotFound
	}
	return m.items[idx].SetField(field, value)
}

// CommitEdit sends the editing item to the store. Without an editing item
// present in the collection it fails with ErrItemNotFound and sends nothing.
func (m *Menu) CommitEdit(ctx context.Context) error {
	m.mu.Lock()
	id := m.editingID
	idx := -1
	if id != "" {
		idx = m.indexLocked(id)
	}
	if idx < 0 {
		m.mu.Unlock()
		return model.ErrItemNotFound
	}
	if m.busy {
		m.mu.Unlock()
		return model.ErrBusy
	}
	m.busy = true
	payload := m.items[idx]
	m.mu.Unlock()

	updated, err := m.store.UpdateMenuItem(ctx, m.sess, id, payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false

	if err != nil {
		m.logger.Error().Err(err).Str("item_id", id).Msg("failed to update menu item")
		err = model.ErrMutationFailed.Wrap(err)
		m.notices.Post("menu", err)
		return err
	}

	if i := m.indexLocked(id); i >= 0 {
		m.items[i] = *updated
	}
	if m.editingID == id {
		m.editingID = ""
	}
	m.logger.Info().Str("item_id", id).Msg("menu item updated")
	return nil
}

// CancelEdit leaves edit mode. Field changes already made to the row stay
// in the local collection until the next Load or successful commit.
func (m *Menu) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editingID = ""
}

// RequestDeleteItem asks the gate to confirm deleting the item.
func (m *Menu) RequestDeleteItem(id string) error {
	m.mu.Lock()
	err := m.usableLocked()
	if err == nil && m.indexLocked(id) < 0 {
		err = model.ErrItemNotFound
	}
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.gate.Open(MenuItemTarget(id))
}

// ConfirmDeleteItem deletes the item and removes it from the collection.
func (m *Menu) ConfirmDeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return model.ErrBusy
	}
	m.busy = true
	m.mu.Unlock()

	err := m.store.DeleteMenuItem(ctx, m.sess, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false

	if err != nil {
		m.logger.Error().Err(err).Str("item_id", id).Msg("failed to delete menu item")
		err = model.ErrMutationFailed.Wrap(err)
		m.notices.Post("menu", err)
		return err
	}

	kept := m.items[:0:0]
	for _, item := range m.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	if m.editingID == id {
		m.editingID = ""
	}
	m.logger.Info().Str("item_id", id).Msg("menu item deleted")
	return nil
}

// OnConfirm implements Confirmer.
func (m *Menu) OnConfirm(ctx context.Context, target Target) error {
	return m.ConfirmDeleteItem(ctx, target.ItemID)
}

// Items returns a copy of the local collection.
func (m *Menu) Items() []model.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MenuItem{}, m.items...)
}

// EditingItemID returns the editing item id, or "" when no row is in edit.
func (m *Menu) EditingItemID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editingID
}

// State returns a snapshot safe for the caller to keep.
func (m *Menu) State() MenuState {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := MenuState{
		Items:         append([]model.MenuItem{}, m.items...),
		EditingItemID: m.editingID,
		Draft:         m.draft,
		DraftReady:    m.draft.Ready(),
		Loaded:        m.loaded,
		Busy:          m.busy,
	}
	if m.loadErr != nil {
		st.Error = m.loadErr.Error()
	}
	return st
}

func (m *Menu) indexLocked(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Menu) usableLocked() error {
	if m.loadErr != nil {
		return m.loadErr
	}
	if !m.loaded {
		return model.ErrInvalidState
	}
	return nil
}
