package handler

import (
	"net/http"

	"restaurant-console/internal/console"
	"restaurant-console/internal/media"
	"restaurant-console/internal/model"

	"github.com/rs/zerolog"
)

// menuItemView is a menu item with its image resolved for display.
type menuItemView struct {
	model.MenuItem
	ImageURL string `json:"imageUrl,omitempty"`
}

// menuView is the rendered menu state.
type menuView struct {
	console.MenuState
	Items []menuItemView `json:"items"`
}

// MenuHandler exposes the menu collection controller.
type MenuHandler struct {
	menu   *console.Menu
	gate   *console.Gate
	linker media.Linker
	logger zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(c *console.Console, linker media.Linker, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		menu:   c.Menu,
		gate:   c.Gate,
		linker: linker,
		logger: logger.With().Str("handler", "menu").Logger(),
	}
}

func (h *MenuHandler) writeState(w http.ResponseWriter, r *http.Request, status int) {
	st := h.menu.State()
	view := menuView{MenuState: st, Items: make([]menuItemView, len(st.Items))}
	for i, item := range st.Items {
		view.Items[i] = menuItemView{MenuItem: item, ImageURL: h.imageURL(r, item.ImageLink)}
	}
	writeJSON(w, status, view)
}

func (h *MenuHandler) imageURL(r *http.Request, ref string) string {
	if ref == "" {
		return ""
	}
	url, err := h.linker.Link(r.Context(), ref)
	if err != nil {
		h.logger.Warn().Err(err).Str("image_ref", ref).Msg("image not linkable")
		return ""
	}
	return url
}

// Get handles GET /api/console/menu.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, http.StatusOK)
}

// Load handles POST /api/console/menu/load.
func (h *MenuHandler) Load(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Load(r.Context()); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// UpdateDraft handles PATCH /api/console/menu/draft.
func (h *MenuHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdate
	if err := decodeJSON(r, &req, false); err != nil {
		writeInvalidJSON(w, r, h.logger)
		return
	}

	if err := h.menu.UpdateDraftField(req.Field, req.Value); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.menu.Draft())
}

// Add handles POST /api/console/menu/items. A body, when present, is the
// draft to add; otherwise the staged draft is submitted. An incomplete
// draft is ignored and answered with 204.
func (h *MenuHandler) Add(w http.ResponseWriter, r *http.Request) {
	var draft *model.MenuItemDraft
	if err := decodeJSON(r, &draft, true); err != nil {
		writeInvalidJSON(w, r, h.logger)
		return
	}

	var (
		created *model.MenuItem
		err     error
	)
	if draft != nil {
		created, err = h.menu.AddItem(r.Context(), *draft)
	} else {
		created, err = h.menu.SubmitDraft(r.Context())
	}
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if created == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusCreated, menuItemView{
		MenuItem: *created,
		ImageURL: h.imageURL(r, created.ImageLink),
	})
}

// BeginEdit handles POST /api/console/menu/items/{id}/edit.
func (h *MenuHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.BeginEditItem(r.PathValue("id")); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// UpdateField handles PATCH /api/console/menu/items/{id}.
func (h *MenuHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdate
	if err := decodeJSON(r, &req, false); err != nil {
		writeInvalidJSON(w, r, h.logger)
		return
	}

	if err := h.menu.UpdateField(r.PathValue("id"), req.Field, req.Value); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// Commit handles POST /api/console/menu/commit.
func (h *MenuHandler) Commit(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.CommitEdit(r.Context()); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// Cancel handles POST /api/console/menu/cancel.
func (h *MenuHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.menu.CancelEdit()
	h.writeState(w, r, http.StatusOK)
}

// RequestDelete handles POST /api/console/menu/items/{id}/delete.
func (h *MenuHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.RequestDeleteItem(r.PathValue("id")); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusAccepted, h.gate.State())
}
