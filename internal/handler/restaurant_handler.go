package handler

import (
	"net/http"

	"restaurant-console/internal/console"

	"github.com/rs/zerolog"
)

// RestaurantHandler exposes the restaurant edit session.
type RestaurantHandler struct {
	edit   *console.EditSession
	gate   *console.Gate
	logger zerolog.Logger
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(c *console.Console, logger zerolog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		edit:   c.Edit,
		gate:   c.Gate,
		logger: logger.With().Str("handler", "restaurant").Logger(),
	}
}

// Get handles GET /api/console/restaurant.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.edit.State())
}

// Load handles POST /api/console/restaurant/load.
func (h *RestaurantHandler) Load(w http.ResponseWriter, r *http.Request) {
	if err := h.edit.Load(r.Context()); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.edit.State())
}

// Edit handles POST /api/console/restaurant/edit.
func (h *RestaurantHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if err := h.edit.EnterEdit(); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.edit.State())
}

// UpdateField handles PATCH /api/console/restaurant.
func (h *RestaurantHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdate
	if err := decodeJSON(r, &req, false); err != nil {
		writeInvalidJSON(w, r, h.logger)
		return
	}

	if err := h.edit.UpdateField(req.Field, req.Value); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.edit.State())
}

// Commit handles POST /api/console/restaurant/commit.
func (h *RestaurantHandler) Commit(w http.ResponseWriter, r *http.Request) {
	if err := h.edit.Commit(r.Context()); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.edit.State())
}

// Cancel handles POST /api/console/restaurant/cancel.
func (h *RestaurantHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.edit.Cancel(); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.edit.State())
}

// RequestDelete handles POST /api/console/restaurant/delete and answers
// with the confirmation dialog to show.
func (h *RestaurantHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.edit.RequestDelete(); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusAccepted, h.gate.State())
}
