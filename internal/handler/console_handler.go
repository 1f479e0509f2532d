package handler

import (
	"net/http"

	"restaurant-console/internal/console"

	"github.com/rs/zerolog"
)

// ConsoleHandler serves the combined console state, the deletion gate and
// the transient notices.
type ConsoleHandler struct {
	console *console.Console
	logger  zerolog.Logger
}

// NewConsoleHandler creates a new console handler.
func NewConsoleHandler(c *console.Console, logger zerolog.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		console: c,
		logger:  logger.With().Str("handler", "console").Logger(),
	}
}

// Snapshot handles GET /api/console.
func (h *ConsoleHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.console.Snapshot())
}

// Load handles POST /api/console/load, fetching the restaurant and menu.
func (h *ConsoleHandler) Load(w http.ResponseWriter, r *http.Request) {
	if err := h.console.Load(r.Context()); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.console.Snapshot())
}

// Gate handles GET /api/console/gate.
func (h *ConsoleHandler) Gate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.console.Gate.State())
}

// Confirm handles POST /api/console/gate/confirm. The gate does not report
// the outcome of the deletion: the answer is the console snapshot, whose
// restaurant state carries the exit path once the restaurant is gone and
// whose pending notice count rises when the deletion failed.
func (h *ConsoleHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.console.Gate.Confirm(r.Context()); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.console.Snapshot())
}

// CancelGate handles POST /api/console/gate/cancel.
func (h *ConsoleHandler) CancelGate(w http.ResponseWriter, r *http.Request) {
	h.console.Gate.Cancel()
	writeJSON(w, http.StatusOK, h.console.Gate.State())
}

// Notices handles GET /api/console/notices, draining pending notices.
func (h *ConsoleHandler) Notices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.console.Notices.Drain())
}
