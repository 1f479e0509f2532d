package handler

import (
	"net/http"
	"time"

	"restaurant-console/internal/notification"

	"github.com/rs/zerolog"
)

// NotificationHandler serves the order notification panel.
type NotificationHandler struct {
	intake   *notification.Intake
	location *time.Location
	logger   zerolog.Logger
}

// NewNotificationHandler creates a new notification handler. Times are
// rendered in loc, or local time when loc is nil.
func NewNotificationHandler(intake *notification.Intake, loc *time.Location, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		intake:   intake,
		location: loc,
		logger:   logger.With().Str("handler", "notification").Logger(),
	}
}

// Panel handles GET /api/console/notifications. An empty list is answered
// with 204 and no body so the host renders no panel.
func (h *NotificationHandler) Panel(w http.ResponseWriter, r *http.Request) {
	panel := h.intake.Panel(h.location)
	if panel == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, panel)
}

// Dismiss handles DELETE /api/console/notifications/{id}. Dismissing an
// unknown id succeeds and removes nothing.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed := h.intake.Dismiss(id)
	h.logger.Debug().Str("notification_id", id).Int("removed", removed).Msg("notification dismissed")
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
