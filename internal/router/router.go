package router

import (
	"net/http"

	"restaurant-console/internal/handler"
	"restaurant-console/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the console host.
type Handlers struct {
	Console      *handler.ConsoleHandler
	Restaurant   *handler.RestaurantHandler
	Menu         *handler.MenuHandler
	Notification *handler.NotificationHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Combined state, deletion gate and notices
	mux.HandleFunc("GET /api/console", h.Console.Snapshot)
	mux.HandleFunc("POST /api/console/load", h.Console.Load)
	mux.HandleFunc("GET /api/console/gate", h.Console.Gate)
	mux.HandleFunc("POST /api/console/gate/confirm", h.Console.Confirm)
	mux.HandleFunc("POST /api/console/gate/cancel", h.Console.CancelGate)
	mux.HandleFunc("GET /api/console/notices", h.Console.Notices)

	// Restaurant edit session
	mux.HandleFunc("GET /api/console/restaurant", h.Restaurant.Get)
	mux.HandleFunc("PATCH /api/console/restaurant", h.Restaurant.UpdateField)
	mux.HandleFunc("POST /api/console/restaurant/load", h.Restaurant.Load)
	mux.HandleFunc("POST /api/console/restaurant/edit", h.Restaurant.Edit)
	mux.HandleFunc("POST /api/console/restaurant/commit", h.Restaurant.Commit)
	mux.HandleFunc("POST /api/console/restaurant/cancel", h.Restaurant.Cancel)
	mux.HandleFunc("POST /api/console/restaurant/delete", h.Restaurant.RequestDelete)

	// Menu collection
	mux.HandleFunc("GET /api/console/menu", h.Menu.Get)
	mux.HandleFunc("POST /api/console/menu/load", h.Menu.Load)
	mux.HandleFunc("PATCH /api/console/menu/draft", h.Menu.UpdateDraft)
	mux.HandleFunc("POST /api/console/menu/items", h.Menu.Add)
	mux.HandleFunc("PATCH /api/console/menu/items/{id}", h.Menu.UpdateField)
	mux.HandleFunc("POST /api/console/menu/items/{id}/edit", h.Menu.BeginEdit)
	mux.HandleFunc("POST /api/console/menu/items/{id}/delete", h.Menu.RequestDelete)
	mux.HandleFunc("POST /api/console/menu/commit", h.Menu.Commit)
	mux.HandleFunc("POST /api/console/menu/cancel", h.Menu.Cancel)

	// Order notifications
	mux.HandleFunc("GET /api/console/notifications", h.Notification.Panel)
	mux.HandleFunc("DELETE /api/console/notifications/{id}", h.Notification.Dismiss)

	// Apply middleware in order: Recovery -> Logging -> RequestID -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
