package router

import (
	"net/http"

	"restaurant-orders/internal/handler"
	"restaurant-orders/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)
	mux.HandleFunc("PATCH /api/orders/{id}/status", orderHandler.UpdateStatus)

	// Apply middleware in order: CorrelationID -> Recovery -> Logging -> CORS -> APIKeyAuth -> UserID
	var handler http.Handler = mux
	handler = middleware.UserID(logger)(handler)
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}
