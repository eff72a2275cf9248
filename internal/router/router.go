package router

import (
	"net/http"
	"strings"

	"brewbox/internal/handler"
	"brewbox/internal/metrics"
	"brewbox/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// metricsHandler serves /metrics; recorder may be nil.
func New(
	orderHandler *handler.OrderHandler,
	machineHandler *handler.MachineHandler,
	metricsHandler http.Handler,
	recorder *metrics.Recorder,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	// Menu routes
	mux.HandleFunc("/api/menu", machineHandler.Menu)
	mux.HandleFunc("/api/menu/availability", machineHandler.Availability)

	// Inventory and maintenance routes
	mux.HandleFunc("/api/inventory", machineHandler.Inventory)
	mux.HandleFunc("/api/inventory/refill", machineHandler.Refill)
	mux.HandleFunc("/api/maintenance", machineHandler.Maintenance)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		isCollection := r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/"

		// Route based on method and path
		if r.Method == http.MethodPost && isCollection {
			orderHandler.Create(w, r)
			return
		}
		if r.Method == http.MethodGet && isCollection {
			orderHandler.List(w, r)
			return
		}

		// Check if this is a request for a specific order ID
		if strings.HasPrefix(r.URL.Path, "/api/orders/") && !isCollection {
			orderHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> Metrics -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Metrics(recorder)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
