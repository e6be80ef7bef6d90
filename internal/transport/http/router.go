package http

import (
	"context"
	"log"
	"net/http"

	"github.com/Germanaz0/phpconfar/internal/app"
)

// RouterConfig carries everything NewRouter wires besides the service.
type RouterConfig struct {
	Import      app.ImportConfig
	CORSOrigins []string
	Logger      *log.Logger
	// Ping reports store health; nil always reports healthy.
	Ping    func(ctx context.Context) error
	Metrics http.Handler
}

// NewRouter builds the full HTTP handler with CORS and request logging.
func NewRouter(svc AttendeeService, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", HealthHandler(cfg.Ping))
	mux.Handle("/admin/import", HandleImport(svc, cfg.Import))
	mux.Handle("/attendees", HandleTickets(svc))
	mux.Handle("/attendees/search", HandleSearch(svc))
	mux.Handle("/attendees/lookup", HandleLookup(svc))
	mux.Handle("/attendees/eligible", HandleEligible(svc))
	mux.Handle("/attendees/roles", HandleByRole(svc))
	mux.Handle("/raffle", HandleRaffle(svc))
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}
	mux.Handle("/", NotFoundHandler())

	return RequestLogger(CORS(cfg.CORSOrigins, mux), cfg.Logger)
}

// NotFoundHandler returns a JSON 404 response for unknown routes.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
}

// HealthHandler reports liveness, and store reachability when ping is set.
func HealthHandler(ping func(ctx context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, codeUnavailable, "store unavailable")
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
