// Package httpapi serves the REST API over the domain services.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/nexusflow/internal/httputil"
	"github.com/sandeepkv93/nexusflow/internal/metrics"
	"github.com/sandeepkv93/nexusflow/internal/middleware"
	"github.com/sandeepkv93/nexusflow/internal/service"
)

type Options struct {
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics
	CORSOrigins []string
	AuthSecret  string
	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *middleware.RateLimiter
	// Ping reports database health for /health. Nil skips the check.
	Ping func(context.Context) error
	Now  func() time.Time
}

type handlers struct {
	svc  *service.Services
	ping func(context.Context) error
	now  func() time.Time
}

// NewRouter builds the full handler chain. Middleware that must see every
// request, including unmatched and preflight ones, wraps the router; route
// metrics run inside it where the matched template is known.
func NewRouter(svc *service.Services, opts Options) http.Handler {
	h := &handlers{svc: svc, ping: opts.Ping, now: opts.Now}
	if h.now == nil {
		h.now = time.Now
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, http.StatusMethodNotAllowed, httputil.CodeBadRequest, "Method not allowed", nil)
	})
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Instrument)
		r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	h.taskRoutes(api.PathPrefix("/tasks").Subrouter())
	h.inventoryRoutes(api.PathPrefix("/inventory").Subrouter())
	h.financeRoutes(api.PathPrefix("/finance").Subrouter())
	h.focusRoutes(api.PathPrefix("/focus").Subrouter())

	var handler http.Handler = r
	if opts.AuthSecret != "" {
		handler = middleware.NewAuth(opts.AuthSecret, "/health", "/metrics").Handler(handler)
	}
	if opts.RateLimiter != nil {
		handler = opts.RateLimiter.Handler(handler)
	}
	handler = middleware.NewCORS(opts.CORSOrigins).Handler(handler)
	handler = middleware.Recoverer(handler)
	handler = middleware.RequestLogger(opts.Logger)(handler)
	return handler
}

type healthBody struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("database ping failed")
			httputil.WriteJSON(w, http.StatusServiceUnavailable, healthBody{Status: "unavailable", Timestamp: h.now().UTC()})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, healthBody{Status: "ok", Timestamp: h.now().UTC()})
}
