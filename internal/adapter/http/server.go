package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/service"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// API is the set of use cases the HTTP layer dispatches to.
type API interface {
	Feed(ctx context.Context, start, end string) (service.FeedResult, error)
	Browse(ctx context.Context, page, size string) (service.BrowseResult, error)
	Hazardous(ctx context.Context) (service.FeedResult, error)
	Details(ctx context.Context, id string) (domain.AsteroidDetails, error)
	Dashboard(ctx context.Context) (domain.Dashboard, error)
	Simulate(ctx context.Context, req domain.SimulationRequest) (service.SimulationOutcome, error)
	History(ctx context.Context, limit string) ([]domain.SimulationRecord, error)
	Strategies() ([]domain.MitigationStrategy, error)
	Presets() ([]domain.Preset, error)
}

// Options configures the HTTP server.
type Options struct {
	Addr string

	// CORSOrigins lists allowed browser origins. "*" allows any origin.
	CORSOrigins []string

	// DataSource is reported in the X-Data-Source header: "live" or "sample".
	DataSource string
}

// Server exposes the asteroid and simulation API plus health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	api        API
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API, /healthz, /readyz, and /metrics routes.
func NewServer(opts Options, api API, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      withCORS(opts.CORSOrigins, withDataSource(opts.DataSource, mux)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		api:    api,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /asteroids/feed", s.handleFeed)
	mux.HandleFunc("GET /asteroids/browse", s.handleBrowse)
	mux.HandleFunc("GET /asteroids/hazardous", s.handleHazardous)
	mux.HandleFunc("GET /asteroids/{id}", s.handleDetails)
	mux.HandleFunc("POST /simulation/impact", s.handleSimulate)
	mux.HandleFunc("GET /simulation/presets", s.handlePresets)
	mux.HandleFunc("GET /simulations/history", s.handleHistory)
	mux.HandleFunc("GET /mitigation/strategies", s.handleStrategies)
	mux.HandleFunc("GET /statistics/dashboard", s.handleDashboard)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// writeJSON encodes v before committing status, so an unencodable value
// becomes a 500 instead of a truncated success.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response failed", "status", status, "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n')) //nolint:errcheck // client may have gone away
}
