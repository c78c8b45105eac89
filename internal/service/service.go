// Package service implements the API use cases on top of the catalog, the
// impact model and the simulation history.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
)

// Browse paging limits. NeoWs caps page size at 20.
const (
	DefaultBrowseSize = 20
	MaxBrowseSize     = 20

	// MaxHistoryLimit caps a single history listing.
	MaxHistoryLimit = 500
)

// Recorder accepts simulation records for best-effort persistence.
type Recorder interface {
	Record(rec domain.SimulationRecord) bool
}

// HistoryReader lists persisted simulation records, newest first.
type HistoryReader interface {
	ListRecent(ctx context.Context, limit int) ([]domain.SimulationRecord, error)
}

// Service composes the catalog, the impact model and the history store.
type Service struct {
	catalog      domain.Catalog
	recorder     Recorder
	history      HistoryReader
	historyLimit int
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// New creates a Service. historyLimit is the default history page size.
func New(catalog domain.Catalog, recorder Recorder, history HistoryReader, historyLimit int, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		catalog:      catalog,
		recorder:     recorder,
		history:      history,
		historyLimit: historyLimit,
		logger:       logger,
		metrics:      metrics,
	}
}

// FeedResult is a date-windowed list of asteroids.
type FeedResult struct {
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Count     int                      `json:"count"`
	Asteroids []domain.AsteroidSummary `json:"asteroids"`
}

// PageInfo describes one browse page.
type PageInfo struct {
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
}

// BrowseResult is one page of the full catalog.
type BrowseResult struct {
	Page      PageInfo                 `json:"page"`
	Asteroids []domain.AsteroidSummary `json:"asteroids"`
}

// SimulationOutcome is the rounded impact result plus the parameters it was
// computed from.
type SimulationOutcome struct {
	domain.ImpactResult
	SimulationID string                  `json:"simulation_id"`
	Parameters   domain.ImpactParameters `json:"parameters"`
}

// Feed returns asteroids approaching between start and end, nearest first.
// Dates are YYYY-MM-DD; the range is validated before the catalog is called.
func (s *Service) Feed(ctx context.Context, start, end string) (FeedResult, error) {
	window, err := domain.ParseFeedRange(start, end)
	if err != nil {
		return FeedResult{}, err
	}
	asteroids, err := s.fetchWindow(ctx, window)
	if err != nil {
		return FeedResult{}, err
	}
	domain.SortByMissDistance(asteroids)
	return newFeedResult(window, asteroids), nil
}

// Hazardous returns potentially hazardous asteroids seen over the trailing
// week, largest first.
func (s *Service) Hazardous(ctx context.Context) (FeedResult, error) {
	window := domain.TrailingWeek()
	asteroids, err := s.fetchWindow(ctx, window)
	if err != nil {
		return FeedResult{}, err
	}
	hazardous := domain.FilterHazardous(asteroids)
	domain.SortByDiameterDesc(hazardous)
	return newFeedResult(window, hazardous), nil
}

// Browse returns one zero-based catalog page. Empty parameters take defaults.
func (s *Service) Browse(ctx context.Context, page, size string) (BrowseResult, error) {
	p, err := parseIntParam("page", page, 0, 0, -1)
	if err != nil {
		return BrowseResult{}, err
	}
	n, err := parseIntParam("size", size, DefaultBrowseSize, 1, MaxBrowseSize)
	if err != nil {
		return BrowseResult{}, err
	}

	raw, err := s.catalog.FetchBrowsePage(ctx, p, n)
	if err != nil {
		return BrowseResult{}, fmt.Errorf("browse page %d: %w", p, err)
	}
	return BrowseResult{
		Page: PageInfo{
			Number:        raw.Page.Number,
			Size:          raw.Page.Size,
			TotalElements: raw.Page.TotalElements,
			TotalPages:    raw.Page.TotalPages,
		},
		Asteroids: nonNil(domain.NormalizeBrowsePage(raw)),
	}, nil
}

// Details returns one asteroid with its full approach history and orbit.
func (s *Service) Details(ctx context.Context, id string) (domain.AsteroidDetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.AsteroidDetails{}, &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	raw, err := s.catalog.FetchByID(ctx, id)
	if err != nil {
		return domain.AsteroidDetails{}, fmt.Errorf("lookup asteroid %s: %w", id, err)
	}
	return domain.NormalizeDetails(raw, domain.Today()), nil
}

// Dashboard aggregates the upcoming week's feed.
func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	window := domain.UpcomingWeek()
	asteroids, err := s.fetchWindow(ctx, window)
	if err != nil {
		return domain.Dashboard{}, err
	}
	return domain.BuildDashboard(window, asteroids), nil
}

// Simulate validates req, computes the impact and queues a history record.
// Persistence is best-effort and never fails the simulation.
func (s *Service) Simulate(_ context.Context, req domain.SimulationRequest) (SimulationOutcome, error) {
	params, err := req.Resolve()
	if err != nil {
		return SimulationOutcome{}, err
	}

	result := domain.Compute(params)
	s.metrics.Simulations.Inc()
	s.metrics.SimulationsBySeverity.WithLabelValues(string(result.Severity)).Inc()

	rec := domain.NewSimulationRecord(params)
	if !s.recorder.Record(rec) {
		s.logger.Warn("simulation not recorded", "id", rec.ID)
	}

	return SimulationOutcome{
		ImpactResult: result.Rounded(),
		SimulationID: rec.ID,
		Parameters:   params,
	}, nil
}

// History lists recent simulation records, newest first. An empty limit
// uses the configured default.
func (s *Service) History(ctx context.Context, limit string) ([]domain.SimulationRecord, error) {
	n, err := parseIntParam("limit", limit, s.historyLimit, 1, MaxHistoryLimit)
	if err != nil {
		return nil, err
	}
	records, err := s.history.ListRecent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("list simulation history: %w", err)
	}
	return nonNil(records), nil
}

// Strategies returns the mitigation strategy catalog.
func (s *Service) Strategies() ([]domain.MitigationStrategy, error) {
	return domain.MitigationStrategies()
}

// Presets returns the built-in impact scenarios.
func (s *Service) Presets() ([]domain.Preset, error) {
	return domain.Presets()
}

func (s *Service) fetchWindow(ctx context.Context, window domain.DateRange) ([]domain.AsteroidSummary, error) {
	raw, err := s.catalog.FetchFeed(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("feed %s..%s: %w", window.StartDate(), window.EndDate(), err)
	}
	return domain.NormalizeFeed(raw), nil
}

func newFeedResult(window domain.DateRange, asteroids []domain.AsteroidSummary) FeedResult {
	return FeedResult{
		StartDate: window.StartDate(),
		EndDate:   window.EndDate(),
		Count:     len(asteroids),
		Asteroids: nonNil(asteroids),
	}
}

// parseIntParam parses an optional integer query parameter. A negative hi
// means no upper bound.
func parseIntParam(field, raw string, def, lo, hi int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Reason: "must be an integer"}
	}
	if n < lo {
		return 0, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("must be at least %d", lo)}
	}
	if hi >= 0 && n > hi {
		return 0, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d", hi)}
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
