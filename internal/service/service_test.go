package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
	"github.com/couchcryptid/neo-impact-service/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type fakeCatalog struct {
	mu        sync.Mutex
	feed      domain.RawFeed
	neo       domain.RawNEO
	page      domain.RawBrowsePage
	err       error
	feedCalls []domain.DateRange
	pageCalls [][2]int
	calls     int
}

func (f *fakeCatalog) FetchFeed(_ context.Context, start, end time.Time) (domain.RawFeed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.feedCalls = append(f.feedCalls, domain.DateRange{Start: start, End: end})
	return f.feed, f.err
}

func (f *fakeCatalog) FetchByID(_ context.Context, _ string) (domain.RawNEO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.neo, f.err
}

func (f *fakeCatalog) FetchBrowsePage(_ context.Context, page, size int) (domain.RawBrowsePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.pageCalls = append(f.pageCalls, [2]int{page, size})
	return f.page, f.err
}

type fakeRecorder struct {
	records []domain.SimulationRecord
	full    bool
}

func (f *fakeRecorder) Record(rec domain.SimulationRecord) bool {
	if f.full {
		return false
	}
	f.records = append(f.records, rec)
	return true
}

type fakeHistory struct {
	records []domain.SimulationRecord
	err     error
	limit   int
}

func (f *fakeHistory) ListRecent(_ context.Context, limit int) ([]domain.SimulationRecord, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.records[:min(limit, len(f.records))], nil
}

// --- helpers ---

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func newService(cat domain.Catalog, rec service.Recorder, hist service.HistoryReader) (*service.Service, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.New(cat, rec, hist, 50, logger, metrics), metrics
}

func neo(id string, hazardous bool, missKm, diameterM string) domain.RawNEO {
	n := domain.RawNEO{ID: id, Name: "(" + id + ")", IsHazardous: hazardous}
	if diameterM != "" {
		n.EstimatedDiameter = &domain.RawEstimatedDiameter{
			Meters: &domain.RawDiameterRange{Min: domain.FlexNumber(diameterM), Max: domain.FlexNumber(diameterM)},
		}
	}
	n.CloseApproachData = []domain.RawCloseApproach{{
		Date:         "2026-10-20",
		MissDistance: &domain.RawMissDistance{Kilometers: domain.FlexNumber(missKm)},
	}}
	return n
}

func ptr(v float64) *float64 { return &v }

func summaryIDs(asteroids []domain.AsteroidSummary) []string {
	ids := make([]string, len(asteroids))
	for i, a := range asteroids {
		ids[i] = a.ID
	}
	return ids
}

// --- tests ---

func TestService_Feed_SortedByMissDistance(t *testing.T) {
	freezeClock(t)
	cat := &fakeCatalog{feed: domain.RawFeed{
		ElementCount: 3,
		NearEarthObjects: map[string][]domain.RawNEO{
			"2026-10-20": {neo("far", false, "9000000", "10"), neo("unknown", false, "", "10")},
			"2026-10-21": {neo("near", true, "100000", "10")},
		},
	}}
	svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

	res, err := svc.Feed(context.Background(), "2026-10-19", "2026-10-21")
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", res.StartDate)
	assert.Equal(t, "2026-10-21", res.EndDate)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, []string{"near", "far", "unknown"}, summaryIDs(res.Asteroids))
}

func TestService_Feed_Defaults(t *testing.T) {
	freezeClock(t)
	cat := &fakeCatalog{}
	svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

	res, err := svc.Feed(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", res.StartDate)
	assert.Equal(t, "2026-10-26", res.EndDate)
	assert.NotNil(t, res.Asteroids)
	assert.Empty(t, res.Asteroids)
}

func TestService_Feed_RejectsRangeBeforeCallingCatalog(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		field string
	}{
		{"eight days", "2026-10-01", "2026-10-09", "end_date"},
		{"end before start", "2026-10-05", "2026-10-01", "end_date"},
		{"bad start", "10/01/2026", "", "start_date"},
		{"bad end", "2026-10-01", "tomorrow", "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &fakeCatalog{}
			svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

			_, err := svc.Feed(context.Background(), tt.start, tt.end)
			require.Error(t, err)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, cat.calls)
		})
	}
}

func TestService_Feed_PropagatesCatalogErrors(t *testing.T) {
	for _, sentinel := range []error{domain.ErrRateLimited, domain.ErrUpstreamUnavailable, domain.ErrUpstreamTimeout} {
		cat := &fakeCatalog{err: sentinel}
		svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

		_, err := svc.Feed(context.Background(), "2026-10-01", "2026-10-02")
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestService_Hazardous(t *testing.T) {
	freezeClock(t)
	cat := &fakeCatalog{feed: domain.RawFeed{
		NearEarthObjects: map[string][]domain.RawNEO{
			"2026-10-15": {
				neo("small", true, "1", "40"),
				neo("safe", false, "1", "900"),
				neo("nosize", true, "1", ""),
				neo("big", true, "1", "700"),
			},
		},
	}}
	svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

	res, err := svc.Hazardous(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"big", "small", "nosize"}, summaryIDs(res.Asteroids))
	assert.Equal(t, 3, res.Count)
	require.Len(t, cat.feedCalls, 1)
	assert.Equal(t, "2026-10-12", cat.feedCalls[0].StartDate())
	assert.Equal(t, "2026-10-19", cat.feedCalls[0].EndDate())
}

func TestService_Browse(t *testing.T) {
	cat := &fakeCatalog{page: domain.RawBrowsePage{
		Page:             domain.RawPage{Size: 5, TotalElements: 41000, TotalPages: 8200, Number: 3},
		NearEarthObjects: []domain.RawNEO{neo("b", false, "1", "1"), neo("a", false, "1", "1")},
	}}
	svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

	res, err := svc.Browse(context.Background(), "3", "5")
	require.NoError(t, err)

	assert.Equal(t, service.PageInfo{Number: 3, Size: 5, TotalElements: 41000, TotalPages: 8200}, res.Page)
	assert.Equal(t, []string{"b", "a"}, summaryIDs(res.Asteroids))
	assert.Equal(t, [][2]int{{3, 5}}, cat.pageCalls)
}

func TestService_Browse_Defaults(t *testing.T) {
	cat := &fakeCatalog{}
	svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

	_, err := svc.Browse(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, service.DefaultBrowseSize}}, cat.pageCalls)
}

func TestService_Browse_Validation(t *testing.T) {
	tests := []struct {
		name  string
		page  string
		size  string
		field string
	}{
		{"negative page", "-1", "", "page"},
		{"page not int", "first", "", "page"},
		{"size zero", "", "0", "size"},
		{"size too large", "", "21", "size"},
		{"size not int", "", "1.5", "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &fakeCatalog{}
			svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

			_, err := svc.Browse(context.Background(), tt.page, tt.size)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, cat.calls)
		})
	}
}

func TestService_Details(t *testing.T) {
	freezeClock(t)
	raw := neo("3542519", true, "4503920.1", "284.4")
	raw.CloseApproachData = append(raw.CloseApproachData, domain.RawCloseApproach{
		Date:         "2030-01-01",
		MissDistance: &domain.RawMissDistance{Kilometers: "7000000"},
	})
	cat := &fakeCatalog{neo: raw}
	svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

	d, err := svc.Details(context.Background(), " 3542519 ")
	require.NoError(t, err)

	assert.Equal(t, "3542519", d.ID)
	assert.Len(t, d.CloseApproaches, 2)
	require.NotNil(t, d.CloseApproach)
	assert.Equal(t, "2026-10-20", d.CloseApproach.Date)
}

func TestService_Details_Errors(t *testing.T) {
	svc, _ := newService(&fakeCatalog{err: domain.ErrNotFound}, &fakeRecorder{}, &fakeHistory{})

	_, err := svc.Details(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Details(context.Background(), "  ")
	assert.True(t, domain.IsValidation(err))
}

func TestService_Dashboard(t *testing.T) {
	freezeClock(t)
	cat := &fakeCatalog{feed: domain.RawFeed{
		NearEarthObjects: map[string][]domain.RawNEO{
			"2026-10-20": {neo("a", true, "500000", "30"), neo("b", false, "100000", "2000")},
		},
	}}
	svc, _ := newService(cat, &fakeRecorder{}, &fakeHistory{})

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", d.StartDate)
	assert.Equal(t, "2026-10-26", d.EndDate)
	assert.Equal(t, 2, d.Total)
	assert.Equal(t, 1, d.Hazardous)
	assert.Equal(t, 50.0, d.HazardousPercentage)
	require.NotNil(t, d.ClosestApproach)
	assert.Equal(t, "b", d.ClosestApproach.ID)
}

func TestService_Simulate(t *testing.T) {
	freezeClock(t)
	rec := &fakeRecorder{}
	svc, metrics := newService(&fakeCatalog{}, rec, &fakeHistory{})

	out, err := svc.Simulate(context.Background(), domain.SimulationRequest{
		Diameter: ptr(1000), Velocity: ptr(20), Angle: ptr(90), Composition: "rocky",
	})
	require.NoError(t, err)

	assert.Equal(t, 65074.42, out.KineticEnergyMt)
	assert.Equal(t, 46.52, out.BlastRadiusKm)
	assert.Equal(t, domain.SeverityRegional, out.Severity)
	assert.Equal(t, 2600.0, out.Parameters.Density)
	assert.Equal(t, domain.CompositionRocky, out.Parameters.Composition)

	require.Len(t, rec.records, 1)
	assert.Equal(t, out.SimulationID, rec.records[0].ID)
	assert.Equal(t, out.Parameters, rec.records[0].Parameters)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Simulations), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SimulationsBySeverity.WithLabelValues("regional")), 0)
}

func TestService_Simulate_SucceedsWhenQueueFull(t *testing.T) {
	svc, _ := newService(&fakeCatalog{}, &fakeRecorder{full: true}, &fakeHistory{})

	out, err := svc.Simulate(context.Background(), domain.SimulationRequest{
		Diameter: ptr(50), Velocity: ptr(15), Angle: ptr(45), Density: ptr(2000),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityLocal, out.Severity)
}

func TestService_Simulate_InvalidInputNotRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	svc, metrics := newService(&fakeCatalog{}, rec, &fakeHistory{})

	_, err := svc.Simulate(context.Background(), domain.SimulationRequest{
		Diameter: ptr(-1), Velocity: ptr(20), Angle: ptr(45), Density: ptr(3000),
	})
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, rec.records)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.Simulations), 0)
}

func TestService_History(t *testing.T) {
	records := make([]domain.SimulationRecord, 80)
	for i := range records {
		records[i] = domain.SimulationRecord{ID: string(rune('A' + i%26))}
	}
	hist := &fakeHistory{records: records}
	svc, _ := newService(&fakeCatalog{}, &fakeRecorder{}, hist)

	got, err := svc.History(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 50)
	assert.Equal(t, 50, hist.limit)

	got, err = svc.History(context.Background(), "5")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	for _, bad := range []string{"0", "501", "ten"} {
		_, err = svc.History(context.Background(), bad)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, bad)
		assert.Equal(t, "limit", ve.Field)
	}
}

func TestService_History_EmptyIsNotNil(t *testing.T) {
	svc, _ := newService(&fakeCatalog{}, &fakeRecorder{}, &fakeHistory{})

	got, err := svc.History(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestService_History_StoreError(t *testing.T) {
	svc, _ := newService(&fakeCatalog{}, &fakeRecorder{}, &fakeHistory{err: errors.New("closed")})

	_, err := svc.History(context.Background(), "")
	require.Error(t, err)
	assert.False(t, domain.IsValidation(err))
}

func TestService_StaticCatalogs(t *testing.T) {
	svc, _ := newService(&fakeCatalog{}, &fakeRecorder{}, &fakeHistory{})

	strategies, err := svc.Strategies()
	require.NoError(t, err)
	assert.Len(t, strategies, 4)

	presets, err := svc.Presets()
	require.NoError(t, err)
	assert.Len(t, presets, 4)
}
