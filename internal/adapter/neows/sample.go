package neows

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
)

//go:embed sample_neos.json
var sampleJSON []byte

// SampleCatalog serves a fixed set of ten well-known objects in NeoWs wire
// format. It is a degraded development mode: feeds ignore the requested
// window and return the whole set grouped by each object's approach date.
type SampleCatalog struct {
	neos []domain.RawNEO
	byID map[string]domain.RawNEO
}

// NewSampleCatalog decodes the embedded sample set.
func NewSampleCatalog() (*SampleCatalog, error) {
	var payload struct {
		NearEarthObjects []domain.RawNEO `json:"near_earth_objects"`
	}
	if err := json.Unmarshal(sampleJSON, &payload); err != nil {
		return nil, fmt.Errorf("decode sample catalog: %w", err)
	}

	neos := payload.NearEarthObjects
	sort.Slice(neos, func(i, j int) bool { return neos[i].ID < neos[j].ID })

	byID := make(map[string]domain.RawNEO, len(neos))
	for _, n := range neos {
		byID[n.ID] = n
	}
	return &SampleCatalog{neos: neos, byID: byID}, nil
}

// FetchFeed returns every sample object keyed by its close-approach date.
func (s *SampleCatalog) FetchFeed(_ context.Context, _, _ time.Time) (domain.RawFeed, error) {
	feed := domain.RawFeed{
		ElementCount:     len(s.neos),
		NearEarthObjects: make(map[string][]domain.RawNEO),
	}
	for _, n := range s.neos {
		date := "unknown"
		if len(n.CloseApproachData) > 0 {
			date = n.CloseApproachData[0].Date
		}
		feed.NearEarthObjects[date] = append(feed.NearEarthObjects[date], n)
	}
	return feed, nil
}

// FetchByID returns the sample object with the given id.
func (s *SampleCatalog) FetchByID(_ context.Context, id string) (domain.RawNEO, error) {
	n, ok := s.byID[id]
	if !ok {
		return domain.RawNEO{}, fmt.Errorf("%w: %s not in sample catalog", domain.ErrNotFound, id)
	}
	return n, nil
}

// FetchBrowsePage pages through the sample set in id order.
func (s *SampleCatalog) FetchBrowsePage(_ context.Context, page, size int) (domain.RawBrowsePage, error) {
	if page < 0 || size < 1 {
		return domain.RawBrowsePage{}, fmt.Errorf("%w: invalid page %d size %d", domain.ErrUpstreamUnavailable, page, size)
	}
	total := len(s.neos)
	p := domain.RawBrowsePage{
		Page: domain.RawPage{
			Size:          size,
			TotalElements: total,
			TotalPages:    (total + size - 1) / size,
			Number:        page,
		},
	}

	start := page * size
	if start >= total {
		p.NearEarthObjects = []domain.RawNEO{}
		return p, nil
	}
	end := min(start+size, total)
	p.NearEarthObjects = s.neos[start:end]
	return p, nil
}
