package domain

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Catalog fetches raw near-Earth-object data from an external catalog service.
// Implementations wrap ErrNotFound, ErrRateLimited, ErrUpstreamUnavailable and
// ErrUpstreamTimeout so callers can tell failure kinds apart.
type Catalog interface {
	// FetchFeed returns objects with close approaches between start and end (inclusive dates).
	FetchFeed(ctx context.Context, start, end time.Time) (RawFeed, error)

	// FetchByID returns a single object with its full close-approach history.
	FetchByID(ctx context.Context, id string) (RawNEO, error)

	// FetchBrowsePage returns one page of the full catalog. Pages are zero-based.
	FetchBrowsePage(ctx context.Context, page, size int) (RawBrowsePage, error)
}

// RawFeed is the NeoWs feed payload. Objects are grouped by close-approach date.
type RawFeed struct {
	ElementCount     int                 `json:"element_count"`
	NearEarthObjects map[string][]RawNEO `json:"near_earth_objects"`
}

// RawBrowsePage is the NeoWs browse payload.
type RawBrowsePage struct {
	Page             RawPage  `json:"page"`
	NearEarthObjects []RawNEO `json:"near_earth_objects"`
}

// RawPage carries NeoWs pagination metadata.
type RawPage struct {
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
	Number        int `json:"number"`
}

// RawNEO is a single object as NeoWs encodes it. Every nested block may be
// missing, so the normalizer treats each one as optional.
type RawNEO struct {
	ID                 string                `json:"id"`
	NeoReferenceID     string                `json:"neo_reference_id"`
	Name               string                `json:"name"`
	NasaJPLURL         string                `json:"nasa_jpl_url"`
	AbsoluteMagnitudeH FlexNumber            `json:"absolute_magnitude_h"`
	EstimatedDiameter  *RawEstimatedDiameter `json:"estimated_diameter"`
	IsHazardous        bool                  `json:"is_potentially_hazardous_asteroid"`
	IsSentryObject     bool                  `json:"is_sentry_object"`
	CloseApproachData  []RawCloseApproach    `json:"close_approach_data"`
	OrbitalData        *RawOrbitalData       `json:"orbital_data"`
}

// RawEstimatedDiameter holds min/max size estimates per unit.
type RawEstimatedDiameter struct {
	Meters     *RawDiameterRange `json:"meters"`
	Kilometers *RawDiameterRange `json:"kilometers"`
}

// RawDiameterRange is a min/max size estimate.
type RawDiameterRange struct {
	Min FlexNumber `json:"estimated_diameter_min"`
	Max FlexNumber `json:"estimated_diameter_max"`
}

// RawCloseApproach is one close approach to a body.
type RawCloseApproach struct {
	Date             string               `json:"close_approach_date"`
	DateFull         string               `json:"close_approach_date_full"`
	RelativeVelocity *RawRelativeVelocity `json:"relative_velocity"`
	MissDistance     *RawMissDistance     `json:"miss_distance"`
	OrbitingBody     string               `json:"orbiting_body"`
}

// RawRelativeVelocity is the approach speed in several units.
type RawRelativeVelocity struct {
	KilometersPerSecond FlexNumber `json:"kilometers_per_second"`
	KilometersPerHour   FlexNumber `json:"kilometers_per_hour"`
}

// RawMissDistance is the approach distance in several units.
type RawMissDistance struct {
	Astronomical FlexNumber `json:"astronomical"`
	Lunar        FlexNumber `json:"lunar"`
	Kilometers   FlexNumber `json:"kilometers"`
}

// RawOrbitalData is the subset of NeoWs orbit determination fields the service exposes.
type RawOrbitalData struct {
	OrbitID                  string         `json:"orbit_id"`
	FirstObservationDate     string         `json:"first_observation_date"`
	LastObservationDate      string         `json:"last_observation_date"`
	MinimumOrbitIntersection FlexNumber     `json:"minimum_orbit_intersection"`
	Eccentricity             FlexNumber     `json:"eccentricity"`
	SemiMajorAxis            FlexNumber     `json:"semi_major_axis"`
	Inclination              FlexNumber     `json:"inclination"`
	OrbitalPeriod            FlexNumber     `json:"orbital_period"`
	PerihelionDistance       FlexNumber     `json:"perihelion_distance"`
	AphelionDistance         FlexNumber     `json:"aphelion_distance"`
	OrbitClass               *RawOrbitClass `json:"orbit_class"`
}

// RawOrbitClass names the orbit family (Apollo, Aten, Amor...).
type RawOrbitClass struct {
	Type        string `json:"orbit_class_type"`
	Description string `json:"orbit_class_description"`
}

// FlexNumber is a numeric field that NeoWs encodes as a JSON string in some
// payloads and a JSON number in others. The empty value means absent.
type FlexNumber string

// UnmarshalJSON accepts a JSON string, number or null.
func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*n = FlexNumber(str)
		return nil
	}
	*n = FlexNumber(s)
	return nil
}

// Float parses n. It returns nil when the value is absent or not a finite number,
// so a missing measurement never reads as zero.
func (n FlexNumber) Float() *float64 {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
