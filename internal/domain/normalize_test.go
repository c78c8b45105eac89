package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apophisJSON = `{
	"id": "2099942",
	"neo_reference_id": "2099942",
	"name": "99942 Apophis (2004 MN4)",
	"nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=2099942",
	"absolute_magnitude_h": 19.09,
	"estimated_diameter": {
		"meters": {"estimated_diameter_min": 340.0, "estimated_diameter_max": 370.0}
	},
	"is_potentially_hazardous_asteroid": true,
	"is_sentry_object": false,
	"close_approach_data": [
		{
			"close_approach_date": "2021-03-06",
			"relative_velocity": {"kilometers_per_second": "4.5813"},
			"miss_distance": {"astronomical": "0.1126", "lunar": "43.8", "kilometers": "16844731"},
			"orbiting_body": "Earth"
		},
		{
			"close_approach_date": "2029-04-13",
			"close_approach_date_full": "2029-Apr-13 21:46",
			"relative_velocity": {"kilometers_per_second": "7.4221"},
			"miss_distance": {"astronomical": "0.000254", "lunar": "0.0988", "kilometers": "38012"},
			"orbiting_body": "Earth"
		}
	],
	"orbital_data": {
		"orbit_id": "210",
		"eccentricity": ".1911",
		"semi_major_axis": "0.9224",
		"inclination": "3.339",
		"orbital_period": "323.6",
		"perihelion_distance": ".7461",
		"aphelion_distance": "1.0987",
		"minimum_orbit_intersection": ".00010",
		"orbit_class": {"orbit_class_type": "ATE", "orbit_class_description": "Near-Earth asteroid orbits similar to that of 2062 Aten"}
	}
}`

func decodeNEO(t *testing.T, s string) RawNEO {
	t.Helper()
	var raw RawNEO
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestNormalizeSummary(t *testing.T) {
	s := NormalizeSummary(decodeNEO(t, apophisJSON))

	assert.Equal(t, "2099942", s.ID)
	assert.Equal(t, "99942 Apophis (2004 MN4)", s.Name)
	require.NotNil(t, s.AbsoluteMagnitude)
	assert.Equal(t, 19.09, *s.AbsoluteMagnitude)
	require.NotNil(t, s.DiameterMaxM)
	assert.Equal(t, 370.0, *s.DiameterMaxM)
	assert.True(t, s.Hazardous)

	require.NotNil(t, s.CloseApproach)
	assert.Equal(t, "2021-03-06", s.CloseApproach.Date)
	require.NotNil(t, s.CloseApproach.MissDistanceKm)
	assert.Equal(t, 16844731.0, *s.CloseApproach.MissDistanceKm)
	require.NotNil(t, s.CloseApproach.VelocityKmS)
	assert.Equal(t, 4.5813, *s.CloseApproach.VelocityKmS)
}

func TestNormalizeSummary_MissingFieldsAreUnknownNotZero(t *testing.T) {
	raw := decodeNEO(t, `{
		"id": "3000001",
		"name": "(2030 ZZ)",
		"absolute_magnitude_h": null,
		"close_approach_data": [{"close_approach_date": "2030-01-01", "miss_distance": {"kilometers": ""}}]
	}`)

	s := NormalizeSummary(raw)
	assert.Nil(t, s.AbsoluteMagnitude)
	assert.Nil(t, s.DiameterMinM)
	assert.Nil(t, s.DiameterMaxM)
	require.NotNil(t, s.CloseApproach)
	assert.Nil(t, s.CloseApproach.MissDistanceKm)
	assert.Nil(t, s.CloseApproach.VelocityKmS)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"estimated_diameter_max_m":null`)
	assert.Contains(t, string(out), `"miss_distance_km":null`)
}

func TestNormalizeSummary_NoCloseApproach(t *testing.T) {
	s := NormalizeSummary(decodeNEO(t, `{"id":"1","name":"lonely"}`))
	assert.Nil(t, s.CloseApproach)
	assert.Nil(t, s.MissDistanceKm())
}

func TestNormalizeSummary_FallsBackToReferenceID(t *testing.T) {
	s := NormalizeSummary(decodeNEO(t, `{"neo_reference_id":"54321","name":"x"}`))
	assert.Equal(t, "54321", s.ID)
}

func TestNormalizeDetails(t *testing.T) {
	asOf := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	d := NormalizeDetails(decodeNEO(t, apophisJSON), asOf)

	assert.Len(t, d.CloseApproaches, 2)
	require.NotNil(t, d.CloseApproach)
	assert.Equal(t, "2029-04-13", d.CloseApproach.Date, "summary approach should be the next upcoming one")
	assert.Equal(t, "2029-Apr-13 21:46", d.CloseApproach.DateFull)

	require.NotNil(t, d.Orbit)
	assert.Equal(t, "ATE", d.Orbit.ClassType)
	require.NotNil(t, d.Orbit.Eccentricity)
	assert.Equal(t, 0.1911, *d.Orbit.Eccentricity)
	require.NotNil(t, d.Orbit.MinimumOrbitIntersectionAU)
	assert.Equal(t, 0.0001, *d.Orbit.MinimumOrbitIntersectionAU)
	require.NotNil(t, d.Orbit.InclinationDeg)
	assert.Equal(t, 3.339, *d.Orbit.InclinationDeg)
}

func TestNormalizeDetails_AllApproachesPast(t *testing.T) {
	asOf := time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NormalizeDetails(decodeNEO(t, apophisJSON), asOf)

	require.NotNil(t, d.CloseApproach)
	assert.Equal(t, "2029-04-13", d.CloseApproach.Date)
}

func TestNormalizeFeed(t *testing.T) {
	raw := RawFeed{
		ElementCount: 3,
		NearEarthObjects: map[string][]RawNEO{
			"2026-10-19": {{ID: "a"}, {ID: "b"}},
			"2026-10-20": {{ID: "c"}},
		},
	}

	out := NormalizeFeed(raw)
	ids := make([]string, 0, len(out))
	for _, s := range out {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

func TestNormalizeFeed_IgnoresElementCount(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"negative", -1},
		{"huge", 1 << 50},
		{"understated", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawFeed{
				ElementCount:     tt.count,
				NearEarthObjects: map[string][]RawNEO{"2026-10-19": {{ID: "a"}, {ID: "b"}}},
			}
			var out []AsteroidSummary
			require.NotPanics(t, func() { out = NormalizeFeed(raw) })
			assert.Len(t, out, 2)
		})
	}
}

func TestNormalizeBrowsePage_PreservesOrder(t *testing.T) {
	out := NormalizeBrowsePage(RawBrowsePage{NearEarthObjects: []RawNEO{{ID: "2"}, {ID: "1"}}})
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].ID)
	assert.Equal(t, "1", out[1].ID)
}

func TestFlexNumber(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected *float64
	}{
		{"string", `"18.42"`, ptr(18.42)},
		{"number", `7.5`, ptr(7.5)},
		{"leading dot", `".1911"`, ptr(0.1911)},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
		{"garbage", `"n/a"`, nil},
		{"nan", `"NaN"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n FlexNumber
			require.NoError(t, json.Unmarshal([]byte(tt.json), &n))
			assert.Equal(t, tt.expected, n.Float())
		})
	}
}
