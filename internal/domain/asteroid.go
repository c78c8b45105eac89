package domain

// AsteroidSummary is the stable, client-facing projection of a catalog object.
// Pointer fields are nil (JSON null) when the catalog did not report a value.
type AsteroidSummary struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	NasaJPLURL        string         `json:"nasa_jpl_url,omitempty"`
	AbsoluteMagnitude *float64       `json:"absolute_magnitude"`
	DiameterMinM      *float64       `json:"estimated_diameter_min_m"`
	DiameterMaxM      *float64       `json:"estimated_diameter_max_m"`
	Hazardous         bool           `json:"is_potentially_hazardous"`
	CloseApproach     *CloseApproach `json:"close_approach"`
}

// CloseApproach is a single pass near a body.
type CloseApproach struct {
	Date              string   `json:"date"`
	DateFull          string   `json:"date_full,omitempty"`
	VelocityKmS       *float64 `json:"relative_velocity_km_s"`
	MissDistanceKm    *float64 `json:"miss_distance_km"`
	MissDistanceAU    *float64 `json:"miss_distance_au"`
	MissDistanceLunar *float64 `json:"miss_distance_lunar"`
	OrbitingBody      string   `json:"orbiting_body,omitempty"`
}

// AsteroidDetails extends the summary with the full approach history and orbit.
type AsteroidDetails struct {
	AsteroidSummary
	IsSentryObject  bool            `json:"is_sentry_object"`
	CloseApproaches []CloseApproach `json:"close_approaches"`
	Orbit           *Orbit          `json:"orbit"`
}

// Orbit holds orbit-determination elements. Distances are in AU, angles in
// degrees and the period in days.
type Orbit struct {
	OrbitID                    string   `json:"orbit_id,omitempty"`
	ClassType                  string   `json:"class_type,omitempty"`
	ClassDescription           string   `json:"class_description,omitempty"`
	FirstObservation           string   `json:"first_observation_date,omitempty"`
	LastObservation            string   `json:"last_observation_date,omitempty"`
	Eccentricity               *float64 `json:"eccentricity"`
	SemiMajorAxisAU            *float64 `json:"semi_major_axis_au"`
	InclinationDeg             *float64 `json:"inclination_deg"`
	OrbitalPeriodDays          *float64 `json:"orbital_period_days"`
	PerihelionAU               *float64 `json:"perihelion_distance_au"`
	AphelionAU                 *float64 `json:"aphelion_distance_au"`
	MinimumOrbitIntersectionAU *float64 `json:"minimum_orbit_intersection_au"`
}

// MissDistanceKm returns the close-approach miss distance, or nil when unknown.
func (a AsteroidSummary) MissDistanceKm() *float64 {
	if a.CloseApproach == nil {
		return nil
	}
	return a.CloseApproach.MissDistanceKm
}
