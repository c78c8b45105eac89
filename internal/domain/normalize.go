package domain

import "time"

// NormalizeSummary projects a raw object onto AsteroidSummary using its first
// close approach. Feed entries carry exactly one approach for their date.
func NormalizeSummary(raw RawNEO) AsteroidSummary {
	s := AsteroidSummary{
		ID:                raw.ID,
		Name:              raw.Name,
		NasaJPLURL:        raw.NasaJPLURL,
		AbsoluteMagnitude: raw.AbsoluteMagnitudeH.Float(),
		Hazardous:         raw.IsHazardous,
	}
	if s.ID == "" {
		s.ID = raw.NeoReferenceID
	}
	if raw.EstimatedDiameter != nil && raw.EstimatedDiameter.Meters != nil {
		s.DiameterMinM = raw.EstimatedDiameter.Meters.Min.Float()
		s.DiameterMaxM = raw.EstimatedDiameter.Meters.Max.Float()
	}
	if len(raw.CloseApproachData) > 0 {
		ca := normalizeCloseApproach(raw.CloseApproachData[0])
		s.CloseApproach = &ca
	}
	return s
}

// NormalizeDetails projects a raw object onto AsteroidDetails. The summary's
// close approach is the first one on or after asOf, falling back to the most
// recent past approach when none lie ahead.
func NormalizeDetails(raw RawNEO, asOf time.Time) AsteroidDetails {
	d := AsteroidDetails{
		AsteroidSummary: NormalizeSummary(raw),
		IsSentryObject:  raw.IsSentryObject,
		CloseApproaches: make([]CloseApproach, 0, len(raw.CloseApproachData)),
	}
	for _, ca := range raw.CloseApproachData {
		d.CloseApproaches = append(d.CloseApproaches, normalizeCloseApproach(ca))
	}
	if next := nextApproach(d.CloseApproaches, asOf); next != nil {
		d.CloseApproach = next
	}
	if raw.OrbitalData != nil {
		d.Orbit = normalizeOrbit(*raw.OrbitalData)
	}
	return d
}

// NormalizeFeed flattens the per-date groups of a feed payload. The result is
// unordered; callers sort it. element_count is not trusted for sizing.
func NormalizeFeed(raw RawFeed) []AsteroidSummary {
	n := 0
	for _, neos := range raw.NearEarthObjects {
		n += len(neos)
	}
	out := make([]AsteroidSummary, 0, n)
	for _, neos := range raw.NearEarthObjects {
		for _, neo := range neos {
			out = append(out, NormalizeSummary(neo))
		}
	}
	return out
}

// NormalizeBrowsePage projects every object on a browse page, preserving order.
func NormalizeBrowsePage(raw RawBrowsePage) []AsteroidSummary {
	out := make([]AsteroidSummary, 0, len(raw.NearEarthObjects))
	for _, neo := range raw.NearEarthObjects {
		out = append(out, NormalizeSummary(neo))
	}
	return out
}

func normalizeCloseApproach(raw RawCloseApproach) CloseApproach {
	ca := CloseApproach{
		Date:         raw.Date,
		DateFull:     raw.DateFull,
		OrbitingBody: raw.OrbitingBody,
	}
	if raw.RelativeVelocity != nil {
		ca.VelocityKmS = raw.RelativeVelocity.KilometersPerSecond.Float()
	}
	if raw.MissDistance != nil {
		ca.MissDistanceKm = raw.MissDistance.Kilometers.Float()
		ca.MissDistanceAU = raw.MissDistance.Astronomical.Float()
		ca.MissDistanceLunar = raw.MissDistance.Lunar.Float()
	}
	return ca
}

func normalizeOrbit(raw RawOrbitalData) *Orbit {
	o := &Orbit{
		OrbitID:                    raw.OrbitID,
		FirstObservation:           raw.FirstObservationDate,
		LastObservation:            raw.LastObservationDate,
		Eccentricity:               raw.Eccentricity.Float(),
		SemiMajorAxisAU:            raw.SemiMajorAxis.Float(),
		InclinationDeg:             raw.Inclination.Float(),
		OrbitalPeriodDays:          raw.OrbitalPeriod.Float(),
		PerihelionAU:               raw.PerihelionDistance.Float(),
		AphelionAU:                 raw.AphelionDistance.Float(),
		MinimumOrbitIntersectionAU: raw.MinimumOrbitIntersection.Float(),
	}
	if raw.OrbitClass != nil {
		o.ClassType = raw.OrbitClass.Type
		o.ClassDescription = raw.OrbitClass.Description
	}
	return o
}

// nextApproach picks the first approach dated on or after asOf. Approaches with
// unparsable dates are skipped.
func nextApproach(approaches []CloseApproach, asOf time.Time) *CloseApproach {
	var latestPast *CloseApproach
	var latestPastDate time.Time
	var next *CloseApproach
	var nextDate time.Time
	for i := range approaches {
		d, err := time.Parse(DateLayout, approaches[i].Date)
		if err != nil {
			continue
		}
		if !d.Before(asOf) {
			if next == nil || d.Before(nextDate) {
				next, nextDate = &approaches[i], d
			}
			continue
		}
		if latestPast == nil || d.After(latestPastDate) {
			latestPast, latestPastDate = &approaches[i], d
		}
	}
	if next != nil {
		return next
	}
	return latestPast
}
