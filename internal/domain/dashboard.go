package domain

import "math"

// Size bucket labels, in display order.
const (
	SizeTiny    = "<50m"
	SizeSmall   = "50-140m"
	SizeMedium  = "140-300m"
	SizeLarge   = "300m-1km"
	SizeHuge    = ">1km"
	SizeUnknown = "unknown"
)

// SizeBucket counts asteroids in one size class.
type SizeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Dashboard aggregates a feed window for the statistics endpoint.
type Dashboard struct {
	StartDate           string           `json:"start_date"`
	EndDate             string           `json:"end_date"`
	Total               int              `json:"total_count"`
	Hazardous           int              `json:"hazardous_count"`
	HazardousPercentage float64          `json:"hazardous_percentage"`
	SizeDistribution    []SizeBucket     `json:"size_distribution"`
	ClosestApproach     *AsteroidSummary `json:"closest_approach"`
}

// BuildDashboard computes counts, the size histogram and the closest approach
// for asteroids observed in window.
func BuildDashboard(window DateRange, asteroids []AsteroidSummary) Dashboard {
	d := Dashboard{
		StartDate: window.StartDate(),
		EndDate:   window.EndDate(),
		Total:     len(asteroids),
	}

	counts := make(map[string]int, 6)
	var closest *AsteroidSummary
	for i := range asteroids {
		a := asteroids[i]
		if a.Hazardous {
			d.Hazardous++
		}
		counts[SizeClass(a.DiameterMaxM)]++

		dist := a.MissDistanceKm()
		if dist == nil {
			continue
		}
		if closest == nil || *dist < *closest.MissDistanceKm() ||
			(*dist == *closest.MissDistanceKm() && a.ID < closest.ID) {
			closest = &a
		}
	}

	if d.Total > 0 {
		pct := float64(d.Hazardous) / float64(d.Total) * 100
		d.HazardousPercentage = math.Round(pct*10) / 10
	}
	for _, label := range []string{SizeTiny, SizeSmall, SizeMedium, SizeLarge, SizeHuge, SizeUnknown} {
		d.SizeDistribution = append(d.SizeDistribution, SizeBucket{Label: label, Count: counts[label]})
	}
	d.ClosestApproach = closest
	return d
}

// SizeClass buckets a diameter in meters. Upper bounds are exclusive.
func SizeClass(diameterM *float64) string {
	if diameterM == nil {
		return SizeUnknown
	}
	switch d := *diameterM; {
	case d < 50:
		return SizeTiny
	case d < 140:
		return SizeSmall
	case d < 300:
		return SizeMedium
	case d < 1000:
		return SizeLarge
	default:
		return SizeHuge
	}
}
