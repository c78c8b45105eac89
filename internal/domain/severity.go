package domain

// Severity is a qualitative damage category derived from the blast radius.
type Severity string

const (
	SeverityLocal       Severity = "local"
	SeverityCityScale   Severity = "city-scale"
	SeverityRegional    Severity = "regional"
	SeverityContinental Severity = "continental"
)

// Blast radius thresholds in km. Each threshold is the inclusive lower bound
// of the next category.
const (
	CityScaleBlastRadiusKm   = 5.0
	RegionalBlastRadiusKm    = 20.0
	ContinentalBlastRadiusKm = 100.0
)

// ClassifySeverity maps a blast radius in km to a severity:
//
//	r < 5        local
//	5 <= r < 20  city-scale
//	20 <= r < 100 regional
//	r >= 100     continental
func ClassifySeverity(blastRadiusKm float64) Severity {
	switch {
	case blastRadiusKm < CityScaleBlastRadiusKm:
		return SeverityLocal
	case blastRadiusKm < RegionalBlastRadiusKm:
		return SeverityCityScale
	case blastRadiusKm < ContinentalBlastRadiusKm:
		return SeverityRegional
	default:
		return SeverityContinental
	}
}

// PopulationEstimate returns the human-readable population impact for s.
func (s Severity) PopulationEstimate() string {
	switch s {
	case SeverityLocal:
		return "Localized damage - Thousands affected"
	case SeverityCityScale:
		return "City-scale damage - Hundreds of thousands affected"
	case SeverityRegional:
		return "Regional devastation - Millions affected"
	case SeverityContinental:
		return "Continental impact - Tens of millions or more affected"
	default:
		return ""
	}
}
