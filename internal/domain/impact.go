package domain

import "math"

// Formula constants. See the package documentation for the model they belong to.
const (
	joulesPerMegaton = 4.184e15

	craterCoefficient      = 0.07
	craterDiameterExponent = 1.0
	craterVelocityExponent = 0.44
	craterAngleExponent    = 1.0 / 3.0
	craterDepthToDiameter  = 1.0 / 5.0
	fireballCoefficient    = 0.28
	fireballExponent       = 0.33
	blastCoefficient       = 1.2
	blastExponent          = 0.33
	thermalCoefficient     = 2.5
	thermalExponent        = 0.41
	seismicLogCoefficient  = 0.67
	seismicMagnitudeOffset = 3.87
)

// ImpactParameters describes an impactor. Diameter is in meters, velocity in
// km/s, angle in degrees from the horizontal and density in kg/m³.
type ImpactParameters struct {
	Diameter    float64     `json:"diameter"`
	Velocity    float64     `json:"velocity"`
	Angle       float64     `json:"angle"`
	Density     float64     `json:"density"`
	Composition Composition `json:"composition,omitempty"`
}

// ImpactResult holds the derived physical effects of an impact at full precision.
type ImpactResult struct {
	KineticEnergyMt    float64  `json:"kinetic_energy"`
	CraterDiameterKm   float64  `json:"crater_diameter"`
	CraterDepthKm      float64  `json:"crater_depth"`
	FireballRadiusKm   float64  `json:"fireball_radius"`
	BlastRadiusKm      float64  `json:"blast_radius"`
	ThermalRadiusKm    float64  `json:"thermal_radiation_radius"`
	SeismicMagnitude   float64  `json:"seismic_magnitude"`
	Severity           Severity `json:"severity"`
	PopulationEstimate string   `json:"affected_population_estimate"`
}

// Compute derives impact effects from p. It assumes p has already been
// validated (see SimulationRequest.Resolve) and performs no I/O.
func Compute(p ImpactParameters) ImpactResult {
	diameterM := p.Diameter
	velocityMS := p.Velocity * 1000
	angleRad := p.Angle * math.Pi / 180

	radius := diameterM / 2
	mass := (4.0 / 3.0) * math.Pi * radius * radius * radius * p.Density

	energyJ := 0.5 * mass * velocityMS * velocityMS
	energyMt := energyJ / joulesPerMegaton

	craterKm := craterCoefficient *
		math.Pow(diameterM/1000, craterDiameterExponent) *
		math.Pow(p.Velocity, craterVelocityExponent) *
		math.Pow(math.Sin(angleRad), craterAngleExponent)

	blast := blastCoefficient * math.Pow(energyMt, blastExponent)
	severity := ClassifySeverity(blast)

	return ImpactResult{
		KineticEnergyMt:    energyMt,
		CraterDiameterKm:   craterKm,
		CraterDepthKm:      craterKm * craterDepthToDiameter,
		FireballRadiusKm:   fireballCoefficient * math.Pow(energyMt, fireballExponent),
		BlastRadiusKm:      blast,
		ThermalRadiusKm:    thermalCoefficient * math.Pow(energyMt, thermalExponent),
		SeismicMagnitude:   seismicLogCoefficient*math.Log10(energyMt) + seismicMagnitudeOffset,
		Severity:           severity,
		PopulationEstimate: severity.PopulationEstimate(),
	}
}

// Rounded returns a copy of r rounded for display: two decimals for energy and
// distances, one decimal for seismic magnitude.
func (r ImpactResult) Rounded() ImpactResult {
	r.KineticEnergyMt = roundTo(r.KineticEnergyMt, 2)
	r.CraterDiameterKm = roundTo(r.CraterDiameterKm, 2)
	r.CraterDepthKm = roundTo(r.CraterDepthKm, 2)
	r.FireballRadiusKm = roundTo(r.FireballRadiusKm, 2)
	r.BlastRadiusKm = roundTo(r.BlastRadiusKm, 2)
	r.ThermalRadiusKm = roundTo(r.ThermalRadiusKm, 2)
	r.SeismicMagnitude = roundTo(r.SeismicMagnitude, 1)
	return r
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
