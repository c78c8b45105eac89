// Package domain models near-Earth objects and asteroid impact effects.
//
// # Catalog Data
//
// Object data comes from the NASA Near Earth Object Web Service (NeoWs),
// https://api.nasa.gov/neo/rest/v1. NeoWs encodes most measurements as JSON
// strings ("18.42"), occasionally as numbers, and omits whole blocks
// (estimated_diameter, close_approach_data, orbital_data) for poorly observed
// objects. [FlexNumber] accepts either encoding and the normalizer maps absent
// or unparsable values to nil so that "unknown" never reads as zero.
//
// Feed queries are limited upstream to a seven-day span (end minus start).
// [ParseFeedRange] enforces the limit before any request is made.
//
// # Impact Model
//
// Inputs: diameter d in meters, velocity v in km/s, angle θ in degrees from the
// horizontal (0 < θ <= 90), density ρ in kg/m³. Compositions map to fixed
// densities: rocky 2600, metallic 7800, icy 1000. [SimulationRequest] bounds
// the inputs so that mass, energy and every radius stay finite and non-zero.
//
//	mass       m = 4/3 · π · (d/2)³ · ρ
//	energy     E = ½ · m · (1000·v)² / 4.184e15        megatons TNT
//	crater     D = 0.07 · (d/1000) · v^0.44 · sin(θ)^(1/3)   km
//	depth        = D / 5                                km
//	fireball     = 0.28 · E^0.33                        km
//	blast        = 1.2  · E^0.33                        km
//	thermal      = 2.5  · E^0.41                        km
//	seismic    M = 0.67 · log10(E) + 3.87
//
// The crater law uses a constant-exponent form with an angle term; the depth
// uses a fixed 1:5 depth-to-diameter ratio. The sin(θ)^(1/3) factor tends to
// zero for grazing impacts without a singularity and equals one for vertical
// impacts.
//
// Known limitations of the model, not defects:
//   - thermal > blast > fireball holds for E >= 1e-3 Mt; below roughly 1e-4 Mt
//     the thermal radius falls under the blast radius.
//   - the seismic magnitude goes negative below about 1.7e-6 Mt and grows
//     without bound at planetary-scale energies.
//
// # Severity
//
// Severity is derived from the blast radius. Each threshold is the inclusive
// lower bound of the next category:
//
//	< 5 km local | < 20 km city-scale | < 100 km regional | >= 100 km continental
//
// [Compute] keeps full float64 precision. [ImpactResult.Rounded] is the
// display view (two decimals, one for seismic magnitude).
package domain
