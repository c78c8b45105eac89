package domain

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidate checks simulation requests. Field names in errors follow the
// JSON tags so clients see the names they sent.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New(validator.WithRequiredStructEnabled())
	requestValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// SimulationRequest is the client-facing form of ImpactParameters. Exactly one
// of Density or Composition must be set.
//
// Accepted ranges keep every derived quantity finite and non-zero:
// diameter 0.01 m to 1000 km, velocity 0.1 to 300 km/s, angle (0, 90] degrees
// and density 100 to 25000 kg/m³.
type SimulationRequest struct {
	Diameter    *float64 `json:"diameter" validate:"required,gte=0.01,lte=1000000"`
	Velocity    *float64 `json:"velocity" validate:"required,gte=0.1,lte=300"`
	Angle       *float64 `json:"angle" validate:"required,gt=0,lte=90"`
	Density     *float64 `json:"density,omitempty" validate:"omitempty,gte=100,lte=25000"`
	Composition string   `json:"composition,omitempty"`
}

// Resolve validates r and returns the ImpactParameters it describes. The
// returned error is always a *ValidationError.
func (r SimulationRequest) Resolve() (ImpactParameters, error) {
	if err := requestValidate.Struct(r); err != nil {
		return ImpactParameters{}, toValidationError(err)
	}
	fields := []struct {
		name  string
		value *float64
	}{
		{"diameter", r.Diameter},
		{"velocity", r.Velocity},
		{"angle", r.Angle},
		{"density", r.Density},
	}
	for _, f := range fields {
		if f.value != nil && (math.IsNaN(*f.value) || math.IsInf(*f.value, 0)) {
			return ImpactParameters{}, &ValidationError{Field: f.name, Reason: "must be a finite number"}
		}
	}

	p := ImpactParameters{Diameter: *r.Diameter, Velocity: *r.Velocity, Angle: *r.Angle}
	switch {
	case r.Density != nil && r.Composition != "":
		return ImpactParameters{}, &ValidationError{Field: "density", Reason: "set either density or composition, not both"}
	case r.Density != nil:
		p.Density = *r.Density
	case r.Composition != "":
		c, err := ParseComposition(r.Composition)
		if err != nil {
			return ImpactParameters{}, err
		}
		p.Composition = c
		p.Density, _ = c.Density()
	default:
		return ImpactParameters{}, &ValidationError{Field: "density", Reason: "one of density or composition is required"}
	}
	return p, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "request", Reason: err.Error()}
	}
	fe := verrs[0]
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gt":
		reason = "must be greater than " + fe.Param()
	case "gte":
		reason = "must be at least " + fe.Param()
	case "lte":
		reason = "must be at most " + fe.Param()
	default:
		reason = "failed " + fe.Tag() + " constraint"
	}
	return &ValidationError{Field: fe.Field(), Reason: reason}
}
