package domain

import (
	"sort"
	"strings"
)

// Composition is a bulk-composition class that stands in for an explicit density.
type Composition string

const (
	CompositionRocky    Composition = "rocky"
	CompositionMetallic Composition = "metallic"
	CompositionIcy      Composition = "icy"
)

// compositionDensity maps each composition class to its bulk density in kg/m³.
var compositionDensity = map[Composition]float64{
	CompositionRocky:    2600,
	CompositionMetallic: 7800,
	CompositionIcy:      1000,
}

// ParseComposition resolves a composition tag. Tags are case-insensitive;
// anything outside the closed set is rejected rather than defaulted.
func ParseComposition(tag string) (Composition, error) {
	c := Composition(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := compositionDensity[c]; !ok {
		return "", &ValidationError{
			Field:  "composition",
			Reason: "must be one of " + strings.Join(compositionNames(), ", "),
		}
	}
	return c, nil
}

// Density returns the bulk density for c in kg/m³, or false for an unknown class.
func (c Composition) Density() (float64, bool) {
	d, ok := compositionDensity[c]
	return d, ok
}

func compositionNames() []string {
	names := make([]string, 0, len(compositionDensity))
	for c := range compositionDensity {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}
