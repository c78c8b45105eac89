package domain

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed strategies.yaml
var strategiesYAML []byte

//go:embed presets.yaml
var presetsYAML []byte

// MitigationStrategy describes one planetary-defense approach.
type MitigationStrategy struct {
	ID            string   `yaml:"id" json:"id"`
	Title         string   `yaml:"title" json:"title"`
	Effectiveness int      `yaml:"effectiveness" json:"effectiveness"`
	Cost          string   `yaml:"cost" json:"cost"`
	LeadTime      string   `yaml:"lead_time" json:"lead_time"`
	Status        string   `yaml:"status" json:"status"`
	Description   string   `yaml:"description" json:"description"`
	Pros          []string `yaml:"pros" json:"pros"`
	Cons          []string `yaml:"cons" json:"cons"`
}

// Preset is a named impact scenario.
type Preset struct {
	ID       string  `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	Diameter float64 `yaml:"diameter" json:"diameter"`
	Velocity float64 `yaml:"velocity" json:"velocity"`
	Angle    float64 `yaml:"angle" json:"angle"`
	Density  float64 `yaml:"density" json:"density"`
}

// Parameters returns the preset as impact parameters.
func (p Preset) Parameters() ImpactParameters {
	return ImpactParameters{Diameter: p.Diameter, Velocity: p.Velocity, Angle: p.Angle, Density: p.Density}
}

var (
	loadReference sync.Once
	strategies    []MitigationStrategy
	presets       []Preset
	referenceErr  error
)

// MitigationStrategies returns a copy of the static strategy catalog.
func MitigationStrategies() ([]MitigationStrategy, error) {
	loadReference.Do(parseReference)
	out := slices.Clone(strategies)
	for i := range out {
		out[i].Pros = slices.Clone(out[i].Pros)
		out[i].Cons = slices.Clone(out[i].Cons)
	}
	return out, referenceErr
}

// Presets returns a copy of the built-in impact scenarios.
func Presets() ([]Preset, error) {
	loadReference.Do(parseReference)
	return slices.Clone(presets), referenceErr
}

func parseReference() {
	var s struct {
		Strategies []MitigationStrategy `yaml:"strategies"`
	}
	if err := yaml.Unmarshal(strategiesYAML, &s); err != nil {
		referenceErr = fmt.Errorf("parse strategies: %w", err)
		return
	}
	var p struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(presetsYAML, &p); err != nil {
		referenceErr = fmt.Errorf("parse presets: %w", err)
		return
	}
	strategies, presets = s.Strategies, p.Presets
}
