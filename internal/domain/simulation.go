package domain

import (
	"time"

	"github.com/google/uuid"
)

// SimulationRecord is a persisted simulation run. Records are written once and
// never updated.
type SimulationRecord struct {
	ID         string           `json:"id"`
	Parameters ImpactParameters `json:"parameters"`
	CreatedAt  time.Time        `json:"timestamp"`
}

// NewSimulationRecord stamps p with a fresh id and the current time.
func NewSimulationRecord(p ImpactParameters) SimulationRecord {
	return SimulationRecord{
		ID:         uuid.NewString(),
		Parameters: p,
		CreatedAt:  clock.Now().UTC(),
	}
}
