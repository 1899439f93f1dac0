package model

import "time"

// ScenarioRun records one execution of a regression scenario against the
// deterministic qualification core.
type ScenarioRun struct {
	ID         string    `json:"id"`
	Suite      string    `json:"suite"`
	Scenario   string    `json:"scenario"`
	Passed     bool      `json:"passed"`
	Details    string    `json:"details,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}
