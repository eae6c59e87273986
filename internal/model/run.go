package model

import (
	"encoding/json"
	"time"
)

// RunStatus represents the state of an archived report run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// ReportRun is one archived execution of the report pipeline. Summary holds
// the JSON-encoded pipeline result (stage counts and class summary); the
// archive exists for comparing runs as source files are refreshed.
type ReportRun struct {
	ID        string          `json:"id"`
	Status    RunStatus       `json:"status"`
	Summary   json.RawMessage `json:"summary,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
