package app

import (
	"time"

	"docflow/internal/docflow"
)

// Operation tracks one CLI invocation. Its ID tags every log line written
// while the app is open.
type Operation struct {
	ID        string
	Name      string
	Principal docflow.Principal
	Status    string // "success" or "error"
	StartedAt time.Time
}

// NewOperation creates an operation started at now.
func NewOperation(name string, p docflow.Principal, now time.Time) *Operation {
	return &Operation{
		ID:        now.UTC().Format("20060102T150405.000Z"),
		Name:      name,
		Principal: p,
		Status:    "success",
		StartedAt: now,
	}
}

// Record marks the operation failed if err is non-nil and returns err.
func (op *Operation) Record(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Failed reports whether any recorded step failed.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
