package domain

import "time"

// RunStatus is the outcome of a recorded run.
type RunStatus string

const (
	// RunSucceeded marks a run that completed.
	RunSucceeded RunStatus = "succeeded"
	// RunFailed marks a run that returned an error.
	RunFailed RunStatus = "failed"
)

// RunEntry is one row of the run journal.
type RunEntry struct {
	ID              string
	Operation       string
	StartedAt       time.Time
	FinishedAt      time.Time
	Status          RunStatus
	Summary         PlanSummary
	LockFingerprint string
	Error           string
}

// Duration returns how long the run took.
func (e RunEntry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}
