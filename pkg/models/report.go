package models

import (
	"time"
)

// OperationKind names the workflow step a report belongs to
type OperationKind string

const (
	OperationAnalyze OperationKind = "analyze"
	OperationExecute OperationKind = "execute"
	OperationClean   OperationKind = "clean"
)

// RunStatus represents the overall result of an operation
type RunStatus string

const (
	// StatusCompleted indicates every file was processed without errors
	StatusCompleted RunStatus = "completed"
	// StatusPartial indicates the run finished but some files failed
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates the operation could not start or aborted
	StatusFailed RunStatus = "failed"
	// StatusCanceled indicates the operation was canceled; partial progress is final
	StatusCanceled RunStatus = "canceled"
)

// ExitCode returns the appropriate process exit code for the status
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusCompleted:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCanceled:
		return 3
	default:
		return 2
	}
}

// ItemError records a per-file failure
type ItemError struct {
	Path      string    `json:"path"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// RunReport represents the results of one operation
type RunReport struct {
	OperationID string        `json:"operation_id"`
	Kind        OperationKind `json:"kind"`
	Source      string        `json:"source"`
	DryRun      bool          `json:"dry_run"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	Stats RunStats `json:"stats"`

	// Records is filled for analysis reports
	Records []PlanRecord `json:"records,omitempty"`
	// Rows is filled for retention reports
	Rows []RowEvent `json:"rows,omitempty"`

	Errors []ItemError `json:"errors,omitempty"`

	Status RunStatus `json:"status"`
	// Failure holds the operation-level error message when Status is failed
	Failure string `json:"failure,omitempty"`
}

// Finish stamps the end time and derives the final status.
// A canceled or failed status is kept as is.
func (r *RunReport) Finish(now time.Time) {
	r.EndTime = now
	r.Duration = now.Sub(r.StartTime)
	if r.Status == "" || r.Status == StatusCompleted {
		if r.Stats.Errors > 0 {
			r.Status = StatusPartial
		} else {
			r.Status = StatusCompleted
		}
	}
}
