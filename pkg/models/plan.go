package models

import "strings"

// RecordStatus is the analysis-time decision for one file
type RecordStatus string

const (
	StatusOK            RecordStatus = "OK"
	StatusOKOverwrite   RecordStatus = "OK (overwrite)"
	StatusSkipDuplicate RecordStatus = "SKIP (duplicate)"

	errorStatusPrefix = "ERROR: "
)

// ErrorStatus builds an "ERROR: <detail>" status from err
func ErrorStatus(err error) RecordStatus {
	return RecordStatus(errorStatusPrefix + err.Error())
}

// Executable reports whether the record may be replayed by the executor
func (s RecordStatus) Executable() bool {
	return strings.HasPrefix(string(s), "OK")
}

// IsSkip reports whether the record was skipped during analysis
func (s RecordStatus) IsSkip() bool {
	return strings.HasPrefix(string(s), "SKIP")
}

// IsError reports whether analysis of the file failed
func (s RecordStatus) IsError() bool {
	return strings.HasPrefix(string(s), "ERROR")
}

// PlanRecord is the analysis-time decision for one discovered file.
// It is read-only once the planner has produced it.
type PlanRecord struct {
	Source      string       `json:"source"`
	Kind        Kind         `json:"kind"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Bucket      Bucket       `json:"bucket"`
	Destination string       `json:"destination"`
	Status      RecordStatus `json:"status"`
}

// Plan is the ordered result of an analysis
type Plan struct {
	Config  SortConfig
	Records []PlanRecord
	Stats   RunStats
	// Canceled is set when analysis stopped before every file was visited
	Canceled bool
}

// Executable returns the records with an OK status, in plan order
func (p *Plan) Executable() []PlanRecord {
	if p == nil {
		return nil
	}
	out := make([]PlanRecord, 0, len(p.Records))
	for _, r := range p.Records {
		if r.Status.Executable() {
			out = append(out, r)
		}
	}
	return out
}
