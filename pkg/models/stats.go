package models

// RunStats holds the counters of one operation.
// Engines own the accumulator; observers only ever receive copies.
type RunStats struct {
	Found              int `json:"found"`
	Supported          int `json:"supported,omitempty"`
	Scanned            int `json:"scanned,omitempty"`
	Images             int `json:"images,omitempty"`
	Videos             int `json:"videos,omitempty"`
	Portrait           int `json:"portrait,omitempty"`
	Landscape          int `json:"landscape,omitempty"`
	SkippedUnsupported int `json:"skipped_unsupported,omitempty"`
	SkippedDuplicates  int `json:"skipped_duplicates,omitempty"`
	Errors             int `json:"errors"`
	Moved              int `json:"moved,omitempty"`
	Short              int `json:"short,omitempty"`
	Deleted            int `json:"deleted,omitempty"`
	Kept               int `json:"kept,omitempty"`
	Unknown            int `json:"unknown,omitempty"`
}

// Snapshot returns a copy that is safe to hand to another goroutine
func (s *RunStats) Snapshot() RunStats {
	return *s
}
