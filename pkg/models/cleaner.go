package models

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ActionMode defines what happens to short videos
type ActionMode string

const (
	// ActionAnalyze reports short videos without touching them
	ActionAnalyze ActionMode = "analyze"
	// ActionTrash moves short videos to the platform trash
	ActionTrash ActionMode = "trash"
	// ActionDelete removes short videos permanently
	ActionDelete ActionMode = "delete"
)

// Valid reports whether a is a known action
func (a ActionMode) Valid() bool {
	switch a {
	case ActionAnalyze, ActionTrash, ActionDelete:
		return true
	}
	return false
}

// ParseActionMode accepts the canonical names plus the UI wording
func ParseActionMode(s string) (ActionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analyze", "dry-run", "dryrun", "none":
		return ActionAnalyze, nil
	case "trash", "recycle", "recycle-bin":
		return ActionTrash, nil
	case "delete", "hard-delete", "permanent":
		return ActionDelete, nil
	}
	return "", &ValidationError{Field: "action", Message: "must be 'analyze', 'trash' or 'delete', got '" + s + "'"}
}

// DefaultVideoExtensions is the extension list used when none is configured
const DefaultVideoExtensions = "mp4,mov,mkv,avi,wmv,webm,m4v,mts,m2ts"

// ExtensionSet is a set of lower-case extensions without leading dot
type ExtensionSet map[string]struct{}

// Has reports whether ext (with or without dot, any case) is in the set
func (s ExtensionSet) Has(ext string) bool {
	_, ok := s[strings.TrimPrefix(strings.ToLower(ext), ".")]
	return ok
}

// Sorted returns the extensions in lexical order
func (s ExtensionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func (s ExtensionSet) String() string {
	return strings.Join(s.Sorted(), ",")
}

// ParseExtensions normalizes a comma or semicolon separated extension list.
// Whitespace is removed, entries are lower-cased and one leading dot stripped.
// An empty result is a validation error.
func ParseExtensions(list string) (ExtensionSet, error) {
	list = strings.ReplaceAll(list, ";", ",")
	set := make(ExtensionSet)
	for _, part := range strings.Split(list, ",") {
		ext := strings.Join(strings.Fields(part), "")
		ext = strings.TrimPrefix(strings.ToLower(ext), ".")
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, &ValidationError{Field: "extensions", Message: "extensions are empty (e.g. mp4,mov,mkv)"}
	}
	return set, nil
}

// CleanerSettings is the immutable configuration of one retention run
type CleanerSettings struct {
	Directory        string
	Recursive        bool
	ThresholdSeconds float64
	Extensions       ExtensionSet
	Action           ActionMode
}

// Validate checks if the retention settings are valid
func (s CleanerSettings) Validate() error {
	if strings.TrimSpace(s.Directory) == "" {
		return &ValidationError{Field: "Directory", Message: "directory is required"}
	}
	if math.IsNaN(s.ThresholdSeconds) || math.IsInf(s.ThresholdSeconds, 0) || s.ThresholdSeconds < 0 {
		return &ValidationError{Field: "ThresholdSeconds", Message: fmt.Sprintf("must be a finite number >= 0, got %v", s.ThresholdSeconds)}
	}
	if len(s.Extensions) == 0 {
		return &ValidationError{Field: "Extensions", Message: "extensions are empty (e.g. mp4,mov,mkv)"}
	}
	if !s.Action.Valid() {
		return &ValidationError{Field: "Action", Message: "unknown action '" + string(s.Action) + "'"}
	}
	return nil
}

// RowStatus is the outcome of one file in a retention scan
type RowStatus string

const (
	RowShort   RowStatus = "SHORT"
	RowKeep    RowStatus = "KEEP"
	RowUnknown RowStatus = "UNKNOWN"
	RowDeleted RowStatus = "DELETED"
	RowError   RowStatus = "ERROR"
)

// RowEvent is emitted once per processed file during a retention scan
type RowEvent struct {
	Status RowStatus `json:"status"`
	// Duration in seconds, nil when the duration is unknown
	Duration *float64 `json:"duration,omitempty"`
	Filename string   `json:"filename"`
	Path     string   `json:"path"`
	// Detail carries the failure message of an ERROR row
	Detail string `json:"detail,omitempty"`
}

// DurationString formats the duration with millisecond precision, or "" if unknown
func (r RowEvent) DurationString() string {
	if r.Duration == nil {
		return ""
	}
	return fmt.Sprintf("%.3f", *r.Duration)
}
