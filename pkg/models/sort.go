package models

import "strings"

// SortMode defines how media files are bucketed
type SortMode string

const (
	// ModeOrientation buckets by aspect ratio into portrait/landscape
	ModeOrientation SortMode = "orientation"
	// ModeType buckets by file type into Images/Videos
	ModeType SortMode = "type"
)

// DuplicatePolicy defines what happens when a destination already exists
type DuplicatePolicy string

const (
	// DuplicateAutoRename appends " (N)" before the extension
	DuplicateAutoRename DuplicatePolicy = "auto-rename"
	// DuplicateSkip leaves the source file untouched
	DuplicateSkip DuplicatePolicy = "skip"
	// DuplicateOverwrite replaces the existing destination
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

// Kind is the coarse media kind of a file
type Kind string

const (
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindUnknown Kind = "?"
)

// Bucket is the name of a destination subdirectory
type Bucket string

const (
	BucketPortrait  Bucket = "portrait"
	BucketLandscape Bucket = "landscape"
	BucketImages    Bucket = "Images"
	BucketVideos    Bucket = "Videos"
	BucketUnknown   Bucket = "?"
)

// Buckets returns the two sibling bucket directories created for the mode.
// The first bucket is portrait or Images.
func (m SortMode) Buckets() (Bucket, Bucket) {
	if m == ModeType {
		return BucketImages, BucketVideos
	}
	return BucketPortrait, BucketLandscape
}

// Valid reports whether m is a known sort mode
func (m SortMode) Valid() bool {
	return m == ModeOrientation || m == ModeType
}

// Valid reports whether p is a known duplicate policy
func (p DuplicatePolicy) Valid() bool {
	switch p {
	case DuplicateAutoRename, DuplicateSkip, DuplicateOverwrite:
		return true
	}
	return false
}

// ParseSortMode accepts the canonical names plus a few aliases
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "orientation", "aspect", "ratio":
		return ModeOrientation, nil
	case "type", "kind":
		return ModeType, nil
	}
	return "", &ValidationError{Field: "mode", Message: "must be 'orientation' or 'type', got '" + s + "'"}
}

// ParseDuplicatePolicy accepts the canonical names plus underscore spelling
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	p := DuplicatePolicy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if p == "rename" {
		p = DuplicateAutoRename
	}
	if !p.Valid() {
		return "", &ValidationError{Field: "duplicates", Message: "must be 'auto-rename', 'skip' or 'overwrite', got '" + s + "'"}
	}
	return p, nil
}

// SortConfig is the immutable configuration of one analyze or execute operation
type SortConfig struct {
	// SourceDir is the directory that contains the media
	SourceDir string
	// OutputName is a folder name under SourceDir; empty writes into SourceDir
	OutputName string
	Recursive  bool
	// Lowercase renames moved files to lower-case
	Lowercase  bool
	DryRun     bool
	Duplicates DuplicatePolicy
	Mode       SortMode
}

// Validate checks if the sort configuration is valid
func (c SortConfig) Validate() error {
	if strings.TrimSpace(c.SourceDir) == "" {
		return &ValidationError{Field: "SourceDir", Message: "source directory is required"}
	}
	if !c.Mode.Valid() {
		return &ValidationError{Field: "Mode", Message: "unknown sort mode '" + string(c.Mode) + "'"}
	}
	if !c.Duplicates.Valid() {
		return &ValidationError{Field: "Duplicates", Message: "unknown duplicate policy '" + string(c.Duplicates) + "'"}
	}
	return nil
}

// TargetName returns the file name a source file gets in its bucket
func (c SortConfig) TargetName(name string) string {
	if c.Lowercase {
		return strings.ToLower(name)
	}
	return name
}
