package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// ============== Sort configuration Tests ==============

func TestSortModeBuckets(t *testing.T) {
	tests := []struct {
		mode        SortMode
		first, last Bucket
	}{
		{ModeOrientation, BucketPortrait, BucketLandscape},
		{ModeType, BucketImages, BucketVideos},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			a, b := tt.mode.Buckets()
			if a != tt.first || b != tt.last {
				t.Errorf("Buckets() = (%s, %s), want (%s, %s)", a, b, tt.first, tt.last)
			}
		})
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SortMode
		wantErr bool
	}{
		{"orientation", ModeOrientation, false},
		{" Type ", ModeType, false},
		{"aspect", ModeOrientation, false},
		{"size", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortMode(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"auto-rename", DuplicateAutoRename, false},
		{"auto_rename", DuplicateAutoRename, false},
		{"rename", DuplicateAutoRename, false},
		{"SKIP", DuplicateSkip, false},
		{"overwrite", DuplicateOverwrite, false},
		{"merge", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuplicatePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuplicatePolicy(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSortConfigValidate(t *testing.T) {
	valid := SortConfig{SourceDir: "/media", Mode: ModeOrientation, Duplicates: DuplicateSkip}

	t.Run("Valid", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("MissingSource", func(t *testing.T) {
		c := valid
		c.SourceDir = "  "
		var verr *ValidationError
		if err := c.Validate(); !errors.As(err, &verr) || verr.Field != "SourceDir" {
			t.Errorf("Validate() error = %v, want SourceDir validation error", err)
		}
	})

	t.Run("BadMode", func(t *testing.T) {
		c := valid
		c.Mode = "size"
		if err := c.Validate(); err == nil {
			t.Error("Validate() should fail for unknown mode")
		}
	})

	t.Run("BadPolicy", func(t *testing.T) {
		c := valid
		c.Duplicates = ""
		if err := c.Validate(); err == nil {
			t.Error("Validate() should fail for empty policy")
		}
	})
}

func TestSortConfigTargetName(t *testing.T) {
	c := SortConfig{}
	if got := c.TargetName("IMG_01.JPG"); got != "IMG_01.JPG" {
		t.Errorf("TargetName() = %s, want IMG_01.JPG", got)
	}
	c.Lowercase = true
	if got := c.TargetName("IMG_01.JPG"); got != "img_01.jpg" {
		t.Errorf("TargetName() = %s, want img_01.jpg", got)
	}
}

// ============== Plan Tests ==============

func TestRecordStatus(t *testing.T) {
	tests := []struct {
		status     RecordStatus
		executable bool
		skip       bool
		isErr      bool
	}{
		{StatusOK, true, false, false},
		{StatusOKOverwrite, true, false, false},
		{StatusSkipDuplicate, false, true, false},
		{ErrorStatus(errors.New("boom")), false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if tt.status.Executable() != tt.executable {
				t.Errorf("Executable() = %v, want %v", tt.status.Executable(), tt.executable)
			}
			if tt.status.IsSkip() != tt.skip {
				t.Errorf("IsSkip() = %v, want %v", tt.status.IsSkip(), tt.skip)
			}
			if tt.status.IsError() != tt.isErr {
				t.Errorf("IsError() = %v, want %v", tt.status.IsError(), tt.isErr)
			}
		})
	}

	if got := ErrorStatus(errors.New("boom")); got != "ERROR: boom" {
		t.Errorf("ErrorStatus() = %q, want %q", got, "ERROR: boom")
	}
}

func TestPlanExecutable(t *testing.T) {
	plan := &Plan{Records: []PlanRecord{
		{Source: "a", Status: StatusOK},
		{Source: "b", Status: StatusSkipDuplicate},
		{Source: "c", Status: StatusOKOverwrite},
		{Source: "d", Status: ErrorStatus(errors.New("x"))},
	}}

	got := plan.Executable()
	if len(got) != 2 || got[0].Source != "a" || got[1].Source != "c" {
		t.Errorf("Executable() = %+v, want records a and c in order", got)
	}

	var nilPlan *Plan
	if len(nilPlan.Executable()) != 0 {
		t.Error("nil plan should have no executable records")
	}
}

// ============== Retention Tests ==============

func TestParseActionMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ActionMode
		wantErr bool
	}{
		{"analyze", ActionAnalyze, false},
		{"recycle", ActionTrash, false},
		{"trash", ActionTrash, false},
		{"permanent", ActionDelete, false},
		{"shred", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseActionMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseActionMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseActionMode(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtensionSet(t *testing.T) {
	set := ExtensionSet{"mp4": {}, "mov": {}}

	for _, ext := range []string{"mp4", ".MP4", "Mov"} {
		if !set.Has(ext) {
			t.Errorf("Has(%q) = false, want true", ext)
		}
	}
	if set.Has("mkv") {
		t.Error("Has(mkv) = true, want false")
	}
	if got := set.String(); got != "mov,mp4" {
		t.Errorf("String() = %s, want mov,mp4", got)
	}
}

func TestParseExtensions(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{DefaultVideoExtensions, "avi,m2ts,m4v,mkv,mov,mp4,mts,webm,wmv", false},
		{".MP4; mov ,, .Mkv", "mkv,mov,mp4", false},
		{"m p4", "mp4", false},
		{"..mp4, .", ".mp4", false},
		{".", "", true},
		{" ; , ", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExtensions(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExtensions(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("ParseExtensions(%q) = %s, want %s", tt.in, got.String(), tt.want)
			}
		})
	}
}

func TestCleanerSettingsValidate(t *testing.T) {
	valid := CleanerSettings{
		Directory:        "/videos",
		ThresholdSeconds: 60,
		Extensions:       ExtensionSet{"mp4": {}},
		Action:           ActionAnalyze,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*CleanerSettings)
	}{
		{"EmptyDirectory", func(s *CleanerSettings) { s.Directory = "" }},
		{"NegativeThreshold", func(s *CleanerSettings) { s.ThresholdSeconds = -1 }},
		{"NoExtensions", func(s *CleanerSettings) { s.Extensions = nil }},
		{"BadAction", func(s *CleanerSettings) { s.Action = "burn" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}

	t.Run("ZeroThreshold", func(t *testing.T) {
		s := valid
		s.ThresholdSeconds = 0
		if err := s.Validate(); err != nil {
			t.Errorf("Validate() error = %v, zero threshold is allowed", err)
		}
	})
}

func TestRowEventDurationString(t *testing.T) {
	d := 2.5
	if got := (RowEvent{Duration: &d}).DurationString(); got != "2.500" {
		t.Errorf("DurationString() = %s, want 2.500", got)
	}
	if got := (RowEvent{}).DurationString(); got != "" {
		t.Errorf("DurationString() = %q, want empty", got)
	}
}

// ============== Error Tests ==============

func TestCapabilityError(t *testing.T) {
	err := &CapabilityError{Capability: "trash", Reason: "no trash directory"}
	if !errors.Is(err, ErrMissingCapability) {
		t.Error("CapabilityError should match ErrMissingCapability")
	}
	wrapped := fmt.Errorf("scan: %w", err)
	var cerr *CapabilityError
	if !errors.As(wrapped, &cerr) || cerr.Capability != "trash" {
		t.Errorf("errors.As() failed on %v", wrapped)
	}
}

func TestProbeError(t *testing.T) {
	err := &ProbeError{Path: "/a.jpg", Op: "decode", Err: ErrUnsupportedFormat}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Error("ProbeError should unwrap to its cause")
	}
	if err.Error() != "decode /a.jpg: unsupported format" {
		t.Errorf("Error() = %s", err.Error())
	}
}

// ============== Report Tests ==============

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status RunStatus
		code   int
	}{
		{StatusCompleted, 0},
		{StatusPartial, 1},
		{StatusFailed, 2},
		{StatusCanceled, 3},
		{RunStatus("weird"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.code {
				t.Errorf("ExitCode() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestRunReportFinish(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("CompletedWithoutErrors", func(t *testing.T) {
		r := &RunReport{StartTime: start}
		r.Finish(start.Add(2 * time.Second))
		if r.Status != StatusCompleted {
			t.Errorf("Status = %s, want completed", r.Status)
		}
		if r.Duration != 2*time.Second {
			t.Errorf("Duration = %v, want 2s", r.Duration)
		}
	})

	t.Run("PartialWithErrors", func(t *testing.T) {
		r := &RunReport{StartTime: start, Stats: RunStats{Errors: 1}}
		r.Finish(start)
		if r.Status != StatusPartial {
			t.Errorf("Status = %s, want partial", r.Status)
		}
	})

	t.Run("CanceledIsKept", func(t *testing.T) {
		r := &RunReport{StartTime: start, Status: StatusCanceled, Stats: RunStats{Errors: 3}}
		r.Finish(start)
		if r.Status != StatusCanceled {
			t.Errorf("Status = %s, want canceled", r.Status)
		}
	})
}
