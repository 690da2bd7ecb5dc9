package platform

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFolderName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sorted", "sorted"},
		{"  sorted  ", "sorted"},
		{"a/b", "a_b"},
		{`a\b`, "a_b"},
		{"../x", "__x"},
		{"..", "_"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFolderName(tt.in); got != tt.want {
				t.Errorf("SanitizeFolderName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOutputRoot(t *testing.T) {
	src := filepath.Join("data", "media")

	if got := OutputRoot(src, ""); got != src {
		t.Errorf("OutputRoot(empty) = %s, want %s", got, src)
	}
	if got := OutputRoot(src, "  "); got != src {
		t.Errorf("OutputRoot(blank) = %s, want %s", got, src)
	}
	if got, want := OutputRoot(src, "out"), filepath.Join(src, "out"); got != want {
		t.Errorf("OutputRoot(out) = %s, want %s", got, want)
	}
	if got, want := OutputRoot(src, "../escape"), filepath.Join(src, "__escape"); got != want {
		t.Errorf("OutputRoot(../escape) = %s, want %s", got, want)
	}
}

func TestIsUnder(t *testing.T) {
	root := filepath.Join("data", "out")

	tests := []struct {
		path string
		want bool
	}{
		{root, true},
		{filepath.Join(root, "portrait"), true},
		{filepath.Join(root, "a", "b.jpg"), true},
		{filepath.Join("data", "outside"), false},
		{filepath.Join("data", "out2", "x"), false},
		{"data", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsUnder(tt.path, root); got != tt.want {
				t.Errorf("IsUnder(%s, %s) = %v, want %v", tt.path, root, got, tt.want)
			}
		})
	}
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		name, stem, ext string
	}{
		{"a.jpg", "a", ".jpg"},
		{"a.b.MP4", "a.b", ".MP4"},
		{"noext", "noext", ""},
		{".hidden", ".hidden", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, ext := SplitExt(tt.name)
			if stem != tt.stem || ext != tt.ext {
				t.Errorf("SplitExt(%s) = (%s, %s), want (%s, %s)", tt.name, stem, ext, tt.stem, tt.ext)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath(""); err == nil {
		t.Error("ValidatePath(empty) should fail")
	}
	if err := ValidatePath("media"); err != nil {
		t.Errorf("ValidatePath(media) error = %v", err)
	}
}
