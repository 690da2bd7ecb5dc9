package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath cleans a path and makes it absolute when possible
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	if abs, err := filepath.Abs(normalized); err == nil {
		return abs
	}
	return normalized
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// SanitizeFolderName turns user input into a single, safe folder name.
// Path separators and ".." sequences are replaced with "_".
func SanitizeFolderName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return strings.ReplaceAll(name, "..", "_")
}

// OutputRoot returns the directory buckets are created in: the source
// itself when name sanitizes to empty, otherwise source/<name>.
func OutputRoot(source, name string) string {
	if clean := SanitizeFolderName(name); clean != "" {
		return filepath.Join(source, clean)
	}
	return source
}

// IsUnder reports whether path equals root or lies beneath it.
// Both paths are compared after cleaning; "/a/bc" is not under "/a/b".
func IsUnder(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SplitExt splits a file name into stem and extension (with dot).
// Dot-files such as ".hidden" have no extension.
func SplitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// ValidatePath checks if a path is usable as a directory argument
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" {
		rest := path
		if vol := filepath.VolumeName(path); vol != "" {
			rest = path[len(vol):]
		}
		for _, char := range []string{"<", ">", ":", "\"", "|", "?", "*"} {
			if strings.Contains(rest, char) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
