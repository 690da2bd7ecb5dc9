package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
	// IsRegular is false for directories, symlinks, devices and sockets
	IsRegular bool
}

// WalkFunc is called for every entry below the walk root, root included.
// Returning filepath.SkipDir on a directory skips its contents.
type WalkFunc func(info FileInfo) error

// Backend defines the filesystem operations the media engines rely on
type Backend interface {
	// Exists checks if a file or directory exists
	Exists(path string) (bool, error)

	// Stat returns file metadata without following symlinks where possible
	Stat(path string) (*FileInfo, error)

	// ResolveDir follows symlinks on path and returns the directory it names
	ResolveDir(path string) (string, error)

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(path string) error

	// ReadDir lists the immediate children of a directory, sorted by name
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Walk visits the subtree in lexical order; unreadable entries are skipped
	Walk(ctx context.Context, root string, fn WalkFunc) error

	// Open opens a file for reading
	Open(path string) (io.ReadSeekCloser, error)

	// Move relocates a file; overwrite replaces an existing destination
	Move(ctx context.Context, src, dst string, overwrite bool) error

	// Remove deletes a file; a file that is already gone is not an error
	Remove(ctx context.Context, path string) error
}
