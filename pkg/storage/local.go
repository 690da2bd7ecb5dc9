package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// retryMaxElapsed bounds how long a busy file is retried
const retryMaxElapsed = 2 * time.Second

// maxSymlinkHops bounds link chains followed by ResolveDir
const maxSymlinkHops = 40

// CrossDeviceError reports a rename that failed because source and
// destination live on different volumes.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device rename %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// Local is a filesystem backend on top of an afero.Fs
type Local struct {
	fs afero.Fs
	// rename is swappable so tests can simulate cross-device failures
	rename     func(oldname, newname string) error
	newBackOff func() backoff.BackOff
}

// NewLocal creates a backend over fsys; nil means the OS filesystem
func NewLocal(fsys afero.Fs) *Local {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	l := &Local{fs: fsys}
	l.rename = fsys.Rename
	l.newBackOff = func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 50 * time.Millisecond
		bo.MaxElapsedTime = retryMaxElapsed
		return bo
	}
	return l
}

// Fs returns the underlying filesystem
func (l *Local) Fs() afero.Fs {
	return l.fs
}

// Exists checks if a file or directory exists
func (l *Local) Exists(path string) (bool, error) {
	_, err := l.lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Stat returns file metadata
func (l *Local) Stat(path string) (*FileInfo, error) {
	info, err := l.lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	fi := toFileInfo(path, info)
	return &fi, nil
}

// ResolveDir follows path through symlinks and returns the directory it
// points to. Only the final element is resolved; the OS follows links in
// the parent components.
func (l *Local) ResolveDir(path string) (string, error) {
	resolved := filepath.Clean(path)
	for hops := 0; ; hops++ {
		info, err := l.lstat(resolved)
		if err != nil {
			return "", fmt.Errorf("failed to stat directory: %w", err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			if !info.IsDir() {
				return "", fmt.Errorf("not a directory: %s", path)
			}
			return resolved, nil
		}

		reader, ok := l.fs.(afero.LinkReader)
		if !ok {
			return "", fmt.Errorf("cannot follow symlink %s", resolved)
		}
		if hops == maxSymlinkHops {
			return "", fmt.Errorf("too many levels of symbolic links: %s", path)
		}
		target, err := reader.ReadlinkIfPossible(resolved)
		if err != nil {
			return "", fmt.Errorf("failed to read symlink: %w", err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(resolved), target)
		}
		resolved = filepath.Clean(target)
	}
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(path string) error {
	if err := l.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// ReadDir lists the immediate children of a directory
func (l *Local) ReadDir(ctx context.Context, path string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		files = append(files, toFileInfo(filepath.Join(path, e.Name()), e))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Walk visits every entry under root. Entries that cannot be read are
// skipped so one unreadable directory does not abort the walk.
func (l *Local) Walk(ctx context.Context, root string, fn WalkFunc) error {
	err := afero.Walk(l.fs, root, func(p string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p == root {
				return err
			}
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(toFileInfo(p, info))
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return nil
}

// Open opens a file for reading
func (l *Local) Open(path string) (io.ReadSeekCloser, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Move relocates src to dst. A same-volume rename is tried first; across
// volumes the file is copied next to dst, renamed into place and the source
// removed. With overwrite, an existing dst is set aside and only discarded
// once the move succeeded; it is restored otherwise.
func (l *Local) Move(ctx context.Context, src, dst string, overwrite bool) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}

	exists, err := l.Exists(dst)
	if err != nil {
		return err
	}
	if !exists {
		return l.moveFile(ctx, src, dst)
	}
	if !overwrite {
		return &fs.PathError{Op: "move", Path: dst, Err: fs.ErrExist}
	}

	backup := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+uuid.NewString()+".bak")
	if err := l.retry(ctx, func() error { return l.rename(dst, backup) }); err != nil {
		return fmt.Errorf("failed to set aside existing destination: %w", err)
	}

	if err := l.moveFile(ctx, src, dst); err != nil {
		if rerr := l.rename(backup, dst); rerr != nil {
			return fmt.Errorf("%w (previous file kept at %s: %v)", err, backup, rerr)
		}
		return err
	}

	if err := l.fs.Remove(backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("moved, but failed to remove replaced file %s: %w", backup, err)
	}
	return nil
}

// Remove deletes a file, retrying while it is busy
func (l *Local) Remove(ctx context.Context, path string) error {
	err := l.retry(ctx, func() error {
		err := l.fs.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

func (l *Local) moveFile(ctx context.Context, src, dst string) error {
	err := l.retry(ctx, func() error { return l.renameFile(src, dst) })
	if err == nil {
		return nil
	}

	var xdev *CrossDeviceError
	if !errors.As(err, &xdev) {
		return fmt.Errorf("failed to move file: %w", err)
	}
	if err := l.copyAcross(src, dst); err != nil {
		return fmt.Errorf("failed to move file across volumes: %w", err)
	}
	if err := l.retry(ctx, func() error { return l.fs.Remove(src) }); err != nil {
		return fmt.Errorf("copied to %s, but failed to remove source: %w", dst, err)
	}
	return nil
}

func (l *Local) renameFile(src, dst string) error {
	if err := l.rename(src, dst); err != nil {
		if isCrossDevice(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// copyAcross writes src into a hidden temp file in dst's directory and
// renames it into place, so dst never holds a partial file.
func (l *Local) copyAcross(src, dst string) (err error) {
	in, err := l.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(l.fs, filepath.Dir(dst), "."+filepath.Base(dst)+".part-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = l.fs.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	_ = l.fs.Chmod(tmpName, info.Mode().Perm())
	_ = l.fs.Chtimes(tmpName, info.ModTime(), info.ModTime())

	return l.fs.Rename(tmpName, dst)
}

// retry runs op with exponential backoff while it fails with a transient error
func (l *Local) retry(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(l.newBackOff(), ctx))
}

func (l *Local) lstat(path string) (os.FileInfo, error) {
	if lst, ok := l.fs.(afero.Lstater); ok {
		info, _, err := lst.LstatIfPossible(path)
		return info, err
	}
	return l.fs.Stat(path)
}

func toFileInfo(path string, info os.FileInfo) FileInfo {
	return FileInfo{
		Path:      path,
		Name:      info.Name(),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		IsDir:     info.IsDir(),
		IsRegular: info.Mode().IsRegular(),
	}
}
