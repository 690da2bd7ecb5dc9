//go:build unix

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

func TestLocalMoveCrossDeviceFallsBackToCopy(t *testing.T) {
	dir := t.TempDir()
	fsys := afero.NewOsFs()
	local := NewLocal(fsys)

	src := filepath.Join(dir, "b.mp4")
	dst := filepath.Join(dir, "portrait", "b.mp4")
	if err := os.WriteFile(src, []byte("video-bytes"), 0640); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2023, 7, 1, 8, 30, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		t.Fatal(err)
	}

	local.rename = func(oldname, newname string) error {
		if oldname == src {
			return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: unix.EXDEV}
		}
		return os.Rename(oldname, newname)
	}

	if err := local.Move(context.Background(), src, dst, false); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be removed after a cross-device copy")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "video-bytes" {
		t.Fatalf("destination = %q, %v", data, err)
	}
	info, _ := os.Stat(dst)
	if !info.ModTime().Equal(mtime) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), mtime)
	}
	entries, _ := os.ReadDir(filepath.Dir(dst))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestLocalMoveRetriesBusyFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	local := NewLocal(fsys)
	local.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	writeFile(t, fsys, "/a.jpg", "a")

	calls := 0
	local.rename = func(oldname, newname string) error {
		calls++
		if calls < 3 {
			return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: unix.EBUSY}
		}
		return fsys.Rename(oldname, newname)
	}

	if err := local.Move(context.Background(), "/a.jpg", "/b.jpg", false); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("rename called %d times, want 3", calls)
	}
}

func TestIsCrossDevice(t *testing.T) {
	if !isCrossDevice(&os.LinkError{Op: "rename", Err: unix.EXDEV}) {
		t.Error("EXDEV link error should be cross-device")
	}
	if isCrossDevice(os.ErrPermission) {
		t.Error("permission error should not be cross-device")
	}
}

func TestLocalResolveDirFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "photos")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("photos", filepath.Join(dir, "rel")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "rel"), filepath.Join(dir, "chain")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("file", filepath.Join(dir, "filelink")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("loop", filepath.Join(dir, "loop")); err != nil {
		t.Fatal(err)
	}

	local := NewLocal(nil)
	for _, name := range []string{"photos", "rel", "chain"} {
		got, err := local.ResolveDir(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ResolveDir(%s) error = %v", name, err)
		}
		if got != target {
			t.Errorf("ResolveDir(%s) = %s, want %s", name, got, target)
		}
	}

	for _, name := range []string{"filelink", "loop"} {
		if _, err := local.ResolveDir(filepath.Join(dir, name)); err == nil {
			t.Errorf("ResolveDir(%s) should fail", name)
		}
	}
}
