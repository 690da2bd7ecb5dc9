//go:build linux || freebsd || openbsd || netbsd || dragonfly

package trash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/mediaflow/pkg/storage"
)

func newTestTrasher(t *testing.T) (*Freedesktop, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Trash")
	tr, err := NewFreedesktop(root, storage.NewLocal(nil))
	require.NoError(t, err)
	tr.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local) }
	return tr, root
}

func TestFreedesktopTrash(t *testing.T) {
	tr, root := newTestTrasher(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "short clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("v"), 0644))

	require.NoError(t, tr.Trash(src))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone")

	data, err := os.ReadFile(filepath.Join(root, "files", "short clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "v", string(data))

	info, err := os.ReadFile(filepath.Join(root, "info", "short clip.mp4.trashinfo"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(info), "[Trash Info]\n"))
	assert.Contains(t, string(info), "Path="+filepath.ToSlash(dir)+"/short%20clip.mp4\n")
	assert.Contains(t, string(info), "DeletionDate=2024-03-09T14:05:00\n")
}

func TestFreedesktopTrashNameCollision(t *testing.T) {
	tr, root := newTestTrasher(t)

	for i := 0; i < 3; i++ {
		dir := t.TempDir()
		src := filepath.Join(dir, "a.mp4")
		require.NoError(t, os.WriteFile(src, []byte{byte('0' + i)}, 0644))
		require.NoError(t, tr.Trash(src))
	}

	for _, name := range []string{"a.mp4", "a.2.mp4", "a.3.mp4"} {
		_, err := os.Stat(filepath.Join(root, "files", name))
		assert.NoError(t, err, name)
		_, err = os.Stat(filepath.Join(root, "info", name+".trashinfo"))
		assert.NoError(t, err, name+".trashinfo")
	}
}

func TestFreedesktopTrashMissingFile(t *testing.T) {
	tr, root := newTestTrasher(t)

	err := tr.Trash(filepath.Join(t.TempDir(), "missing.mp4"))
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "info"))
	require.NoError(t, err)
	assert.Empty(t, entries, "no trashinfo must be left for a failed trash")
}

func TestHomeTrashDirHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := homeTrashDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Trash"), got)
}

func TestFunc(t *testing.T) {
	var got string
	var tr Trasher = Func(func(p string) error { got = p; return nil })
	require.NoError(t, tr.Trash("/x"))
	assert.Equal(t, "/x", got)
}
