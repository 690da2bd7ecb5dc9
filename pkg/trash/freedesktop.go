//go:build linux || freebsd || openbsd || netbsd || dragonfly

package trash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sdejongh/mediaflow/internal/platform"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/storage"
)

// Freedesktop implements the freedesktop.org trash specification for the
// home trash: the file goes to Trash/files, a .trashinfo record to Trash/info.
type Freedesktop struct {
	root  string
	mover storage.Backend
	now   func() time.Time
}

func platformTrasher() (Trasher, error) {
	root, err := homeTrashDir()
	if err != nil {
		return nil, &models.CapabilityError{Capability: "trash", Reason: err.Error()}
	}
	return NewFreedesktop(root, storage.NewLocal(nil))
}

// NewFreedesktop creates a trasher rooted at dir (usually ~/.local/share/Trash)
func NewFreedesktop(dir string, mover storage.Backend) (*Freedesktop, error) {
	for _, sub := range []string{"files", "info"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0700); err != nil {
			return nil, &models.CapabilityError{Capability: "trash", Reason: err.Error()}
		}
	}
	return &Freedesktop{root: dir, mover: mover, now: time.Now}, nil
}

// Trash moves path into the trash and records where it came from
func (t *Freedesktop) Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	name, info, err := t.reserve(filepath.Base(abs))
	if err != nil {
		return err
	}

	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: abs}).EscapedPath(), t.now().Format("2006-01-02T15:04:05"))
	if _, err := info.WriteString(content); err != nil {
		info.Close()
		os.Remove(info.Name())
		return fmt.Errorf("failed to write trash info: %w", err)
	}
	info.Close()

	target := filepath.Join(t.root, "files", name)
	if err := t.mover.Move(context.Background(), abs, target, false); err != nil {
		os.Remove(info.Name())
		return fmt.Errorf("failed to move to trash: %w", err)
	}
	return nil
}

// reserve claims a free name by exclusively creating its .trashinfo file
func (t *Freedesktop) reserve(base string) (string, *os.File, error) {
	stem, ext := platform.SplitExt(base)
	for i := 1; ; i++ {
		name := base
		if i > 1 {
			name = stem + "." + strconv.Itoa(i) + ext
		}
		if _, err := os.Lstat(filepath.Join(t.root, "files", name)); err == nil {
			continue
		}
		f, err := os.OpenFile(filepath.Join(t.root, "info", name+".trashinfo"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("failed to create trash info: %w", err)
		}
		return name, f, nil
	}
}

func homeTrashDir() (string, error) {
	data := os.Getenv("XDG_DATA_HOME")
	if data == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		data = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(data, "Trash"), nil
}
