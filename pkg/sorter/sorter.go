// Package sorter plans and executes moving media into orientation or type
// buckets.
package sorter

import (
	"fmt"
	"path/filepath"

	"github.com/sdejongh/mediaflow/internal/platform"
	"github.com/sdejongh/mediaflow/pkg/logging"
	"github.com/sdejongh/mediaflow/pkg/media"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/storage"
)

// Sorter analyzes a source directory into a plan and replays plans
type Sorter struct {
	fs     storage.Backend
	probe  *media.Probe
	logger logging.Logger
}

// New creates a sorter. A nil or unavailable probe disables orientation mode.
func New(fs storage.Backend, probe *media.Probe, logger logging.Logger) *Sorter {
	return &Sorter{fs: fs, probe: probe, logger: logging.OrNull(logger)}
}

// Result is the outcome of an execution
type Result struct {
	Stats models.RunStats
	// Records holds the final decision per eligible record, in plan order
	Records  []models.PlanRecord
	Canceled bool
}

// layout is the bucket directory pair for one configuration
type layout struct {
	root   string
	first  models.Bucket
	second models.Bucket
}

func newLayout(cfg models.SortConfig) layout {
	a, b := cfg.Mode.Buckets()
	return layout{root: platform.OutputRoot(cfg.SourceDir, cfg.OutputName), first: a, second: b}
}

func (l layout) dir(bucket models.Bucket) (string, bool) {
	if bucket != l.first && bucket != l.second {
		return "", false
	}
	return filepath.Join(l.root, string(bucket)), true
}

func (l layout) dirs() []string {
	a, _ := l.dir(l.first)
	b, _ := l.dir(l.second)
	return []string{a, b}
}

func (l layout) ensure(fs storage.Backend) error {
	for _, d := range l.dirs() {
		if err := fs.MkdirAll(d); err != nil {
			return err
		}
	}
	return nil
}

// excluded returns the directories enumeration must never enter
func (l layout) excluded(source string) []string {
	ex := l.dirs()
	if filepath.Clean(l.root) != filepath.Clean(source) {
		ex = append([]string{l.root}, ex...)
	}
	return ex
}

// resolveSource replaces cfg.SourceDir with the directory it names once
// symlinks are followed, so enumeration and bucket paths share one root
func (s *Sorter) resolveSource(cfg *models.SortConfig) error {
	dir, err := s.fs.ResolveDir(cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidSource, cfg.SourceDir)
	}
	cfg.SourceDir = dir
	return nil
}

// ReservedDirs returns the output root (when it is not the source) and
// the bucket directories. Enumeration never enters them.
func ReservedDirs(cfg models.SortConfig) []string {
	return newLayout(cfg).excluded(cfg.SourceDir)
}
