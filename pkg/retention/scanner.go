// Package retention finds short videos and reports, trashes or deletes them.
package retention

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sdejongh/mediaflow/pkg/duration"
	"github.com/sdejongh/mediaflow/pkg/logging"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/sorter"
	"github.com/sdejongh/mediaflow/pkg/storage"
	"github.com/sdejongh/mediaflow/pkg/trash"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// Scanner runs retention scans over a directory
type Scanner struct {
	fs       storage.Backend
	provider duration.Provider
	trasher  trash.Trasher
	logger   logging.Logger
}

// New creates a scanner. provider may be nil, in which case every scan
// fails with models.ErrPlatformUnsupported; trasher may be nil when the
// trash action is never requested.
func New(fs storage.Backend, provider duration.Provider, trasher trash.Trasher, logger logging.Logger) *Scanner {
	return &Scanner{fs: fs, provider: provider, trasher: trasher, logger: logging.OrNull(logger)}
}

// Result is the outcome of one scan. Rows are streamed through the sink
// only.
type Result struct {
	Stats    models.RunStats
	Canceled bool
}

// Scan classifies every matching video as SHORT, KEEP or UNKNOWN and applies
// the configured action to SHORT ones. A file whose duration is unknown is
// never removed. Failures on single files become ERROR rows.
func (s *Scanner) Scan(ctx context.Context, settings models.CleanerSettings, sink worker.Sink) (*Result, error) {
	sink = worker.OrDiscard(sink)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	dir, err := s.fs.ResolveDir(settings.Directory)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidSource, settings.Directory)
	}
	settings.Directory = dir
	if s.provider == nil {
		return nil, fmt.Errorf("duration lookup: %w", models.ErrPlatformUnsupported)
	}
	if settings.Action == models.ActionTrash && s.trasher == nil {
		return nil, &models.CapabilityError{Capability: "trash", Reason: "no trash location on this platform"}
	}

	session, err := s.provider.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s duration provider: %w", s.provider.Name(), err)
	}
	defer session.Close()

	files, err := s.list(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", settings.Directory, err)
	}

	logger := s.logger.WithFields(logging.Fields{"directory": settings.Directory, "action": string(settings.Action)})
	logger.Info(ctx, "Starting retention scan", logging.Fields{
		"files":      len(files),
		"threshold":  settings.ThresholdSeconds,
		"provider":   s.provider.Name(),
		"extensions": settings.Extensions.String(),
	})

	result := &Result{}
	stats := &result.Stats
	stats.Found = len(files)

	sink.Emit(worker.Status(fmt.Sprintf("Found %d files", len(files))))
	sink.Emit(worker.Progress(0, len(files)))

	for i, path := range files {
		if ctx.Err() != nil {
			result.Canceled = true
			break
		}

		row := s.scanFile(ctx, settings, session, path, stats)
		if row.Status == models.RowError {
			logger.Warn(ctx, "Cannot remove short video", logging.Fields{"path": path, "error": row.Detail})
		}

		stats.Scanned = i + 1
		sink.Emit(worker.Row(row))
		sink.Emit(worker.Stats(stats.Snapshot()))
		sink.Emit(worker.Progress(i+1, len(files)))
	}

	if result.Canceled {
		sink.Emit(worker.Status("Canceled"))
	} else {
		sink.Emit(worker.Status("Completed"))
	}

	logger.Info(ctx, "Retention scan finished", logging.Fields{
		"short":    stats.Short,
		"kept":     stats.Kept,
		"unknown":  stats.Unknown,
		"deleted":  stats.Deleted,
		"errors":   stats.Errors,
		"canceled": result.Canceled,
	})
	return result, nil
}

func (s *Scanner) list(ctx context.Context, settings models.CleanerSettings) ([]string, error) {
	all, err := sorter.Enumerate(ctx, s.fs, settings.Directory, settings.Recursive, nil)
	if err != nil {
		return nil, err
	}
	files := all[:0]
	for _, p := range all {
		if settings.Extensions.Has(filepath.Ext(p)) {
			files = append(files, p)
		}
	}
	return files, nil
}

func (s *Scanner) scanFile(ctx context.Context, settings models.CleanerSettings, session duration.Session, path string, stats *models.RunStats) models.RowEvent {
	row := models.RowEvent{Filename: filepath.Base(path), Path: path}

	seconds, ok := session.Duration(ctx, path)
	if !ok {
		stats.Unknown++
		row.Status = models.RowUnknown
		return row
	}
	row.Duration = &seconds

	if seconds >= settings.ThresholdSeconds {
		stats.Kept++
		row.Status = models.RowKeep
		return row
	}

	stats.Short++
	row.Status = models.RowShort

	var err error
	switch settings.Action {
	case models.ActionAnalyze:
		return row
	case models.ActionTrash:
		err = s.trasher.Trash(path)
	case models.ActionDelete:
		err = s.fs.Remove(ctx, path)
	}
	if err != nil {
		stats.Errors++
		row.Status = models.RowError
		row.Detail = err.Error()
		return row
	}

	stats.Deleted++
	row.Status = models.RowDeleted
	return row
}
