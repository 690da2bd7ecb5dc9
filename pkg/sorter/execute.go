package sorter

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/sdejongh/mediaflow/pkg/logging"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// Execute replays the OK records of plan in order. Each destination is
// resolved again against the live filesystem, since files may have changed
// since analysis. A failed move is counted and the batch continues. With
// DryRun nothing on disk changes but the counters are computed the same way.
func (s *Sorter) Execute(ctx context.Context, cfg models.SortConfig, plan *models.Plan, sink worker.Sink) (*Result, error) {
	sink = worker.OrDiscard(sink)

	eligible := plan.Executable()
	if len(eligible) == 0 {
		return nil, models.ErrNothingToExecute
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// A vanished source is not fatal here; its moves fail one by one.
	if dir, err := s.fs.ResolveDir(cfg.SourceDir); err == nil {
		cfg.SourceDir = dir
	}

	lay := newLayout(cfg)
	if !cfg.DryRun {
		if err := lay.ensure(s.fs); err != nil {
			return nil, err
		}
	}

	logger := s.logger.WithFields(logging.Fields{"source": cfg.SourceDir, "dry_run": cfg.DryRun})
	logger.Info(ctx, "Starting execution", logging.Fields{"eligible": len(eligible)})

	total := len(eligible)
	result := &Result{Stats: models.RunStats{Found: total}}
	stats := &result.Stats
	resolver := NewResolver(s.fs.Exists)

	sink.Emit(worker.Progress(0, total))

	for i, planned := range eligible {
		if ctx.Err() != nil {
			result.Canceled = true
			break
		}

		rec := s.executeRecord(ctx, cfg, lay, resolver, planned, stats)
		if rec.Status.IsError() {
			logger.Warn(ctx, "Cannot move file", logging.Fields{"path": rec.Source, "status": string(rec.Status)})
		}
		result.Records = append(result.Records, rec)

		stats.Scanned = i + 1
		sink.Emit(worker.Record(rec))
		sink.Emit(worker.Stats(stats.Snapshot()))
		sink.Emit(worker.Progress(i+1, total))
	}

	if result.Canceled {
		sink.Emit(worker.Status("Canceled"))
	} else {
		sink.Emit(worker.Status("Completed"))
	}

	logger.Info(ctx, "Execution finished", logging.Fields{
		"moved":    stats.Moved,
		"skipped":  stats.SkippedDuplicates,
		"errors":   stats.Errors,
		"canceled": result.Canceled,
	})
	return result, nil
}

func (s *Sorter) executeRecord(ctx context.Context, cfg models.SortConfig, lay layout, resolver *Resolver, planned models.PlanRecord, stats *models.RunStats) models.PlanRecord {
	rec := planned
	fail := func(err error) models.PlanRecord {
		stats.Errors++
		rec.Status = models.ErrorStatus(err)
		return rec
	}

	dir, ok := lay.dir(planned.Bucket)
	if !ok {
		return fail(errors.New("unknown bucket " + string(planned.Bucket)))
	}

	candidate := filepath.Join(dir, cfg.TargetName(filepath.Base(planned.Source)))
	dest, status, err := resolver.Resolve(candidate, cfg.Duplicates)
	if err != nil {
		return fail(err)
	}
	rec.Destination = dest
	rec.Status = status

	if status.IsSkip() {
		stats.SkippedDuplicates++
		return rec
	}

	if !cfg.DryRun {
		if err := s.fs.Move(ctx, planned.Source, dest, status == models.StatusOKOverwrite); err != nil {
			return fail(err)
		}
	}
	resolver.Claim(dest)
	stats.Moved++
	return rec
}
