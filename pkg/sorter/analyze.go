package sorter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sdejongh/mediaflow/pkg/logging"
	"github.com/sdejongh/mediaflow/pkg/media"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// Analyze builds the plan for cfg without moving anything. Only the two
// bucket directories are created. Per-file failures become ERROR records.
// When ctx is canceled the partial plan is returned with Canceled set.
func (s *Sorter) Analyze(ctx context.Context, cfg models.SortConfig, sink worker.Sink) (*models.Plan, error) {
	sink = worker.OrDiscard(sink)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolveSource(&cfg); err != nil {
		return nil, err
	}
	if cfg.Mode == models.ModeOrientation && !s.probe.Available() {
		return nil, &models.CapabilityError{Capability: "decoder", Reason: "orientation mode needs a dimension decoder"}
	}

	lay := newLayout(cfg)
	if err := lay.ensure(s.fs); err != nil {
		return nil, err
	}

	files, err := Enumerate(ctx, s.fs, cfg.SourceDir, cfg.Recursive, lay.excluded(cfg.SourceDir))
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", cfg.SourceDir, err)
	}

	logger := s.logger.WithFields(logging.Fields{"source": cfg.SourceDir, "mode": string(cfg.Mode)})
	logger.Info(ctx, "Starting analysis", logging.Fields{"files": len(files), "recursive": cfg.Recursive})

	plan := &models.Plan{Config: cfg}
	stats := &plan.Stats
	stats.Found = len(files)
	resolver := NewResolver(s.fs.Exists)

	sink.Emit(worker.Progress(0, stats.Found))

	for i, path := range files {
		if ctx.Err() != nil {
			plan.Canceled = true
			break
		}

		rec, err := s.planFile(ctx, cfg, lay, resolver, path, stats)
		if err != nil {
			stats.Errors++
			logger.Warn(ctx, "Cannot plan file", logging.Fields{"path": path, "error": err.Error()})
			rec = &models.PlanRecord{
				Source:      path,
				Kind:        models.KindUnknown,
				Bucket:      models.BucketUnknown,
				Destination: "-",
				Status:      models.ErrorStatus(err),
			}
		}
		if rec != nil {
			plan.Records = append(plan.Records, *rec)
			sink.Emit(worker.Record(*rec))
		}

		stats.Scanned = i + 1
		sink.Emit(worker.Stats(stats.Snapshot()))
		sink.Emit(worker.Progress(i+1, stats.Found))
	}

	if plan.Canceled {
		sink.Emit(worker.Status("Canceled"))
	} else {
		sink.Emit(worker.Status("Completed"))
	}

	logger.Info(ctx, "Analysis finished", logging.Fields{
		"supported": stats.Supported,
		"skipped":   stats.SkippedUnsupported + stats.SkippedDuplicates,
		"errors":    stats.Errors,
		"canceled":  plan.Canceled,
	})
	return plan, nil
}

// planFile returns nil for unsupported files
func (s *Sorter) planFile(ctx context.Context, cfg models.SortConfig, lay layout, resolver *Resolver, path string, stats *models.RunStats) (*models.PlanRecord, error) {
	rec := &models.PlanRecord{Source: path}

	if cfg.Mode == models.ModeType {
		kind, ok := media.ClassifyPath(path)
		if !ok {
			stats.SkippedUnsupported++
			return nil, nil
		}
		rec.Kind = kind
		rec.Bucket = media.TypeBucket(kind)
	} else {
		if _, ok := media.OrientationKind(filepath.Ext(path)); !ok {
			stats.SkippedUnsupported++
			return nil, nil
		}
		kind, dims, err := s.probe.Probe(ctx, path)
		if err != nil {
			return nil, err
		}
		rec.Kind = kind
		rec.Width, rec.Height = dims.Width, dims.Height
		rec.Bucket = media.OrientationBucket(dims.Width, dims.Height)
	}

	stats.Supported++
	if rec.Kind == models.KindImage {
		stats.Images++
	} else {
		stats.Videos++
	}
	switch rec.Bucket {
	case models.BucketPortrait:
		stats.Portrait++
	case models.BucketLandscape:
		stats.Landscape++
	}

	dir, _ := lay.dir(rec.Bucket)
	candidate := filepath.Join(dir, cfg.TargetName(filepath.Base(path)))
	dest, status, err := resolver.Resolve(candidate, cfg.Duplicates)
	if err != nil {
		return nil, err
	}
	rec.Destination = dest
	rec.Status = status

	if status.IsSkip() {
		stats.SkippedDuplicates++
	} else {
		resolver.Claim(dest)
	}
	return rec, nil
}
