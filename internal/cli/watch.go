package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/mediaflow/internal/platform"
	"github.com/sdejongh/mediaflow/pkg/logging"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/sorter"
	"github.com/sdejongh/mediaflow/pkg/storage"
)

var watchQuietPeriod time.Duration

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [source]",
		Short: "Keep a folder sorted as new media arrives",
		Long: `Sort the folder once, then watch it and sort again after new files
stop arriving for the quiet period. Runs never overlap. Moves happen without
confirmation; combine with --dry-run to only report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	addSortFlags(cmd)
	cmd.Flags().DurationVar(&watchQuietPeriod, "quiet-period", 2*time.Second, "wait this long after the last change before sorting")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := newSortSession(cmd, args)
	if err != nil {
		return err
	}
	defer session.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	reserved := sorter.ReservedDirs(session.sortCfg)
	if err := addWatches(ctx, watcher, session.fs, session.sortCfg.SourceDir, session.sortCfg.Recursive, reserved); err != nil {
		return err
	}

	triggers := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !shouldTrigger(ev, reserved) {
					continue
				}
				if session.sortCfg.Recursive && ev.Has(fsnotify.Create) {
					if info, err := session.fs.Stat(ev.Name); err == nil && info.IsDir {
						if err := addWatches(gctx, watcher, session.fs, ev.Name, true, reserved); err != nil {
							session.logger.Warn(gctx, "Cannot watch new directory", logging.Fields{"path": ev.Name, "error": err.Error()})
						}
					}
				}
				select {
				case triggers <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				session.logger.Warn(gctx, "Watcher error", logging.Fields{"error": err.Error()})
			}
		}
	})

	g.Go(func() error {
		return session.watchLoop(gctx, triggers, watchQuietPeriod)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintln(session.writer, "Stopped watching.")
	return nil
}

// watchLoop sorts once, then again after each burst of triggers has been
// quiet for the given period
func (s *sortSession) watchLoop(ctx context.Context, triggers <-chan struct{}, quiet time.Duration) error {
	s.sortOnce(ctx)
	fmt.Fprintf(s.writer, "\nWatching %s for changes... (Press Ctrl+C to exit)\n", s.sortCfg.SourceDir)

	timer := time.NewTimer(quiet)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-triggers:
			timer.Reset(quiet)
		case <-timer.C:
			s.sortOnce(ctx)
			fmt.Fprintf(s.writer, "\nWatching %s for changes... (Press Ctrl+C to exit)\n", s.sortCfg.SourceDir)
		}
	}
}

// sortOnce analyzes and executes without confirmation. Failures are
// reported and the watch goes on.
func (s *sortSession) sortOnce(ctx context.Context) {
	plan, report, err := s.analyze(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.formatter.Error(err)
		}
		return
	}
	if report.Status == models.StatusCanceled {
		return
	}
	if len(plan.Executable()) == 0 {
		s.writeReport(report)
		return
	}

	final, err := s.execute(ctx, plan)
	if err != nil && ctx.Err() == nil {
		s.formatter.Error(err)
	}
	if final != nil {
		s.writeReport(final)
	}
}

// addWatches watches root, and every directory below it when recursive,
// except the reserved output directories
func addWatches(ctx context.Context, watcher *fsnotify.Watcher, fs storage.Backend, root string, recursive bool, reserved []string) error {
	if !recursive {
		return watcher.Add(root)
	}
	return fs.Walk(ctx, root, func(info storage.FileInfo) error {
		if !info.IsDir {
			return nil
		}
		if isReserved(info.Path, reserved) {
			return filepath.SkipDir
		}
		if err := watcher.Add(info.Path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", info.Path, err)
		}
		return nil
	})
}

// shouldTrigger reports whether a filesystem event may bring new files
// to sort. Removals and renames away are the result of sorting itself.
func shouldTrigger(ev fsnotify.Event, reserved []string) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	return !isReserved(ev.Name, reserved)
}

func isReserved(path string, reserved []string) bool {
	for _, dir := range reserved {
		if platform.IsUnder(path, dir) {
			return true
		}
	}
	return false
}
