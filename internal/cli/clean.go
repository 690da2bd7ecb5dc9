package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/output"
	"github.com/sdejongh/mediaflow/pkg/retention"
	"github.com/sdejongh/mediaflow/pkg/storage"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// NewCleanCommand creates the clean command
func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [dir]",
		Short: "Find and remove short videos",
		Long: `Scan a folder for videos shorter than a threshold.
With --action analyze (the default) nothing is touched; trash moves short
videos to the platform trash and delete removes them permanently.
Videos whose duration cannot be read are never removed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClean,
	}

	cmd.Flags().StringVar(&cleanFlags.Dir, "dir", "", "directory to scan (default: first argument)")
	cmd.Flags().BoolVarP(&cleanFlags.Recursive, "recursive", "r", true, "include subdirectories")
	cmd.Flags().Float64VarP(&cleanFlags.Threshold, "threshold", "t", 3.0, "videos shorter than this many seconds are short")
	cmd.Flags().StringVar(&cleanFlags.Extensions, "ext", models.DefaultVideoExtensions, "comma or semicolon separated video extensions")
	cmd.Flags().StringVarP(&cleanFlags.Action, "action", "a", "analyze", "action for short videos: analyze, trash, delete")
	cmd.Flags().BoolVarP(&cleanFlags.Yes, "yes", "y", false, "delete without asking for confirmation")
	cmd.Flags().StringVar(&cleanFlags.Report, "report", "", "write every row to file")
	cmd.Flags().StringVar(&cleanFlags.ReportFormat, "report-format", "human", "report format: human, json")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyCleanFlags(cmd, cfg); err != nil {
		return err
	}

	dir, err := resolveDirectory(cleanFlags.Dir, args, "scan")
	if err != nil {
		return err
	}

	settings, err := buildCleanerSettings(cfg, dir)
	if err != nil {
		return err
	}

	if settings.Action == models.ActionDelete && !cleanFlags.Yes {
		ok, err := confirm(fmt.Sprintf("Permanently delete videos shorter than %gs in %s", settings.ThresholdSeconds, dir))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted, nothing was deleted")
			return nil
		}
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	fs := storage.NewLocal(nil)
	provider, err := createDurationProvider(cfg.Probe, fs)
	if err != nil {
		return err
	}
	trasher, err := createTrasher(settings.Action)
	if err != nil {
		return err
	}

	scanner := retention.New(fs, provider, trasher, logger)
	runner := worker.NewRunner(logger)
	formatter, writer := createFormatter(cfg.Output)

	report := newReport(models.OperationClean, dir, settings.Action == models.ActionAnalyze)
	formatter.Start(writer, fmt.Sprintf("Scanning %s for videos shorter than %gs (%s)", dir, settings.ThresholdSeconds, settings.Action))

	var result *retention.Result
	var rows []models.RowEvent
	id, err := runOperation(ctx, runner, "clean", formatter, func(ctx context.Context, sink worker.Sink) error {
		collect := worker.SinkFunc(func(e worker.Event) {
			if e.Type == worker.EventRow {
				rows = append(rows, *e.Row)
			}
			sink.Emit(e)
		})
		r, err := scanner.Scan(ctx, settings, collect)
		result = r
		return err
	})
	report.OperationID = id
	report.Rows = rows
	if err != nil {
		err = failReport(report, formatter, err)
		writeCleanReport(report)
		return err
	}

	report.Stats = result.Stats
	report.Errors = rowErrors(rows, time.Now())
	if result.Canceled {
		report.Status = models.StatusCanceled
	}
	report.Finish(time.Now())
	formatter.Complete(report)

	if err := writeCleanReport(report); err != nil {
		return err
	}
	return statusError(report)
}

func writeCleanReport(report *models.RunReport) error {
	if cleanFlags.Report == "" {
		return nil
	}
	if err := output.WriteReport(report, cleanFlags.Report, cleanFlags.ReportFormat); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
