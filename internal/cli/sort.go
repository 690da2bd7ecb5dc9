package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/mediaflow/pkg/config"
	"github.com/sdejongh/mediaflow/pkg/logging"
	"github.com/sdejongh/mediaflow/pkg/media"
	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/output"
	"github.com/sdejongh/mediaflow/pkg/sorter"
	"github.com/sdejongh/mediaflow/pkg/storage"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// NewSortCommand creates the sort command
func NewSortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort [source]",
		Short: "Sort media into orientation or type folders",
		Long: `Analyze a folder, show the plan, then move every file into its bucket.
Orientation mode creates portrait/ and landscape/, type mode creates Images/ and Videos/.
Destinations are checked again before each move, so files created since the
analysis are never overwritten unless the duplicate policy says so.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSort,
	}

	addSortFlags(cmd)
	cmd.Flags().BoolVar(&sortFlags.PlanOnly, "plan-only", false, "stop after showing the plan")
	cmd.Flags().BoolVarP(&sortFlags.Yes, "yes", "y", false, "execute without asking for confirmation")

	return cmd
}

func runSort(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := newSortSession(cmd, args)
	if err != nil {
		return err
	}
	defer session.Close()

	plan, report, err := session.analyze(ctx)
	if err != nil {
		session.writeReport(report)
		return err
	}

	final := report
	if report.Status != models.StatusCanceled && !sortFlags.PlanOnly {
		final, err = session.confirmAndExecute(ctx, plan, report)
		if err != nil {
			session.writeReport(final)
			return err
		}
	}

	if err := session.writeReport(final); err != nil {
		return err
	}
	return statusError(final)
}

// sortSession bundles the collaborators of one sort invocation
type sortSession struct {
	cfg       *config.Config
	sortCfg   models.SortConfig
	logger    logging.Logger
	fs        storage.Backend
	sorter    *sorter.Sorter
	runner    *worker.Runner
	formatter output.Formatter
	writer    io.Writer
}

func newSortSession(cmd *cobra.Command, args []string) (*sortSession, error) {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applySortFlags(cmd, cfg); err != nil {
		return nil, err
	}

	source, err := resolveDirectory(sortFlags.Source, args, "source")
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	fs := storage.NewLocal(nil)
	decoder, err := createDecoder(cfg.Probe, fs)
	if err != nil {
		logger.Close()
		return nil, err
	}

	formatter, writer := createFormatter(cfg.Output)
	return &sortSession{
		cfg:       cfg,
		sortCfg:   buildSortConfig(cfg, source),
		logger:    logger,
		fs:        fs,
		sorter:    sorter.New(fs, media.NewProbe(decoder), logger),
		runner:    worker.NewRunner(logger),
		formatter: formatter,
		writer:    writer,
	}, nil
}

// Close releases the logger
func (s *sortSession) Close() {
	s.logger.Close()
}

// analyze runs the analysis phase and renders the plan
func (s *sortSession) analyze(ctx context.Context) (*models.Plan, *models.RunReport, error) {
	report := newReport(models.OperationAnalyze, s.sortCfg.SourceDir, s.sortCfg.DryRun)
	s.formatter.Start(s.writer, fmt.Sprintf("Analyzing %s (%s)", s.sortCfg.SourceDir, s.sortCfg.Mode))

	var plan *models.Plan
	id, err := runOperation(ctx, s.runner, "analyze", s.formatter, func(ctx context.Context, sink worker.Sink) error {
		p, err := s.sorter.Analyze(ctx, s.sortCfg, sink)
		plan = p
		return err
	})
	report.OperationID = id
	if err != nil {
		return nil, report, failReport(report, s.formatter, err)
	}

	report.Records = plan.Records
	report.Stats = plan.Stats
	report.Errors = recordErrors(plan.Records, time.Now())
	if plan.Canceled {
		report.Status = models.StatusCanceled
	}
	report.Finish(time.Now())
	s.formatter.Complete(report)
	return plan, report, nil
}

// execute replays plan and renders the outcome of every record
func (s *sortSession) execute(ctx context.Context, plan *models.Plan) (*models.RunReport, error) {
	report := newReport(models.OperationExecute, s.sortCfg.SourceDir, s.sortCfg.DryRun)
	title := "Moving files"
	if s.sortCfg.DryRun {
		title = "Moving files (dry run)"
	}
	s.formatter.Start(s.writer, title)

	var result *sorter.Result
	id, err := runOperation(ctx, s.runner, "execute", s.formatter, func(ctx context.Context, sink worker.Sink) error {
		r, err := s.sorter.Execute(ctx, s.sortCfg, plan, sink)
		result = r
		return err
	})
	report.OperationID = id
	if err != nil {
		return report, failReport(report, s.formatter, err)
	}

	report.Records = result.Records
	report.Stats = result.Stats
	report.Errors = recordErrors(result.Records, time.Now())
	if result.Canceled {
		report.Status = models.StatusCanceled
	}
	report.Finish(time.Now())
	s.formatter.Complete(report)
	return report, nil
}

// confirmAndExecute asks before moving anything, unless --yes or dry-run.
// It returns the analysis report when there is nothing to do or the user
// declined.
func (s *sortSession) confirmAndExecute(ctx context.Context, plan *models.Plan, analysis *models.RunReport) (*models.RunReport, error) {
	eligible := len(plan.Executable())
	if eligible == 0 {
		fmt.Fprintln(s.writer, models.ErrNothingToExecute.Error())
		return analysis, nil
	}

	if !sortFlags.Yes && !s.sortCfg.DryRun {
		ok, err := confirm(fmt.Sprintf("Move %d files", eligible))
		if err != nil {
			return nil, err
		}
		if !ok {
			fmt.Fprintln(s.writer, "Aborted, no files were moved")
			return analysis, nil
		}
	}

	return s.execute(ctx, plan)
}

func (s *sortSession) writeReport(report *models.RunReport) error {
	if sortFlags.Report == "" || report == nil {
		return nil
	}
	if err := output.WriteReport(report, sortFlags.Report, sortFlags.ReportFormat); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
