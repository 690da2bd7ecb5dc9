package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/output"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// ExitError carries a process exit code out of a command. Err may be nil
// when the outcome was already reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return models.StatusFailed.ExitCode()
}

// statusError converts a finished report into the command result
func statusError(report *models.RunReport) error {
	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// runOperation starts job on runner and renders its events until it ends.
// Rendering and waiting run side by side so the job never blocks on a full
// event buffer.
func runOperation(ctx context.Context, runner *worker.Runner, name string, formatter output.Formatter, job worker.Job) (string, error) {
	op, err := runner.Start(ctx, name, job)
	if err != nil {
		return "", err
	}

	var g errgroup.Group
	g.Go(func() error {
		var renderErr error
		for e := range op.Events() {
			if e.Type == worker.EventDone || renderErr != nil {
				continue
			}
			renderErr = formatter.Event(e)
		}
		return renderErr
	})
	g.Go(op.Wait)

	return op.ID, g.Wait()
}

// newReport starts a report for one operation
func newReport(kind models.OperationKind, source string, dryRun bool) *models.RunReport {
	return &models.RunReport{
		Kind:      kind,
		Source:    source,
		DryRun:    dryRun,
		StartTime: time.Now(),
	}
}

// failReport marks report failed, or canceled when err is a cancellation,
// and renders the summary. The error itself is printed by the caller.
func failReport(report *models.RunReport, formatter output.Formatter, err error) error {
	report.Status = models.StatusFailed
	if errors.Is(err, context.Canceled) {
		report.Status = models.StatusCanceled
	}
	report.Failure = err.Error()
	report.Finish(time.Now())
	formatter.Complete(report)
	return &ExitError{Code: report.Status.ExitCode(), Err: err}
}

// recordErrors lists the ERROR records of a plan or an execution
func recordErrors(records []models.PlanRecord, at time.Time) []models.ItemError {
	var errs []models.ItemError
	for _, rec := range records {
		if rec.Status.IsError() {
			errs = append(errs, models.ItemError{Path: rec.Source, Error: string(rec.Status), Timestamp: at})
		}
	}
	return errs
}

// rowErrors lists the ERROR rows of a retention scan
func rowErrors(rows []models.RowEvent, at time.Time) []models.ItemError {
	var errs []models.ItemError
	for _, row := range rows {
		if row.Status == models.RowError {
			errs = append(errs, models.ItemError{Path: row.Path, Error: row.Detail, Timestamp: at})
		}
	}
	return errs
}

// errConfirmationRequired is returned when a prompt cannot be shown
var errConfirmationRequired = errors.New("confirmation required but stdin is not a terminal (use --yes)")

// confirm asks a yes/no question; it is a variable so tests can answer it
var confirm = func(label string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errConfirmationRequired
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
