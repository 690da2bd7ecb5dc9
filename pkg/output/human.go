package output

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

var (
	colorPass  = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn  = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail  = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMuted = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}

	passStyle   = lipgloss.NewStyle().Foreground(colorPass)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer    io.Writer
	startTime time.Time
	header    bool
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, title string) error {
	f.writer = writer
	f.startTime = time.Now()
	f.header = false

	if writer != nil && title != "" {
		fmt.Fprintln(writer, headerStyle.Render(title))
	}
	return nil
}

// Event prints records and rows as they arrive
func (f *HumanFormatter) Event(e worker.Event) error {
	if f.writer == nil {
		return nil
	}

	switch e.Type {
	case worker.EventRecord:
		if !f.header {
			fmt.Fprintln(f.writer, headerStyle.Render(recordHeader()))
			f.header = true
		}
		fmt.Fprintln(f.writer, formatRecord(*e.Record))
	case worker.EventRow:
		fmt.Fprintln(f.writer, formatRow(*e.Row))
	case worker.EventStatus:
		fmt.Fprintln(f.writer, mutedStyle.Render(e.Message))
	}
	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.RunReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	writeSummary(f.writer, report, styleRunStatus)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		fmt.Fprintf(f.writer, "%s %v\n", failStyle.Render("Error:"), err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func recordHeader() string {
	return fmt.Sprintf("%-32s  %-5s  %11s  %-9s  %-40s  %s", "File", "Type", "Size", "Bucket", "Destination", "Status")
}

// recordColumns renders every column of a plan record except the status
func recordColumns(rec models.PlanRecord) string {
	dims := "-"
	if rec.Width > 0 && rec.Height > 0 {
		dims = fmt.Sprintf("%dx%d", rec.Width, rec.Height)
	}
	return fmt.Sprintf("%-32s  %-5s  %11s  %-9s  %-40s  ",
		truncate(filepath.Base(rec.Source), 32), rec.Kind, dims, rec.Bucket, truncate(DisplayDestination(rec), 40))
}

// formatRecord renders one plan record as a table line
func formatRecord(rec models.PlanRecord) string {
	return recordColumns(rec) + styleStatus(string(rec.Status), rec.Status.IsError(), rec.Status.IsSkip())
}

// formatRow renders one retention row
func formatRow(row models.RowEvent) string {
	dur := row.DurationString()
	if dur == "" {
		dur = "-"
	}
	status := fmt.Sprintf("%-7s", row.Status)
	switch row.Status {
	case models.RowDeleted:
		status = warnStyle.Render(status)
	case models.RowError:
		status = failStyle.Render(status)
	case models.RowShort:
		status = passStyle.Render(status)
	case models.RowUnknown:
		status = mutedStyle.Render(status)
	}
	line := fmt.Sprintf("%s  %10s  %s", status, dur, row.Path)
	if row.Detail != "" {
		line += "  " + failStyle.Render(row.Detail)
	}
	return line
}

func styleStatus(s string, isError, isSkip bool) string {
	switch {
	case isError:
		return failStyle.Render(s)
	case isSkip:
		return mutedStyle.Render(s)
	}
	return passStyle.Render(s)
}

// DisplayDestination shows a destination relative to the output root,
// as bucket/name. Records without a destination display "-".
func DisplayDestination(rec models.PlanRecord) string {
	if rec.Destination == "" || rec.Destination == "-" {
		return "-"
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(filepath.Dir(rec.Destination)), filepath.Base(rec.Destination)))
}

func writeSummary(w io.Writer, report *models.RunReport, status func(models.RunStatus) string) {
	s := report.Stats

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s finished in %s\n", kindTitle(report.Kind), report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")

	switch report.Kind {
	case models.OperationAnalyze:
		fmt.Fprintf(w, "  Files found:          %d\n", s.Found)
		fmt.Fprintf(w, "  Supported:            %d (%d images, %d videos)\n", s.Supported, s.Images, s.Videos)
		if s.Portrait+s.Landscape > 0 {
			fmt.Fprintf(w, "  Portrait / landscape: %d / %d\n", s.Portrait, s.Landscape)
		}
		fmt.Fprintf(w, "  Unsupported skipped:  %d\n", s.SkippedUnsupported)
		fmt.Fprintf(w, "  Duplicates skipped:   %d\n", s.SkippedDuplicates)
	case models.OperationExecute:
		label := "Moved:"
		if report.DryRun {
			label = "Would move:"
		}
		fmt.Fprintf(w, "  %-21s %d\n", label, s.Moved)
		fmt.Fprintf(w, "  Duplicates skipped:   %d\n", s.SkippedDuplicates)
	case models.OperationClean:
		fmt.Fprintf(w, "  Videos scanned:       %d of %d\n", s.Scanned, s.Found)
		fmt.Fprintf(w, "  Short:                %d\n", s.Short)
		fmt.Fprintf(w, "  Kept:                 %d\n", s.Kept)
		fmt.Fprintf(w, "  Unknown duration:     %d\n", s.Unknown)
		fmt.Fprintf(w, "  Removed:              %d\n", s.Deleted)
	}
	fmt.Fprintf(w, "  Errors:               %d\n", s.Errors)

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Status: %s\n", status(report.Status))
	if report.Failure != "" {
		fmt.Fprintf(w, "Failure: %s\n", report.Failure)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Path, e.Error)
		}
	}
}

func kindTitle(k models.OperationKind) string {
	switch k {
	case models.OperationAnalyze:
		return "Analysis"
	case models.OperationExecute:
		return "Execution"
	case models.OperationClean:
		return "Retention scan"
	}
	return "Operation"
}

func styleRunStatus(s models.RunStatus) string {
	switch s {
	case models.StatusCompleted:
		return passStyle.Render(string(s))
	case models.StatusPartial, models.StatusCanceled:
		return warnStyle.Render(string(s))
	}
	return failStyle.Render(string(s))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return "..." + string(runes[len(runes)-max+3:])
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
