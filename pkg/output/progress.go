package output

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

const progressTemplate = `{{string . "prefix"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{etime . }} {{string . "stats"}}`

// getUpdateInterval returns the progress update interval based on OS
// Windows terminals have higher latency with ANSI sequences, so we use a longer interval
func getUpdateInterval() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// terminalWidth returns the width of w, or 120 for pipes and redirects
func terminalWidth(w io.Writer) int {
	if file, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 120
}

// ProgressFormatter shows a single progress bar while an operation runs.
// Problem records and rows are held back and printed once the bar is done
// so they do not tear the bar line.
type ProgressFormatter struct {
	mu        sync.Mutex
	writer    io.Writer
	title     string
	termWidth int
	startTime time.Time
	bar       *pb.ProgressBar
	notes     []string
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.finishBar()
	f.writer = writer
	f.title = title
	f.termWidth = terminalWidth(writer)
	f.startTime = time.Now()
	f.notes = nil
	return nil
}

// Event advances the bar and collects notable outcomes
func (f *ProgressFormatter) Event(e worker.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch e.Type {
	case worker.EventProgress:
		f.ensureBar(e.Total)
		f.bar.SetTotal(int64(e.Total))
		f.bar.SetCurrent(int64(e.Done))
	case worker.EventStats:
		if f.bar != nil {
			f.bar.Set("stats", mutedStyle.Render(statsLine(e.Stats)))
		}
	case worker.EventRecord:
		if e.Record.Status.IsError() {
			f.notes = append(f.notes, formatRecord(*e.Record))
		}
	case worker.EventRow:
		switch e.Row.Status {
		case models.RowShort, models.RowDeleted, models.RowError:
			f.notes = append(f.notes, formatRow(*e.Row))
		}
	}
	return nil
}

// Complete stops the bar and displays notes and summary
func (f *ProgressFormatter) Complete(report *models.RunReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishBar()
	if f.writer == nil {
		f.writer = io.Discard
	}
	for _, note := range f.notes {
		fmt.Fprintln(f.writer, note)
	}
	f.notes = nil
	writeSummary(f.writer, report, styleRunStatus)
	fmt.Fprintf(f.writer, "Elapsed: %s\n", formatDuration(time.Since(f.startTime)))
	return nil
}

// Error reports an error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishBar()
	if f.writer != nil {
		fmt.Fprintf(f.writer, "%s %v\n", failStyle.Render("Error:"), err)
	}
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) ensureBar(total int) {
	if f.bar != nil {
		return
	}
	f.bar = pb.ProgressBarTemplate(progressTemplate).New(total)
	f.bar.SetWriter(f.writer)
	f.bar.SetMaxWidth(f.termWidth)
	f.bar.SetRefreshRate(getUpdateInterval())
	f.bar.Set("prefix", f.title)
	f.bar.Start()
}

func (f *ProgressFormatter) finishBar() {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
}

// statsLine summarizes the counters that are non-zero
func statsLine(s models.RunStats) string {
	var parts []string
	add := func(label string, n int) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", label, n))
		}
	}
	add("moved", s.Moved)
	add("short", s.Short)
	add("removed", s.Deleted)
	add("kept", s.Kept)
	add("unknown", s.Unknown)
	add("skipped", s.SkippedDuplicates)
	add("errors", s.Errors)
	return strings.Join(parts, " ")
}
