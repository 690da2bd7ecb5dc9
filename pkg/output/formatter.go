package output

import (
	"io"

	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start initializes the formatter for a new operation.
	// title is a short description such as "Analyzing /photos".
	Start(writer io.Writer, title string) error

	// Event renders one event streamed by a running operation
	Event(e worker.Event) error

	// Complete finalizes output and displays the summary
	Complete(report *models.RunReport) error

	// Error reports an operation-level error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for format ("human" or "json"). With progress,
// human output is replaced by a progress bar when writer is a terminal.
func New(format string, progress bool, writer io.Writer) Formatter {
	if format == "json" {
		return NewJSONFormatter()
	}
	if progress && IsTerminal(writer) {
		return NewProgressFormatter()
	}
	return NewHumanFormatter()
}
