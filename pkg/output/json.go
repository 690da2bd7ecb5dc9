package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/mediaflow/pkg/models"
	"github.com/sdejongh/mediaflow/pkg/worker"
)

// JSONFormatter writes one JSON object per line for automation and scripting.
// Progress and stats events are not written; the final report carries the
// counters.
type JSONFormatter struct {
	writer  io.Writer
	encoder *json.Encoder
}

// JSONEvent represents a single line in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONReportData represents the final report line
type JSONReportData struct {
	OperationID string          `json:"operation_id,omitempty"`
	Kind        string          `json:"kind"`
	Source      string          `json:"source"`
	DryRun      bool            `json:"dry_run"`
	Status      string          `json:"status"`
	Duration    string          `json:"duration"`
	DurationMs  int64           `json:"duration_ms"`
	Stats       models.RunStats `json:"stats"`
	Errors      []JSONErrorData `json:"errors,omitempty"`
	Failure     string          `json:"failure,omitempty"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, title string) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.encoder = json.NewEncoder(writer)
	return f.emit("start", map[string]string{"title": title})
}

// Event writes records, rows and status lines
func (f *JSONFormatter) Event(e worker.Event) error {
	switch e.Type {
	case worker.EventRecord:
		return f.emit("record", e.Record)
	case worker.EventRow:
		return f.emit("row", e.Row)
	case worker.EventStatus:
		return f.emit("status", map[string]string{"message": e.Message})
	}
	return nil
}

// Complete writes the final report line
func (f *JSONFormatter) Complete(report *models.RunReport) error {
	var errs []JSONErrorData
	for _, e := range report.Errors {
		errs = append(errs, JSONErrorData{Path: e.Path, Error: e.Error})
	}

	return f.emit("complete", JSONReportData{
		OperationID: report.OperationID,
		Kind:        string(report.Kind),
		Source:      report.Source,
		DryRun:      report.DryRun,
		Status:      string(report.Status),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats:       report.Stats,
		Errors:      errs,
		Failure:     report.Failure,
	})
}

// Error reports an error
func (f *JSONFormatter) Error(err error) error {
	return f.emit("error", map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) emit(typ string, data any) error {
	if f.encoder == nil {
		f.writer = io.Discard
		f.encoder = json.NewEncoder(f.writer)
	}
	return f.encoder.Encode(JSONEvent{Timestamp: time.Now(), Type: typ, Data: data})
}
