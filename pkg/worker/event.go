package worker

import "github.com/sdejongh/mediaflow/pkg/models"

// EventType identifies what an Event carries
type EventType string

const (
	// EventProgress carries Done and Total
	EventProgress EventType = "progress"
	// EventRecord carries one analysis or execution record
	EventRecord EventType = "record"
	// EventRow carries one retention row
	EventRow EventType = "row"
	// EventStats carries a cumulative stats snapshot
	EventStats EventType = "stats"
	// EventStatus carries a human-readable status line
	EventStatus EventType = "status"
	// EventDone is the last event of an operation; Err is nil on success
	EventDone EventType = "done"
)

// Event is a value delivered from a running operation to its observer
type Event struct {
	Type    EventType
	Done    int
	Total   int
	Record  *models.PlanRecord
	Row     *models.RowEvent
	Stats   models.RunStats
	Message string
	Err     error
}

// Sink receives events in the order they are emitted
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(e Event)

// Emit calls f(e)
func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event
var Discard Sink = SinkFunc(func(Event) {})

// OrDiscard returns s, or Discard when s is nil
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Progress is a shorthand for a progress event
func Progress(done, total int) Event {
	return Event{Type: EventProgress, Done: done, Total: total}
}

// Stats is a shorthand for a stats event; the snapshot is copied
func Stats(s models.RunStats) Event {
	return Event{Type: EventStats, Stats: s}
}

// Status is a shorthand for a status line event
func Status(msg string) Event {
	return Event{Type: EventStatus, Message: msg}
}

// Record is a shorthand for a record event; rec is copied
func Record(rec models.PlanRecord) Event {
	return Event{Type: EventRecord, Record: &rec}
}

// Row is a shorthand for a row event; row is copied
func Row(row models.RowEvent) Event {
	return Event{Type: EventRow, Row: &row}
}
