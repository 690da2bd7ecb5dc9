// Package worker runs one background operation at a time and streams its
// events to the caller.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/mediaflow/pkg/logging"
	"github.com/sdejongh/mediaflow/pkg/models"
)

// eventBuffer lets an operation run slightly ahead of a slow observer
const eventBuffer = 256

// Job is the body of an operation. It must emit through sink only and
// check ctx before each unit of work.
type Job func(ctx context.Context, sink Sink) error

// Runner owns a single operation slot. Starting while an operation is
// active is rejected with models.ErrBusy, never queued.
type Runner struct {
	mu     sync.Mutex
	active *Operation
	logger logging.Logger
}

// NewRunner creates a runner; a nil logger discards output
func NewRunner(logger logging.Logger) *Runner {
	return &Runner{logger: logging.OrNull(logger)}
}

// Busy reports whether an operation is running
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Start launches job on a background goroutine. The caller must drain
// Events until it is closed.
func (r *Runner) Start(ctx context.Context, name string, job Job) (*Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		return nil, models.ErrBusy
	}

	opCtx, cancel := context.WithCancel(ctx)
	op := &Operation{
		ID:      uuid.NewString(),
		Name:    name,
		Started: time.Now(),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
	r.active = op

	logger := r.logger.WithFields(logging.Fields{"operation_id": op.ID, "operation": name})
	logger.Debug(opCtx, "Operation started", nil)

	go func() {
		defer cancel()
		err := job(opCtx, SinkFunc(op.emit))

		switch {
		case err == nil:
			logger.Debug(opCtx, "Operation finished", logging.Fields{"elapsed": time.Since(op.Started).String()})
		case errors.Is(err, context.Canceled):
			logger.Info(opCtx, "Operation canceled", nil)
		default:
			logger.Error(opCtx, "Operation failed", err, nil)
		}

		op.err = err
		op.emit(Event{Type: EventDone, Err: err})

		r.mu.Lock()
		r.active = nil
		r.mu.Unlock()

		close(op.events)
		close(op.done)
	}()

	return op, nil
}

// Operation is the handle of a running job
type Operation struct {
	ID      string
	Name    string
	Started time.Time

	events chan Event
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

func (o *Operation) emit(e Event) {
	o.events <- e
}

// Events delivers the operation's events in emission order. The last
// event is EventDone, after which the channel is closed.
func (o *Operation) Events() <-chan Event {
	return o.events
}

// Cancel requests cooperative cancellation
func (o *Operation) Cancel() {
	o.cancel()
}

// Done is closed once the job returned and the slot was released
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the job returned and reports its error. Events must
// be drained concurrently or Wait may never return.
func (o *Operation) Wait() error {
	<-o.done
	return o.err
}
