package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/mediaflow/pkg/models"
)

func drain(op *Operation) []Event {
	var events []Event
	for e := range op.Events() {
		events = append(events, e)
	}
	return events
}

func TestRunnerDeliversEventsInOrder(t *testing.T) {
	r := NewRunner(nil)

	op, err := r.Start(context.Background(), "count", func(ctx context.Context, sink Sink) error {
		for i := 1; i <= 500; i++ {
			sink.Emit(Progress(i, 500))
		}
		return nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, op.ID)

	events := drain(op)
	require.Len(t, events, 501)
	for i, e := range events[:500] {
		assert.Equal(t, EventProgress, e.Type)
		assert.Equal(t, i+1, e.Done)
	}
	last := events[500]
	assert.Equal(t, EventDone, last.Type)
	assert.NoError(t, last.Err)
	assert.NoError(t, op.Wait())
	assert.False(t, r.Busy())
}

func TestRunnerRejectsConcurrentStart(t *testing.T) {
	r := NewRunner(nil)
	release := make(chan struct{})

	op, err := r.Start(context.Background(), "first", func(ctx context.Context, sink Sink) error {
		<-release
		return nil
	})
	require.NoError(t, err)
	assert.True(t, r.Busy())

	_, err = r.Start(context.Background(), "second", func(ctx context.Context, sink Sink) error { return nil })
	assert.ErrorIs(t, err, models.ErrBusy)

	close(release)
	drain(op)
	require.NoError(t, op.Wait())

	second, err := r.Start(context.Background(), "second", func(ctx context.Context, sink Sink) error { return nil })
	require.NoError(t, err, "slot must be free once the first operation finished")
	drain(second)
}

func TestRunnerCancel(t *testing.T) {
	r := NewRunner(nil)
	started := make(chan struct{})

	op, err := r.Start(context.Background(), "wait", func(ctx context.Context, sink Sink) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	<-started
	op.Cancel()
	events := drain(op)

	require.NotEmpty(t, events)
	assert.ErrorIs(t, events[len(events)-1].Err, context.Canceled)
	assert.ErrorIs(t, op.Wait(), context.Canceled)
}

func TestRunnerReportsFailure(t *testing.T) {
	r := NewRunner(nil)
	boom := errors.New("boom")

	op, err := r.Start(context.Background(), "fail", func(ctx context.Context, sink Sink) error {
		sink.Emit(Status("working"))
		return boom
	})
	require.NoError(t, err)

	events := drain(op)
	require.Len(t, events, 2)
	assert.Equal(t, "working", events[0].Message)
	assert.ErrorIs(t, events[1].Err, boom)
	<-op.Done()
}

func TestEventHelpersCopyValues(t *testing.T) {
	rec := models.PlanRecord{Source: "a"}
	e := Record(rec)
	rec.Source = "b"
	assert.Equal(t, "a", e.Record.Source)

	stats := models.RunStats{Found: 1}
	se := Stats(stats)
	stats.Found = 2
	assert.Equal(t, 1, se.Stats.Found)

	var got []Event
	OrDiscard(SinkFunc(func(e Event) { got = append(got, e) })).Emit(Progress(1, 2))
	OrDiscard(nil).Emit(Progress(1, 2))
	assert.Len(t, got, 1)
}
