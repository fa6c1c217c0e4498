package component

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/quoteboard/internal/errors"
)

// Task is an asynchronous unit of work started with Async.
type Task struct {
	cancel    context.CancelFunc
	cancelled atomic.Bool
	done      chan struct{}
	doneOnce  sync.Once
}

// Cancel cancels the task's context and discards its settlement.
// Cancelling twice is a no-op.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// Done is closed once the settlement ran or was discarded.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) finish() {
	t.doneOnce.Do(func() { close(t.done) })
}

// Async runs work off the loop with a context that is cancelled when c
// unmounts and bounded by the host's async timeout. settle then runs on
// the loop as a single turn, so every cell it writes coalesces into one
// render pass. settle is skipped if the task was cancelled or c has
// unmounted by then. A work error caused by the timeout is reported to
// settle as an E202 error. A full dispatch queue delays the settlement
// but never discards it.
func Async[T any](c *Component, work func(ctx context.Context) (T, error), settle func(T, error)) *Task {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if d := c.host.asyncTimeout; d > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, d)
	} else {
		ctx, cancel = context.WithCancel(c.ctx)
	}
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		v, err := work(ctx)
		if err != nil && stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = errors.New("E202").WithComponent(c.tag).Wrap(err)
		}
		// Settlements are never dropped on a full queue; only unmount or
		// host shutdown discards them.
		ok := c.host.post(func() {
			defer t.finish()
			if t.Cancelled() || c.state == Unmounted {
				return
			}
			settle(v, err)
		}, c.ctx.Done())
		if !ok {
			t.finish()
		}
	}()
	return t
}
