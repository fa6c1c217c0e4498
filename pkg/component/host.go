package component

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/quoteboard/internal/errors"
	"github.com/vango-dev/quoteboard/pkg/channel"
	"github.com/vango-dev/quoteboard/pkg/reactive"
	"github.com/vango-dev/quoteboard/pkg/telemetry"
)

// Default host settings.
const (
	DefaultMaxQueue     = 256
	DefaultAsyncTimeout = 10 * time.Second
)

// job is a unit of work queued for the host loop.
type job struct {
	fn   func()
	done chan struct{}
}

// Host owns a set of components and runs them on a single loop.
//
// Host methods other than Run, Dispatch, Call and Close must be called
// from the loop (inside a dispatched function, handler, hook or settle
// callback), or before Run starts.
type Host struct {
	tracker   *reactive.Tracker
	hub       *channel.Hub
	registry  *Registry
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	sink      ErrorSink

	asyncTimeout time.Duration
	maxQueue     int
	now          func() time.Time

	components map[uint64]*Component
	order      []*Component

	// dirty holds components marked dirty since the last checkpoint, in
	// the order they were marked.
	dirty []*Component

	jobs     chan job
	renderCh chan struct{}
	done     chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithTelemetry sets the metrics and tracer used for render passes.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(h *Host) {
		h.telemetry = t
	}
}

// WithErrorSink sets where render, hook and subscriber failures go.
func WithErrorSink(sink ErrorSink) Option {
	return func(h *Host) {
		h.sink = sink
	}
}

// WithRegistry sets the tag registry used by Mount.
func WithRegistry(r *Registry) Option {
	return func(h *Host) {
		h.registry = r
	}
}

// WithAsyncTimeout bounds every Async task. Zero disables the bound.
func WithAsyncTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.asyncTimeout = d
	}
}

// WithMaxQueue sets the capacity of the dispatch queue.
func WithMaxQueue(n int) Option {
	return func(h *Host) {
		h.maxQueue = n
	}
}

// NewHost creates a host. It does not start the loop.
func NewHost(opts ...Option) *Host {
	h := &Host{
		tracker:      reactive.NewTracker(),
		logger:       slog.Default(),
		asyncTimeout: DefaultAsyncTimeout,
		maxQueue:     DefaultMaxQueue,
		now:          time.Now,
		components:   make(map[uint64]*Component),
		renderCh:     make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = NewRegistry()
	}
	if h.maxQueue <= 0 {
		h.maxQueue = DefaultMaxQueue
	}
	h.logger = h.logger.With("component", "host")
	h.jobs = make(chan job, h.maxQueue)
	h.hub = channel.NewHub(
		channel.WithLogger(h.logger),
		channel.WithMetrics(h.telemetry.M()),
		channel.WithErrorHandler(func(err error) { h.report(nil, err) }),
	)
	return h
}

// Tracker returns the host's reactive tracker.
func (h *Host) Tracker() *reactive.Tracker { return h.tracker }

// Hub returns the host's channel hub.
func (h *Host) Hub() *channel.Hub { return h.hub }

// Registry returns the tag registry.
func (h *Host) Registry() *Registry { return h.registry }

// Logger returns the host logger.
func (h *Host) Logger() *slog.Logger { return h.logger }

// Telemetry returns the host telemetry, which may be nil.
func (h *Host) Telemetry() *telemetry.Telemetry { return h.telemetry }

// Run processes dispatched work and render checkpoints until ctx is done
// or Close is called. On exit every component is unmounted.
func (h *Host) Run(ctx context.Context) error {
	defer h.unmountAll()
	for {
		select {
		case <-ctx.Done():
			h.Close()
			return ctx.Err()
		case <-h.done:
			return nil
		case j := <-h.jobs:
			h.Turn(j.fn)
			if j.done != nil {
				close(j.done)
			}
		case <-h.renderCh:
			h.Flush()
		}
	}
}

// Close stops the loop. Queued work is discarded.
func (h *Host) Close() {
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		close(h.done)
	})
}

// Done is closed when the host is closed.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Dispatch queues fn to run as a turn on the loop. It never blocks; it
// returns false if the host is closed or the queue is full.
//
// Example:
//
//	go func() {
//	    q, err := provider.Lookup(ctx, symbol)
//	    host.Dispatch(func() {
//	        price.Set(q.Price)
//	        lookupErr.Set(err)
//	    })
//	}()
func (h *Host) Dispatch(fn func()) bool {
	return h.enqueue(job{fn: fn})
}

// Call runs fn as a turn on the loop and waits for the turn and its
// checkpoint to finish.
func (h *Host) Call(fn func()) error {
	done := make(chan struct{})
	if !h.enqueue(job{fn: fn, done: done}) {
		return errors.New("E501")
	}
	select {
	case <-done:
		return nil
	case <-h.done:
		return errors.New("E501")
	}
}

// post queues fn like Dispatch but waits for room instead of dropping
// it. It gives up when the host closes or stop is closed.
func (h *Host) post(fn func(), stop <-chan struct{}) bool {
	if h.closed.Load() {
		return false
	}
	select {
	case h.jobs <- job{fn: fn}:
		return true
	case <-h.done:
		return false
	case <-stop:
		return false
	}
}

func (h *Host) enqueue(j job) bool {
	if h.closed.Load() {
		return false
	}
	select {
	case h.jobs <- j:
		return true
	case <-h.done:
		return false
	default:
		h.logger.Warn("dispatch queue full, discarding callback")
		h.telemetry.M().RecordDispatchDropped()
		return false
	}
}

// Turn runs fn in a batch and then reaches a checkpoint. All cell writes
// inside fn coalesce into at most one render per component.
func (h *Host) Turn(fn func()) {
	h.tracker.Batch(func() {
		h.safeExecute(fn)
	})
	h.Flush()
}

// safeExecute runs a handler, recovering panics so a failing handler
// can't take down the loop.
func (h *Host) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("handler panic",
				"panic", r,
				"stack", string(debug.Stack()))
			h.report(nil, errors.New("E502").Wrap(panicError(r)))
		}
	}()
	fn()
}

// Flush is a checkpoint: it renders every component that was dirty when
// it was called, once, in the order they were marked. Components that
// become dirty during the checkpoint render at the next one.
func (h *Host) Flush() {
	queue := h.dirty
	h.dirty = nil
	for _, c := range queue {
		if c.state != Dirty {
			continue
		}
		c.render()
	}
}

// Pending returns the number of components waiting for a checkpoint.
func (h *Host) Pending() int {
	n := 0
	for _, c := range h.dirty {
		if c.state == Dirty {
			n++
		}
	}
	return n
}

// schedule queues c for the next checkpoint.
func (h *Host) schedule(c *Component) {
	h.dirty = append(h.dirty, c)
	select {
	case h.renderCh <- struct{}{}:
	default:
	}
}

// MountOption configures a mount.
type MountOption func(*mountOptions)

type mountOptions struct {
	parent *Component
	props  map[string]any
}

// WithParent mounts the component as a child of parent. Local channel
// subscriptions anchored at parent receive the child's publishes.
func WithParent(parent *Component) MountOption {
	return func(o *mountOptions) {
		o.parent = parent
	}
}

// WithProps sets initial prop values before the component mounts.
func WithProps(props map[string]any) MountOption {
	return func(o *mountOptions) {
		o.props = props
	}
}

// Mount constructs the component registered under tag, mounts it and
// renders it once into target.
func (h *Host) Mount(tag string, target RenderTarget, opts ...MountOption) (*Component, error) {
	factory, err := h.registry.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return h.MountFactory(tag, factory, target, opts...)
}

// MountFactory is Mount for a factory that is not in the registry.
func (h *Host) MountFactory(tag string, factory Factory, target RenderTarget, opts ...MountOption) (*Component, error) {
	if h.closed.Load() {
		return nil, errors.New("E501")
	}
	var o mountOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := newComponent(h, tag, o.parent, target)
	c.widget = factory(c)
	for name, v := range o.props {
		if err := c.SetProp(name, v); err != nil {
			c.cancel()
			return nil, err
		}
	}

	h.components[c.id] = c
	h.order = append(h.order, c)

	// Writes made by Mount hooks land before the first render, so they
	// don't cause a second one.
	c.mounting = true
	h.tracker.Batch(func() {
		c.setState(Mounted)
	})
	c.mounting = false

	h.telemetry.M().RecordMount()
	c.logger.Debug("mounted")
	c.render()
	return c, nil
}

// Unmount tears c down: Unmount hooks run, channel and cell subscriptions
// are released, pending renders are dropped and async tasks cancelled.
// Children are unmounted first.
func (h *Host) Unmount(c *Component) error {
	if c.state == Unmounted {
		return errors.New("E500").WithComponent(c.tag).WithDetail("already unmounted")
	}
	for _, child := range h.children(c) {
		if child.state != Unmounted {
			h.Unmount(child)
		}
	}
	if err := c.setState(Unmounted); err != nil {
		return err
	}
	c.teardown()

	delete(h.components, c.id)
	for i, o := range h.order {
		if o == c {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.telemetry.M().RecordUnmount()
	c.logger.Debug("unmounted")
	return nil
}

func (h *Host) children(c *Component) []*Component {
	var out []*Component
	for _, o := range h.order {
		if o.parent == c {
			out = append(out, o)
		}
	}
	return out
}

func (h *Host) unmountAll() {
	for len(h.order) > 0 {
		c := h.order[len(h.order)-1]
		if err := h.Unmount(c); err != nil {
			h.logger.Warn("unmount failed", "tag", c.tag, "error", err)
			h.order = h.order[:len(h.order)-1]
		}
	}
}

// Find returns the mounted component with the given ID.
func (h *Host) Find(id uint64) (*Component, bool) {
	c, ok := h.components[id]
	return c, ok
}

// Components returns the mounted components in mount order.
func (h *Host) Components() []*Component {
	out := make([]*Component, len(h.order))
	copy(out, h.order)
	return out
}

// report logs err and forwards it to the error sink. c may be nil.
func (h *Host) report(c *Component, err error) {
	logger := h.logger
	if c != nil {
		logger = c.logger
	}
	logger.Error("component error", "error", err, "category", errors.CategoryOf(err))
	if h.sink != nil {
		h.sink.Report(c, err)
	}
}
