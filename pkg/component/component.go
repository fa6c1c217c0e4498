package component

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"

	"github.com/vango-dev/quoteboard/internal/errors"
	"github.com/vango-dev/quoteboard/pkg/channel"
	"github.com/vango-dev/quoteboard/pkg/node"
	"github.com/vango-dev/quoteboard/pkg/reactive"
	"github.com/vango-dev/quoteboard/pkg/telemetry"
)

// Widget is the interface for renderable components.
type Widget interface {
	// Render returns the node tree for the current cell values. It may
	// panic; a panic with an error value keeps that error in the chain
	// reported to the ErrorSink.
	Render() *node.Node
}

// WidgetFunc wraps a render function as a Widget.
type WidgetFunc func() *node.Node

// Render calls the wrapped function.
func (f WidgetFunc) Render() *node.Node {
	return f()
}

// Factory builds the widget of a newly constructed component.
type Factory func(c *Component) Widget

// disposer is a cell owned by a component.
type disposer interface {
	Dispose()
}

// Component is a mounted widget with its cells, props, subscriptions and
// lifecycle state. All methods must be called on the host loop.
type Component struct {
	id     uint64
	tag    string
	host   *Host
	parent *Component
	target RenderTarget
	widget Widget
	logger *slog.Logger

	state State

	// mounting suppresses dirty marks while Mount hooks run.
	mounting bool

	// rerender is set when the component is marked dirty mid-render.
	rerender bool

	cells   []disposer
	props   map[string]*propSlot
	sources []reactive.Source
	subs    []*channel.Subscription
	hooks   map[Transition][]Hook

	ctx    context.Context
	cancel context.CancelFunc

	lastTree *node.Node
	renders  int
}

var (
	_ reactive.Listener        = (*Component)(nil)
	_ reactive.SourceCollector = (*Component)(nil)
	_ channel.Anchor           = (*Component)(nil)
)

func newComponent(h *Host, tag string, parent *Component, target RenderTarget) *Component {
	id := h.tracker.NextID()
	ctx, cancel := context.WithCancel(context.Background())
	return &Component{
		id:     id,
		tag:    tag,
		host:   h,
		parent: parent,
		target: target,
		logger: h.logger.With("tag", tag, "component_id", id),
		props:  make(map[string]*propSlot),
		hooks:  make(map[Transition][]Hook),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the component identifier, unique within its host.
func (c *Component) ID() uint64 { return c.id }

// Key returns the ID as a string, for wire formats and logs.
func (c *Component) Key() string { return strconv.FormatUint(c.id, 10) }

// Tag returns the tag the component was mounted under.
func (c *Component) Tag() string { return c.tag }

// State returns the lifecycle state.
func (c *Component) State() State { return c.state }

// Host returns the owning host.
func (c *Component) Host() *Host { return c.host }

// Parent returns the parent component, or nil.
func (c *Component) Parent() *Component { return c.parent }

// Widget returns the component's widget.
func (c *Component) Widget() Widget { return c.widget }

// Logger returns a logger tagged with the component.
func (c *Component) Logger() *slog.Logger { return c.logger }

// Context is cancelled when the component unmounts.
func (c *Component) Context() context.Context { return c.ctx }

// LastTree returns the last successfully rendered tree.
func (c *Component) LastTree() *node.Node { return c.lastTree }

// Renders returns the number of successful render passes.
func (c *Component) Renders() int { return c.renders }

// AnchorID implements channel.Anchor.
func (c *Component) AnchorID() uint64 { return c.id }

// AnchorParent implements channel.Anchor.
func (c *Component) AnchorParent() channel.Anchor {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

// OnTransition registers a hook for a lifecycle transition. Hooks run in
// registration order.
func (c *Component) OnTransition(t Transition, hook Hook) {
	c.hooks[t] = append(c.hooks[t], hook)
}

// OnMount is shorthand for OnTransition(Mount, ...).
func (c *Component) OnMount(fn func()) {
	c.OnTransition(Mount, func(*Component) { fn() })
}

// OnUnmount is shorthand for OnTransition(Unmount, ...).
func (c *Component) OnUnmount(fn func()) {
	c.OnTransition(Unmount, func(*Component) { fn() })
}

// MarkDirty implements reactive.Listener.
func (c *Component) MarkDirty() {
	switch c.state {
	case Mounted:
		if c.mounting {
			return
		}
		if c.setState(Dirty) == nil {
			c.host.schedule(c)
		}
	case Rendering:
		c.rerender = true
	}
}

// ForceRender schedules a render pass without a cell change.
func (c *Component) ForceRender() {
	c.MarkDirty()
}

// AddSource implements reactive.SourceCollector.
func (c *Component) AddSource(s reactive.Source) {
	c.sources = append(c.sources, s)
}

func (c *Component) releaseSources() {
	for _, s := range c.sources {
		s.Unsubscribe(c)
	}
	c.sources = nil
}

// setState moves the component to a new state and runs the hooks of the
// transition.
func (c *Component) setState(to State) error {
	t, err := transitionFor(c.tag, c.state, to)
	if err != nil {
		return err
	}
	c.state = to
	c.runHooks(t)
	return nil
}

func (c *Component) runHooks(t Transition) {
	for _, hook := range c.hooks[t] {
		c.safeCall(t.String()+" hook", func() { hook(c) })
	}
}

// safeCall runs a hook or watcher, recovering panics so one callback
// can't stop the transition.
func (c *Component) safeCall(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("callback panic",
				"callback", what,
				"panic", r,
				"stack", string(debug.Stack()))
			c.host.report(c, errors.New("E502").
				WithComponent(c.tag).
				WithDetail(what).
				Wrap(panicError(r)))
		}
	}()
	fn()
}

// render runs one render pass. Render panics and target failures leave
// the last good tree in place.
func (c *Component) render() {
	if err := c.setState(Rendering); err != nil {
		c.host.report(c, err)
		return
	}

	_, span := c.host.telemetry.StartRender(c.ctx, c.tag, c.Key())
	start := c.host.now()

	c.releaseSources()
	tree, err := c.renderTracked()
	if err == nil {
		if applyErr := c.target.Apply(c, tree); applyErr != nil {
			err = errors.New("E101").WithComponent(c.tag).Wrap(applyErr)
		}
	}
	if err == nil {
		c.lastTree = tree
		c.renders++
	} else {
		c.host.report(c, err)
	}

	c.host.telemetry.M().RecordRender(c.tag, c.host.now().Sub(start).Seconds(), err)
	telemetry.EndSpan(span, err)

	c.setState(Mounted)
	if c.rerender {
		c.rerender = false
		c.MarkDirty()
	}
}

func (c *Component) renderTracked() (tree *node.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("render panic",
				"panic", r,
				"stack", string(debug.Stack()))
			err = errors.New("E100").WithComponent(c.tag).Wrap(panicError(r))
		}
	}()
	c.host.tracker.Track(c, func() {
		tree = c.widget.Render()
	})
	if tree == nil {
		tree = node.Fragment()
	}
	return tree, nil
}

// teardown releases everything the component holds. The caller has
// already moved it to Unmounted.
func (c *Component) teardown() {
	c.cancel()
	for _, sub := range c.subs {
		sub.Cancel()
	}
	c.subs = nil
	c.releaseSources()
	for _, cell := range c.cells {
		cell.Dispose()
	}
	if d, ok := c.target.(Detacher); ok {
		d.Detach(c)
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
