package component

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/quoteboard/internal/errors"
	"github.com/vango-dev/quoteboard/pkg/channel"
	"github.com/vango-dev/quoteboard/pkg/node"
	"github.com/vango-dev/quoteboard/pkg/reactive"
)

type reported struct {
	c   *Component
	err error
}

func newTestHost(t *testing.T, opts ...Option) (*Host, *[]reported) {
	t.Helper()
	var got []reported
	opts = append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithErrorSink(ErrorSinkFunc(func(c *Component, err error) {
			got = append(got, reported{c, err})
		})),
	}, opts...)
	return NewHost(opts...), &got
}

// cellWidget renders the value of one int cell.
type cellWidget struct {
	value *reactive.Cell[int]
}

func (w *cellWidget) Render() *node.Node {
	return node.Span(node.Textf("%d", w.value.Get()))
}

func mountCell(t *testing.T, h *Host, target RenderTarget) (*Component, *cellWidget) {
	t.Helper()
	var w *cellWidget
	c, err := h.MountFactory("int-cell", func(c *Component) Widget {
		w = &cellWidget{value: UseCell(c, 0)}
		return w
	}, target)
	if err != nil {
		t.Fatalf("MountFactory: %v", err)
	}
	return c, w
}

func TestRendersCountDistinctTransitions(t *testing.T) {
	h, _ := newTestHost(t)
	c, w := mountCell(t, h, NewMemory())

	values := []int{1, 1, 2, 2, 2, 3, 1}
	for _, v := range values {
		h.Turn(func() { w.value.Set(v) })
	}

	// mount + 1, 2, 3, 1
	if got, want := c.Renders(), 5; got != want {
		t.Errorf("Renders = %d, want %d", got, want)
	}
}

func TestLoadingSetTwiceRendersOnce(t *testing.T) {
	tests := []struct {
		name      string
		sameTurn  bool
		wantAfter int
	}{
		{"separate turns", false, 2},
		{"same turn", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHost(t)
			var loading *reactive.Cell[bool]
			c, err := h.MountFactory("loading-test", func(c *Component) Widget {
				loading = UseCell(c, false)
				return WidgetFunc(func() *node.Node {
					if loading.Get() {
						return node.Text("loading")
					}
					return node.Text("idle")
				})
			}, NewMemory())
			if err != nil {
				t.Fatalf("MountFactory: %v", err)
			}

			if tt.sameTurn {
				h.Turn(func() {
					loading.Set(true)
					loading.Set(true)
				})
			} else {
				h.Turn(func() { loading.Set(true) })
				h.Turn(func() { loading.Set(true) })
			}

			if c.Renders() != tt.wantAfter {
				t.Errorf("Renders = %d, want %d", c.Renders(), tt.wantAfter)
			}
		})
	}
}

func TestWritesInOneTurnCoalesce(t *testing.T) {
	h, _ := newTestHost(t)
	var a, b *reactive.Cell[string]
	c, _ := h.MountFactory("pair-test", func(c *Component) Widget {
		a = UseCell(c, "")
		b = UseCell(c, "")
		return WidgetFunc(func() *node.Node {
			return node.Text(a.Get() + b.Get())
		})
	}, NewMemory())

	h.Turn(func() {
		a.Set("x")
		b.Set("y")
		a.Set("z")
	})

	if c.Renders() != 2 {
		t.Errorf("Renders = %d, want 2", c.Renders())
	}
	if got := c.LastTree().TextContent(); got != "zy" {
		t.Errorf("tree text = %q, want zy", got)
	}
}

func TestRenderNeverObservesItsOwnWrites(t *testing.T) {
	h, _ := newTestHost(t)
	var torn []int
	var a *reactive.Cell[int]
	c, _ := h.MountFactory("self-write", func(c *Component) Widget {
		a = UseCell(c, 0)
		return WidgetFunc(func() *node.Node {
			start := a.Get()
			if start < 3 {
				a.Set(start + 1)
			}
			if a.Get() != start || a.Peek() != start {
				torn = append(torn, start)
			}
			return node.Textf("%d", start)
		})
	}, NewMemory())

	if c.Renders() != 1 {
		t.Fatalf("Renders after mount = %d, want 1", c.Renders())
	}
	if c.State() != Dirty || h.Pending() != 1 {
		t.Fatalf("state = %s pending = %d, want dirty with one pending", c.State(), h.Pending())
	}

	for i := 2; i <= 4; i++ {
		h.Flush()
		if c.Renders() != i {
			t.Fatalf("Renders after flush = %d, want %d", c.Renders(), i)
		}
	}
	h.Flush()
	if c.Renders() != 4 {
		t.Errorf("Renders = %d, want 4 once the value settles", c.Renders())
	}
	if len(torn) > 0 {
		t.Errorf("renders observed their own writes at %v", torn)
	}
	if a.Peek() != 3 {
		t.Errorf("a = %d, want 3", a.Peek())
	}
}

func TestForceRenderIsIdempotent(t *testing.T) {
	h, _ := newTestHost(t)
	target := NewMemory()
	c, w := mountCell(t, h, target)
	h.Turn(func() { w.value.Set(7) })
	before := c.LastTree()

	h.Turn(c.ForceRender)

	if c.Renders() != 3 {
		t.Errorf("Renders = %d, want 3", c.Renders())
	}
	if !node.Equal(before, c.LastTree()) {
		t.Errorf("forced render changed tree: %s -> %s", node.HTML(before), node.HTML(c.LastTree()))
	}
	if target.Applies(c) != 3 || target.Changes(c) != 2 {
		t.Errorf("applies = %d changes = %d, want 3 and 2", target.Applies(c), target.Changes(c))
	}
}

func TestRenderPanicKeepsLastGoodTree(t *testing.T) {
	h, got := newTestHost(t)
	target := NewMemory()

	var bad *reactive.Cell[int]
	broken, _ := h.MountFactory("broken-widget", func(c *Component) Widget {
		bad = UseCell(c, 1)
		return WidgetFunc(func() *node.Node {
			v := bad.Get()
			if v == 2 {
				panic("cannot render two")
			}
			return node.Textf("ok %d", v)
		})
	}, target)
	sibling, sw := mountCell(t, h, target)

	h.Turn(func() {
		bad.Set(2)
		sw.value.Set(5)
	})

	if len(*got) != 1 {
		t.Fatalf("reported %d errors, want 1", len(*got))
	}
	if r := (*got)[0]; r.c != broken || errors.CodeOf(r.err) != "E100" {
		t.Errorf("reported %v for %v, want E100 for broken component", r.err, r.c)
	}
	if broken.State() != Mounted {
		t.Errorf("state = %s, want mounted", broken.State())
	}
	if text := target.Tree(broken).TextContent(); text != "ok 1" {
		t.Errorf("displayed %q, want last good tree", text)
	}
	if sibling.Renders() != 2 {
		t.Errorf("sibling Renders = %d, want 2", sibling.Renders())
	}

	h.Turn(func() { bad.Set(3) })
	if text := broken.LastTree().TextContent(); text != "ok 3" {
		t.Errorf("recovered tree = %q, want ok 3", text)
	}
}

func TestRenderPanicWithErrorKeepsChain(t *testing.T) {
	h, got := newTestHost(t)
	sentinel := stderrors.New("bad state")
	h.MountFactory("error-widget", func(c *Component) Widget {
		return WidgetFunc(func() *node.Node { panic(sentinel) })
	}, NewMemory())

	if len(*got) != 1 || !stderrors.Is((*got)[0].err, sentinel) {
		t.Fatalf("reported %v, want chain containing sentinel", *got)
	}
}

func TestTargetErrorIsReported(t *testing.T) {
	h, got := newTestHost(t)
	target := TargetFunc(func(*Component, *node.Node) error {
		return stderrors.New("detached")
	})
	c, _ := mountCell(t, h, target)

	if len(*got) != 1 || errors.CodeOf((*got)[0].err) != "E101" {
		t.Fatalf("reported %v, want E101", *got)
	}
	if c.Renders() != 0 || c.LastTree() != nil {
		t.Errorf("rejected tree was kept")
	}
}

func TestCheckpointRendersInDirtyOrder(t *testing.T) {
	h, _ := newTestHost(t)
	var order []string
	mount := func(name string) *reactive.Cell[int] {
		var cell *reactive.Cell[int]
		h.MountFactory("order-"+name, func(c *Component) Widget {
			cell = UseCell(c, 0)
			return WidgetFunc(func() *node.Node {
				order = append(order, name)
				return node.Textf("%d", cell.Get())
			})
		}, NewMemory())
		return cell
	}
	a := mount("a")
	b := mount("b")
	cc := mount("c")
	order = nil

	h.Turn(func() {
		cc.Set(1)
		a.Set(1)
		b.Set(1)
		cc.Set(2)
	})

	if got := strings.Join(order, ","); got != "c,a,b" {
		t.Errorf("render order = %s, want c,a,b", got)
	}
}

func TestMountHookWritesDoNotRerender(t *testing.T) {
	h, _ := newTestHost(t)
	var w *cellWidget
	c, _ := h.MountFactory("mount-write", func(c *Component) Widget {
		w = &cellWidget{value: UseCell(c, 0)}
		c.OnMount(func() { w.value.Set(42) })
		return w
	}, NewMemory())

	if c.Renders() != 1 {
		t.Errorf("Renders = %d, want 1", c.Renders())
	}
	if c.State() != Mounted {
		t.Errorf("state = %s, want mounted", c.State())
	}
	if text := c.LastTree().TextContent(); text != "42" {
		t.Errorf("first render = %q, want 42", text)
	}
}

func TestTransitionHooks(t *testing.T) {
	h, _ := newTestHost(t)
	var seen []string
	var w *cellWidget
	c, _ := h.MountFactory("hooked", func(c *Component) Widget {
		w = &cellWidget{value: UseCell(c, 0)}
		for _, tr := range []Transition{Mount, MarkedDirty, Render, Rendered, Unmount} {
			c.OnTransition(tr, func(*Component) { seen = append(seen, tr.String()) })
		}
		return w
	}, NewMemory())

	h.Turn(func() { w.value.Set(1) })
	if err := h.Unmount(c); err != nil {
		t.Fatalf("Unmount: %v", err)
	}

	want := "mount,render,rendered,dirty,render,rendered,unmount"
	if got := strings.Join(seen, ","); got != want {
		t.Errorf("transitions = %s, want %s", got, want)
	}
}

func TestHookPanicIsIsolated(t *testing.T) {
	h, got := newTestHost(t)
	c, err := h.MountFactory("bad-hook", func(c *Component) Widget {
		c.OnMount(func() { panic("hook") })
		return WidgetFunc(func() *node.Node { return node.Text("fine") })
	}, NewMemory())
	if err != nil {
		t.Fatalf("MountFactory: %v", err)
	}
	if c.Renders() != 1 {
		t.Errorf("Renders = %d, want 1", c.Renders())
	}
	if len(*got) != 1 || errors.CodeOf((*got)[0].err) != "E502" {
		t.Errorf("reported %v, want E502", *got)
	}
}

func TestUnmountReleasesEverything(t *testing.T) {
	h, _ := newTestHost(t)
	target := NewMemory()
	var w *cellWidget
	received := 0
	c, _ := h.MountFactory("leaver", func(c *Component) Widget {
		w = &cellWidget{value: UseCell(c, 0)}
		c.OnMount(func() {
			Subscribe(c, "pings", channel.Global(), func(int) error {
				received++
				return nil
			})
		})
		return w
	}, target)

	if c.Subscriptions() != 1 || w.value.Subscribers() != 1 {
		t.Fatalf("subscriptions = %d cell subscribers = %d, want 1 and 1",
			c.Subscriptions(), w.value.Subscribers())
	}

	if err := h.Unmount(c); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if c.Subscriptions() != 0 || w.value.Subscribers() != 0 {
		t.Errorf("subscriptions survived unmount")
	}
	if h.Hub().Len() != 0 {
		t.Errorf("hub kept %d channels", h.Hub().Len())
	}
	if target.Tree(c) != nil {
		t.Errorf("target kept tree after unmount")
	}
	if err := c.Context().Err(); err == nil {
		t.Errorf("component context not cancelled")
	}

	h.Turn(func() {
		w.value.Set(9)
		channel.Publish(h.Hub(), "pings", nil, 1)
	})
	if c.Renders() != 1 || received != 0 {
		t.Errorf("unmounted component reacted: renders = %d received = %d", c.Renders(), received)
	}

	if err := h.Unmount(c); errors.CodeOf(err) != "E500" {
		t.Errorf("second Unmount = %v, want E500", err)
	}
}

func TestUnmountDropsPendingRender(t *testing.T) {
	h, _ := newTestHost(t)
	c, w := mountCell(t, h, NewMemory())

	w.value.Set(1)
	if c.State() != Dirty {
		t.Fatalf("state = %s, want dirty", c.State())
	}
	h.Unmount(c)
	h.Flush()

	if c.Renders() != 1 {
		t.Errorf("Renders = %d, want 1", c.Renders())
	}
}

func TestUnmountCascadesToChildren(t *testing.T) {
	h, _ := newTestHost(t)
	parent, _ := mountCell(t, h, NewMemory())
	child, err := h.MountFactory("child-cell", func(c *Component) Widget {
		return WidgetFunc(func() *node.Node { return node.Text("child") })
	}, NewMemory(), WithParent(parent))
	if err != nil {
		t.Fatalf("MountFactory: %v", err)
	}

	h.Unmount(parent)
	if child.State() != Unmounted {
		t.Errorf("child state = %s, want unmounted", child.State())
	}
	if len(h.Components()) != 0 {
		t.Errorf("host still holds %d components", len(h.Components()))
	}
}

func TestLocalSubscriptionSeesChildPublishes(t *testing.T) {
	h, _ := newTestHost(t)
	var got []string
	parent, _ := h.MountFactory("list-parent", func(c *Component) Widget {
		c.OnMount(func() {
			Subscribe(c, "picked", channel.Local(c), func(s string) error {
				got = append(got, s)
				return nil
			})
		})
		return WidgetFunc(func() *node.Node { return node.Text("") })
	}, NewMemory())

	leaf := func(opts ...MountOption) *Component {
		c, err := h.MountFactory("list-leaf", func(c *Component) Widget {
			return WidgetFunc(func() *node.Node { return node.Text("") })
		}, NewMemory(), opts...)
		if err != nil {
			t.Fatalf("MountFactory: %v", err)
		}
		return c
	}
	child := leaf(WithParent(parent))
	stranger := leaf()

	h.Turn(func() {
		Publish(child, "picked", "from child")
		Publish(stranger, "picked", "from stranger")
		Publish(parent, "picked", "from parent")
	})

	if strings.Join(got, "|") != "from child|from parent" {
		t.Errorf("local subscriber got %q", got)
	}
}

func TestProps(t *testing.T) {
	h, _ := newTestHost(t)
	var changes []string
	var symbol *reactive.Cell[string]
	c, err := h.Mount("unknown-tag", NewMemory())
	if errors.CodeOf(err) != "E402" {
		t.Fatalf("Mount unknown = %v, want E402", err)
	}

	c, err = h.MountFactory("prop-test", func(c *Component) Widget {
		symbol = UseProp(c, "symbol", "")
		OnPropChange(c, "symbol", func(prev, next string) {
			changes = append(changes, prev+">"+next)
		})
		return WidgetFunc(func() *node.Node { return node.Text(symbol.Get()) })
	}, NewMemory(), WithProps(map[string]any{"symbol": "MSFT"}))
	if err != nil {
		t.Fatalf("MountFactory: %v", err)
	}
	if symbol.Peek() != "MSFT" || len(changes) != 0 {
		t.Fatalf("initial prop = %q changes = %v", symbol.Peek(), changes)
	}

	h.Turn(func() {
		if err := c.SetProp("symbol", "AAPL"); err != nil {
			t.Errorf("SetProp: %v", err)
		}
		c.SetProp("symbol", "AAPL")
	})
	if strings.Join(changes, ",") != "MSFT>AAPL" {
		t.Errorf("changes = %v, want [MSFT>AAPL]", changes)
	}
	if c.LastTree().TextContent() != "AAPL" {
		t.Errorf("tree = %q, want AAPL", c.LastTree().TextContent())
	}

	if err := c.SetProp("symbol", 42); errors.CodeOf(err) != "E403" {
		t.Errorf("wrong type = %v, want E403", err)
	}
	if err := c.SetProp("price", "1"); errors.CodeOf(err) != "E403" {
		t.Errorf("unknown prop = %v, want E403", err)
	}
	if names := c.PropNames(); len(names) != 1 || names[0] != "symbol" {
		t.Errorf("PropNames = %v", names)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	f := func(c *Component) Widget { return WidgetFunc(func() *node.Node { return nil }) }

	tests := []struct {
		tag  string
		code string
	}{
		{"stock-price", ""},
		{"stock-price", "E401"},
		{"stockprice", "E400"},
		{"Stock-Price", "E400"},
		{"side-drawer", ""},
	}
	for _, tt := range tests {
		err := r.Register(tt.tag, f)
		if got := errors.CodeOf(err); got != tt.code {
			t.Errorf("Register(%q) code = %q, want %q", tt.tag, got, tt.code)
		}
	}
	if tags := r.Tags(); strings.Join(tags, ",") != "side-drawer,stock-price" {
		t.Errorf("Tags = %v", tags)
	}
	if _, err := r.Lookup("tool-tip"); errors.CodeOf(err) != "E402" {
		t.Errorf("Lookup unknown = %v, want E402", err)
	}
}

func TestDispatchQueueFull(t *testing.T) {
	h, _ := newTestHost(t, WithMaxQueue(1))
	if !h.Dispatch(func() {}) {
		t.Fatal("first Dispatch rejected")
	}
	if h.Dispatch(func() {}) {
		t.Error("Dispatch accepted past capacity")
	}
	h.Close()
	if h.Dispatch(func() {}) {
		t.Error("Dispatch accepted after Close")
	}
	if err := h.Call(func() {}); errors.CodeOf(err) != "E501" {
		t.Errorf("Call after Close = %v, want E501", err)
	}
}

func startHost(t *testing.T, opts ...Option) (*Host, *[]reported) {
	t.Helper()
	h, got := newTestHost(t, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return h, got
}

func waitTask(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not settle")
	}
}

type lookupWidget struct {
	price   *reactive.Cell[int]
	err     *reactive.Cell[error]
	loading *reactive.Cell[bool]
}

func (w *lookupWidget) Render() *node.Node {
	return node.Textf("%d %v %v", w.price.Get(), w.err.Get(), w.loading.Get())
}

func mountLookup(t *testing.T, h *Host) (*Component, *lookupWidget) {
	t.Helper()
	var (
		c   *Component
		w   *lookupWidget
		err error
	)
	callErr := h.Call(func() {
		c, err = h.MountFactory("lookup-test", func(c *Component) Widget {
			w = &lookupWidget{
				price:   UseCell(c, 0),
				err:     UseCell[error](c, nil),
				loading: UseCell(c, false),
			}
			return w
		}, NewMemory())
	})
	if callErr != nil || err != nil {
		t.Fatalf("mount: %v %v", callErr, err)
	}
	return c, w
}

func TestAsyncSettlementIsOneRender(t *testing.T) {
	h, _ := startHost(t)
	c, w := mountLookup(t, h)

	var task *Task
	h.Call(func() {
		w.loading.Set(true)
		task = Async(c, func(context.Context) (int, error) {
			return 12, nil
		}, func(v int, err error) {
			w.price.Set(v)
			w.err.Set(err)
			w.loading.Set(false)
		})
	})
	waitTask(t, task)

	var renders int
	var text string
	h.Call(func() {
		renders = c.Renders()
		text = c.LastTree().TextContent()
	})
	// mount, loading, settlement
	if renders != 3 {
		t.Errorf("Renders = %d, want 3", renders)
	}
	if text != "12 <nil> false" {
		t.Errorf("tree = %q", text)
	}
}

func TestAsyncAfterUnmountIsIgnored(t *testing.T) {
	h, got := startHost(t)
	c, w := mountLookup(t, h)

	release := make(chan struct{})
	settled := false
	var task *Task
	h.Call(func() {
		task = Async(c, func(context.Context) (int, error) {
			<-release
			return 99, nil
		}, func(v int, err error) {
			settled = true
			w.price.Set(v)
		})
	})
	h.Call(func() {
		if err := h.Unmount(c); err != nil {
			t.Errorf("Unmount: %v", err)
		}
	})
	close(release)
	waitTask(t, task)

	h.Call(func() {
		if settled {
			t.Error("settle ran after unmount")
		}
		if w.price.Peek() != 0 {
			t.Errorf("price = %d, want 0", w.price.Peek())
		}
	})
	h.Call(func() {
		if len(*got) != 0 {
			t.Errorf("reported %v", *got)
		}
	})
}

func TestAsyncCancelSkipsSettle(t *testing.T) {
	h, _ := startHost(t)
	c, _ := mountLookup(t, h)

	settled := false
	var task *Task
	h.Call(func() {
		task = Async(c, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		}, func(int, error) { settled = true })
		task.Cancel()
		task.Cancel()
	})
	waitTask(t, task)
	h.Call(func() {
		if settled {
			t.Error("cancelled task settled")
		}
	})
}

func TestAsyncSettlementWaitsForQueueRoom(t *testing.T) {
	h, _ := newTestHost(t, WithMaxQueue(1))
	var w *lookupWidget
	c, err := h.MountFactory("lookup-test", func(c *Component) Widget {
		w = &lookupWidget{
			price:   UseCell(c, 0),
			err:     UseCell[error](c, nil),
			loading: UseCell(c, false),
		}
		return w
	}, NewMemory())
	if err != nil {
		t.Fatalf("MountFactory: %v", err)
	}

	release := make(chan struct{})
	var task *Task
	h.Turn(func() {
		w.loading.Set(true)
		task = Async(c, func(context.Context) (int, error) {
			<-release
			return 7, nil
		}, func(v int, err error) {
			w.price.Set(v)
			w.err.Set(err)
			w.loading.Set(false)
		})
	})

	if !h.Dispatch(func() {}) {
		t.Fatal("queue should have room for one callback")
	}
	if h.Dispatch(func() {}) {
		t.Fatal("queue should be full")
	}
	close(release)
	// Let the settlement reach the full queue before the loop starts.
	time.Sleep(20 * time.Millisecond)
	select {
	case <-task.Done():
		t.Fatal("settlement discarded on a full queue")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	defer func() {
		cancel()
		<-stopped
	}()
	waitTask(t, task)

	var text string
	if err := h.Call(func() { text = c.LastTree().TextContent() }); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if text != "7 <nil> false" {
		t.Errorf("tree = %q, want settled state", text)
	}
}

func TestAsyncTimeout(t *testing.T) {
	h, _ := startHost(t, WithAsyncTimeout(20*time.Millisecond))
	c, _ := mountLookup(t, h)

	var settledErr error
	var task *Task
	h.Call(func() {
		task = Async(c, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		}, func(_ int, err error) { settledErr = err })
	})
	waitTask(t, task)

	h.Call(func() {
		if errors.CodeOf(settledErr) != "E202" {
			t.Errorf("settled with %v, want E202", settledErr)
		}
		if !stderrors.Is(settledErr, context.DeadlineExceeded) {
			t.Errorf("timeout error lost its cause: %v", settledErr)
		}
	})
}
