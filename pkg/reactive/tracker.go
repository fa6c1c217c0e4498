package reactive

// Listener is notified when a cell it read changes.
type Listener interface {
	// ID returns a unique, stable identifier used for deduplication.
	ID() uint64

	// MarkDirty is called when a dependency changed.
	MarkDirty()
}

// Source is a dependency a listener can release.
type Source interface {
	Unsubscribe(l Listener)
}

// SourceCollector is implemented by listeners that want to know which
// sources they subscribed to, so they can release them before re-tracking.
type SourceCollector interface {
	AddSource(s Source)
}

// Tracker holds the reactive state for one logical thread: the listener
// currently tracking reads, batch depth, pending notifications and writes
// deferred until the current tracked pass ends.
type Tracker struct {
	// current is what's currently tracking dependencies.
	// nil means no tracking (reads don't create subscriptions).
	current Listener

	// depth counts nested Track calls.
	depth int

	// batchDepth tracks nested Batch() calls.
	batchDepth int

	// pending accumulates listeners to notify when a batch completes.
	pending []Listener

	// deferred are writes issued during a tracked pass.
	deferred []func()

	lastID uint64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// NextID returns a new identifier unique within this tracker.
func (t *Tracker) NextID() uint64 {
	t.lastID++
	return t.lastID
}

// Current returns the listener currently tracking reads, or nil.
func (t *Tracker) Current() Listener {
	if t == nil {
		return nil
	}
	return t.current
}

// Tracking reports whether a tracked pass is in progress.
func (t *Tracker) Tracking() bool {
	return t != nil && t.depth > 0
}

// Track runs fn with l as the current listener. Cells read inside fn
// subscribe l. Writes made inside fn are applied, batched, after the
// outermost Track returns, even if fn panics.
func (t *Tracker) Track(l Listener, fn func()) {
	old := t.current
	t.current = l
	t.depth++

	defer func() {
		t.current = old
		t.depth--
		if t.depth == 0 {
			t.applyDeferred()
		}
	}()

	fn()
}

// Untracked runs fn without tracking reads as dependencies.
func (t *Tracker) Untracked(fn func()) {
	old := t.current
	t.current = nil
	defer func() { t.current = old }()
	fn()
}

// Batch groups multiple cell updates into a single notification phase.
// Batches can be nested; notifications fire when the outermost completes.
//
//	tr.Batch(func() {
//	    price.Set(p)
//	    err.Set(nil)
//	    loading.Set(false)
//	})
//	// each subscribed listener is marked dirty once
func (t *Tracker) Batch(fn func()) {
	t.batchDepth++

	defer func() {
		t.batchDepth--
		if t.batchDepth == 0 {
			t.processPending()
		}
	}()

	fn()
}

// notify marks listeners dirty, or queues them while batching.
func (t *Tracker) notify(subs []Listener) {
	if t != nil && t.batchDepth > 0 {
		t.pending = append(t.pending, subs...)
		return
	}
	for _, l := range subs {
		l.MarkDirty()
	}
}

// processPending deduplicates and notifies all pending listeners.
func (t *Tracker) processPending() {
	for len(t.pending) > 0 {
		updates := t.pending
		t.pending = nil

		seen := make(map[uint64]bool, len(updates))
		for _, l := range updates {
			id := l.ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			l.MarkDirty()
		}
	}
}

func (t *Tracker) deferWrite(fn func()) {
	t.deferred = append(t.deferred, fn)
}

func (t *Tracker) applyDeferred() {
	if len(t.deferred) == 0 {
		return
	}
	writes := t.deferred
	t.deferred = nil
	t.Batch(func() {
		for _, w := range writes {
			w()
		}
	})
}
