package reactive

import "reflect"

// Cell is a reactive value container.
// Reading a Cell's value during a tracked pass subscribes the current
// listener to receive notifications when the value changes.
type Cell[T any] struct {
	id      uint64
	tracker *Tracker

	// value is the current cell value.
	value T

	// subs are the listeners subscribed to this cell, in subscription order.
	subs []Listener

	// equal decides whether a Set changes the value.
	// If nil, uses defaultEquals.
	equal func(T, T) bool

	// version counts effective changes.
	version uint64

	disposed bool
}

// NewCell creates a new cell with the given initial value. A nil tracker is
// allowed: reads are then never tracked.
func NewCell[T any](t *Tracker, initial T) *Cell[T] {
	c := &Cell[T]{
		tracker: t,
		value:   initial,
	}
	if t != nil {
		c.id = t.NextID()
	}
	return c
}

// ID returns the unique identifier for this cell.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

// Get returns the current value and subscribes the current listener.
func (c *Cell[T]) Get() T {
	if l := c.tracker.Current(); l != nil && !c.disposed {
		if c.Subscribe(l) {
			if sc, ok := l.(SourceCollector); ok {
				sc.AddSource(c)
			}
		}
	}
	return c.value
}

// Peek returns the current value without subscribing.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set updates the cell's value and notifies subscribers if the value
// changed. During a tracked pass the write is deferred until the pass ends.
// Set on a disposed cell is ignored.
func (c *Cell[T]) Set(value T) {
	if c.disposed {
		return
	}
	if c.tracker.Tracking() {
		c.tracker.deferWrite(func() { c.Set(value) })
		return
	}
	if c.equals(c.value, value) {
		return
	}
	c.value = value
	c.version++
	c.notify()
}

// Version returns the number of effective changes made to the cell.
func (c *Cell[T]) Version() uint64 {
	return c.version
}

// Update reads and updates the cell's value with the same semantics as Set.
func (c *Cell[T]) Update(fn func(T) T) {
	if c.disposed {
		return
	}
	if c.tracker.Tracking() {
		c.tracker.deferWrite(func() { c.Update(fn) })
		return
	}
	c.Set(fn(c.value))
}

// WithEquals returns the cell configured with a custom equality function.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// Subscribe adds a listener. Deduplicates by listener ID; returns false if
// the listener was already subscribed.
func (c *Cell[T]) Subscribe(l Listener) bool {
	if l == nil {
		return false
	}
	lid := l.ID()
	for _, existing := range c.subs {
		if existing.ID() == lid {
			return false
		}
	}
	c.subs = append(c.subs, l)
	return true
}

// Unsubscribe removes a listener, keeping the order of the others.
func (c *Cell[T]) Unsubscribe(l Listener) {
	if l == nil {
		return
	}
	lid := l.ID()
	for i, existing := range c.subs {
		if existing.ID() == lid {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of subscribed listeners.
func (c *Cell[T]) Subscribers() int {
	return len(c.subs)
}

// Dispose drops all subscribers and makes further writes no-ops.
func (c *Cell[T]) Dispose() {
	c.disposed = true
	c.subs = nil
}

// Disposed reports whether Dispose was called.
func (c *Cell[T]) Disposed() bool {
	return c.disposed
}

func (c *Cell[T]) notify() {
	if len(c.subs) == 0 {
		return
	}
	// Copy: listeners may unsubscribe while being notified.
	subs := make([]Listener, len(c.subs))
	copy(subs, c.subs)
	c.tracker.notify(subs)
}

// equals checks if two values are equal using the configured equality function.
func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals compares primitives by value and structured references
// (slices, maps, pointers, channels) by identity. Funcs are never equal.
// Non-comparable structs and arrays fall back to reflect.DeepEqual.
func defaultEquals[T any](a, b T) bool {
	// Switch on the static type: for interface-typed T the dynamic types
	// of a and b may differ.
	switch pa := any(&a).(type) {
	case *int:
		return *pa == *any(&b).(*int)
	case *int64:
		return *pa == *any(&b).(*int64)
	case *float64:
		return *pa == *any(&b).(*float64)
	case *string:
		return *pa == *any(&b).(*string)
	case *bool:
		return *pa == *any(&b).(*bool)
	}
	return sameValue(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

func sameValue(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		ea, eb := a.Elem(), b.Elem()
		if ea.Type() != eb.Type() {
			return false
		}
		return sameValue(ea, eb)
	case reflect.Slice:
		return a.Len() == b.Len() && a.Pointer() == b.Pointer()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Func:
		return a.IsNil() && b.IsNil()
	}
	if a.Comparable() {
		return a.Equal(b)
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}
