// Package reactive provides the observable cells components keep their
// state in.
//
// A Cell holds one value. Reading it with Get while a Tracker is tracking a
// Listener (a component's render pass) subscribes that listener; a later Set
// to a different value marks every subscribed listener dirty. Setting an
// equal value is a no-op, so repeated identical assignments never cause
// render storms.
//
//	tr := reactive.NewTracker()
//	loading := reactive.NewCell(tr, false)
//	tr.Track(listener, func() { _ = loading.Get() })
//	loading.Set(true) // listener.MarkDirty()
//	loading.Set(true) // no-op
//
// # Render Consistency
//
// Writes issued while the tracker is inside a tracked pass are deferred
// until the outermost pass returns, so every read within one pass observes
// the values as of the start of that pass.
//
// # Batching
//
// Tracker.Batch coalesces notifications: listeners are deduplicated and
// notified once when the outermost batch completes.
//
// # Threading
//
// Cells and trackers are not safe for concurrent use. They belong to one
// logical thread (a component host loop); other goroutines hand work to
// that thread instead of touching cells directly.
package reactive
