// Package component implements the component runtime: a state machine per
// component, a hook table keyed by transition, and a single-threaded Host
// that coalesces cell changes into one render pass per component per
// checkpoint.
//
// # Widgets
//
// A Factory builds a Widget for a freshly constructed Component. It
// declares the component's cells and props and registers hooks:
//
//	func NewCounter(c *component.Component) component.Widget {
//	    w := &Counter{count: component.UseCell(c, 0)}
//	    c.OnTransition(component.Mount, func(*component.Component) {
//	        w.count.Set(1)
//	    })
//	    return w
//	}
//
//	func (w *Counter) Render() *node.Node {
//	    return node.Button(node.OnClick(func() {
//	        w.count.Update(func(n int) int { return n + 1 })
//	    }), node.Textf("%d", w.count.Get()))
//	}
//
// # Threading
//
// Every cell write, render and channel delivery happens on the host loop
// (Host.Run). Other goroutines hand work over with Host.Dispatch or
// Host.Call. Async runs blocking work off the loop and settles it back on
// the loop as a single turn.
//
// # Checkpoints
//
// A turn runs one function in a batch and then reaches a checkpoint,
// where dirty components render once each, in the order they became
// dirty. Writes made while rendering are deferred and make the component
// dirty again for the next checkpoint.
package component
