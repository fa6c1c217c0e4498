// Package channel provides typed publish/subscribe channels for decoupled
// cross-component communication.
//
// Channels are owned by a Hub, which a component host creates and threads
// through its components; there is no process-wide registry.
//
//	selected, _ := channel.Named[string](hub, "symbol.selected")
//	sub := selected.Subscribe(channel.Global(), func(symbol string) error {
//	    return price.Load(symbol)
//	})
//	defer sub.Cancel()
//
//	selected.Publish(finder, "AAPL")
//
// # Delivery
//
// Publish invokes, synchronously and in subscription order, exactly the
// subscribers registered when it was called; late subscribers never see
// past payloads. A subscriber that returns an error or panics is reported
// to the hub's error handler and the remaining subscribers still run. The
// publisher never observes subscriber failures.
//
// # Scopes
//
// Global subscriptions receive every payload. Local subscriptions are
// anchored at a composition node and receive only payloads published from
// that node or one of its descendants.
//
// # Lifetime
//
// A hub forgets a channel when its last subscription is cancelled, so a
// channel lives as long as its longest-surviving subscriber.
package channel
