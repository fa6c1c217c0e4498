package channel

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"

	"github.com/vango-dev/quoteboard/internal/errors"
	"github.com/vango-dev/quoteboard/pkg/telemetry"
)

// Handler receives a channel payload. A returned error is reported and
// isolated like a panic.
type Handler[T any] func(payload T) error

// Hub owns named channels.
type Hub struct {
	channels map[string]hubEntry
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	onError  func(error)
	lastID   uint64
}

type hubEntry interface {
	payloadType() reflect.Type
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithMetrics sets the metrics deliveries are recorded on.
func WithMetrics(m *telemetry.Metrics) HubOption {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithErrorHandler sets the function subscriber failures are reported to.
func WithErrorHandler(fn func(error)) HubOption {
	return func(h *Hub) {
		h.onError = fn
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		channels: make(map[string]hubEntry),
		logger:   slog.Default().With("component", "channel"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Len returns the number of live channels.
func (h *Hub) Len() int {
	return len(h.channels)
}

// Named returns the channel registered under name, creating it if needed.
// It fails if the name is in use with a different payload type.
func Named[T any](h *Hub, name string) (*Channel[T], error) {
	if existing, ok := h.channels[name]; ok {
		ch, ok := existing.(*Channel[T])
		if !ok {
			return nil, mismatch[T](name, existing)
		}
		return ch, nil
	}
	ch := &Channel[T]{hub: h, name: name}
	h.channels[name] = ch
	return ch, nil
}

// Publish delivers payload on the named channel if it exists. A missing
// channel has no subscribers, so nothing is delivered and no channel is
// created. The only error is a payload type mismatch.
func Publish[T any](h *Hub, name string, origin Anchor, payload T) error {
	existing, ok := h.channels[name]
	if !ok {
		return nil
	}
	ch, ok := existing.(*Channel[T])
	if !ok {
		return mismatch[T](name, existing)
	}
	ch.Publish(origin, payload)
	return nil
}

func mismatch[T any](name string, existing hubEntry) error {
	return errors.New("E404").WithDetailf("channel %q carries %v, not %v",
		name, existing.payloadType(), reflect.TypeFor[T]())
}

func (h *Hub) nextID() uint64 {
	h.lastID++
	return h.lastID
}

func (h *Hub) report(err error) {
	h.logger.Warn("subscriber failed", "error", err)
	if h.onError != nil {
		h.onError(err)
	}
}

// Channel is a typed publish/subscribe bus.
type Channel[T any] struct {
	hub  *Hub
	name string
	subs []*subscriber[T]
}

type subscriber[T any] struct {
	sub     *Subscription
	handler Handler[T]
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id        uint64
	channel   string
	scope     Scope
	cancel    func()
	cancelled bool
}

// ID returns the subscription identifier.
func (s *Subscription) ID() uint64 { return s.id }

// Channel returns the name of the channel subscribed to.
func (s *Subscription) Channel() string { return s.channel }

// Scope returns the subscription scope.
func (s *Subscription) Scope() Scope { return s.scope }

// Active reports whether the subscription has not been cancelled.
func (s *Subscription) Active() bool { return s != nil && !s.cancelled }

// Cancel removes the subscription. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Name returns the channel name.
func (c *Channel[T]) Name() string { return c.name }

// Len returns the number of subscribers.
func (c *Channel[T]) Len() int { return len(c.subs) }

func (c *Channel[T]) payloadType() reflect.Type { return reflect.TypeFor[T]() }

// Subscribe registers handler with the given scope.
func (c *Channel[T]) Subscribe(scope Scope, handler Handler[T]) *Subscription {
	// A channel the hub forgot is re-registered, or its replacement is used.
	if existing, ok := c.hub.channels[c.name]; !ok {
		c.hub.channels[c.name] = c
	} else if existing != hubEntry(c) {
		if other, ok := existing.(*Channel[T]); ok {
			return other.Subscribe(scope, handler)
		}
		c.hub.report(mismatch[T](c.name, existing))
		return &Subscription{channel: c.name, scope: scope, cancelled: true}
	}

	sub := &Subscription{
		id:      c.hub.nextID(),
		channel: c.name,
		scope:   scope,
	}
	sub.cancel = func() { c.remove(sub) }
	c.subs = append(c.subs, &subscriber[T]{sub: sub, handler: handler})
	return sub
}

// Unsubscribe cancels sub. It is idempotent.
func (c *Channel[T]) Unsubscribe(sub *Subscription) {
	sub.Cancel()
}

func (c *Channel[T]) remove(sub *Subscription) {
	for i, s := range c.subs {
		if s.sub == sub {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			break
		}
	}
	if len(c.subs) == 0 {
		if existing, ok := c.hub.channels[c.name]; ok && existing == hubEntry(c) {
			delete(c.hub.channels, c.name)
		}
	}
}

// Publish delivers payload from origin to every subscriber registered at
// the time of the call whose scope accepts origin. A nil origin reaches
// global subscribers only. It returns the number of subscribers invoked.
func (c *Channel[T]) Publish(origin Anchor, payload T) int {
	// Snapshot: subscribers added or removed during delivery don't change
	// who receives this payload.
	subs := make([]*subscriber[T], len(c.subs))
	copy(subs, c.subs)

	delivered := 0
	for _, s := range subs {
		if !s.sub.scope.accepts(origin) {
			continue
		}
		delivered++
		err := c.deliver(s, payload)
		c.hub.metrics.RecordDelivery(c.name, err)
		if err != nil {
			c.hub.report(errors.New("E300").
				WithDetailf("channel %q, subscription %d", c.name, s.sub.id).
				Wrap(err))
		}
	}
	return delivered
}

func (c *Channel[T]) deliver(s *subscriber[T], payload T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.hub.logger.Error("subscriber panic",
				"channel", c.name,
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.handler(payload)
}
