package component

import (
	"reflect"
	"sort"

	"github.com/vango-dev/quoteboard/internal/errors"
	"github.com/vango-dev/quoteboard/pkg/channel"
	"github.com/vango-dev/quoteboard/pkg/reactive"
)

// UseCell creates a state cell owned by c. It is disposed when c unmounts.
func UseCell[T any](c *Component, initial T) *reactive.Cell[T] {
	cell := reactive.NewCell(c.host.tracker, initial)
	c.cells = append(c.cells, cell)
	return cell
}

// propSlot is a named, externally settable cell.
type propSlot struct {
	typ      reflect.Type
	set      func(v any) (old any, changed bool, err error)
	get      func() any
	watchers []func(prev, next any)
}

// UseProp creates a prop cell owned by c, settable with SetProp.
// Declaring the same name twice panics.
func UseProp[T any](c *Component, name string, initial T) *reactive.Cell[T] {
	if _, exists := c.props[name]; exists {
		panic("component: prop " + name + " declared twice on " + c.tag)
	}
	cell := UseCell(c, initial)
	typ := reflect.TypeFor[T]()
	c.props[name] = &propSlot{
		typ: typ,
		set: func(v any) (any, bool, error) {
			tv, ok := v.(T)
			if !ok {
				if v != nil {
					return nil, false, errors.New("E403").WithComponent(c.tag).
						WithDetailf("prop %q wants %v, got %T", name, typ, v)
				}
				// nil resets interface, pointer and slice props.
				var zero T
				tv = zero
			}
			old := cell.Peek()
			before := cell.Version()
			cell.Set(tv)
			return old, cell.Version() != before, nil
		},
		get: func() any { return cell.Peek() },
	}
	return cell
}

// OnPropChange registers fn to run after the named prop changes through
// SetProp on a mounted component. Initial props don't trigger it.
func OnPropChange[T any](c *Component, name string, fn func(prev, next T)) {
	slot, ok := c.props[name]
	if !ok {
		panic("component: OnPropChange for undeclared prop " + name + " on " + c.tag)
	}
	slot.watchers = append(slot.watchers, func(prev, next any) {
		fn(as[T](prev), as[T](next))
	})
}

// as converts v to T, mapping nil to the zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

// SetProp sets a prop by name. The value must have the prop's type.
func (c *Component) SetProp(name string, v any) error {
	if c.state == Unmounted {
		return errors.New("E500").WithComponent(c.tag).WithDetailf("SetProp(%q) after unmount", name)
	}
	slot, ok := c.props[name]
	if !ok {
		return errors.New("E403").WithComponent(c.tag).WithDetailf("no prop %q", name)
	}
	old, changed, err := slot.set(v)
	if err != nil {
		return err
	}
	if changed && c.state != Constructed {
		now := slot.get()
		for _, w := range slot.watchers {
			c.safeCall("prop "+name+" watcher", func() { w(old, now) })
		}
	}
	return nil
}

// Prop returns the current value of a prop.
func (c *Component) Prop(name string) (any, bool) {
	slot, ok := c.props[name]
	if !ok {
		return nil, false
	}
	return slot.get(), true
}

// PropNames returns the declared prop names, sorted.
func (c *Component) PropNames() []string {
	names := make([]string, 0, len(c.props))
	for name := range c.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropType returns the type of a declared prop.
func (c *Component) PropType(name string) (reflect.Type, bool) {
	slot, ok := c.props[name]
	if !ok {
		return nil, false
	}
	return slot.typ, true
}

// Subscribe subscribes c to the named channel of its host. The
// subscription is cancelled when c unmounts.
func Subscribe[T any](c *Component, name string, scope channel.Scope, handler channel.Handler[T]) (*channel.Subscription, error) {
	ch, err := channel.Named[T](c.host.hub, name)
	if err != nil {
		return nil, err
	}
	sub := ch.Subscribe(scope, handler)
	c.subs = append(c.subs, sub)
	return sub, nil
}

// Publish publishes payload on the named channel with c as the origin.
func Publish[T any](c *Component, name string, payload T) error {
	return channel.Publish(c.host.hub, name, channel.Anchor(c), payload)
}

// Subscriptions returns the number of live channel subscriptions.
func (c *Component) Subscriptions() int {
	n := 0
	for _, s := range c.subs {
		if s.Active() {
			n++
		}
	}
	return n
}
