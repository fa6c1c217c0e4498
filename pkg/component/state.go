package component

import "github.com/vango-dev/quoteboard/internal/errors"

// State is a component lifecycle state.
type State uint8

const (
	Constructed State = iota
	Mounted
	Dirty
	Rendering
	Unmounted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case Mounted:
		return "mounted"
	case Dirty:
		return "dirty"
	case Rendering:
		return "rendering"
	case Unmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}

// Transition names an edge of the lifecycle. Hooks are keyed by it.
type Transition uint8

const (
	// Mount is Constructed -> Mounted.
	Mount Transition = iota
	// MarkedDirty is Mounted -> Dirty.
	MarkedDirty
	// Render is Mounted/Dirty -> Rendering.
	Render
	// Rendered is Rendering -> Mounted.
	Rendered
	// Unmount is Mounted/Dirty -> Unmounted.
	Unmount
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case Mount:
		return "mount"
	case MarkedDirty:
		return "dirty"
	case Render:
		return "render"
	case Rendered:
		return "rendered"
	case Unmount:
		return "unmount"
	default:
		return "unknown"
	}
}

// Hook runs on a lifecycle transition.
type Hook func(c *Component)

// edges is the transition table. A missing entry is an invalid transition.
var edges = map[State]map[State]Transition{
	Constructed: {Mounted: Mount},
	Mounted:     {Dirty: MarkedDirty, Rendering: Render, Unmounted: Unmount},
	Dirty:       {Rendering: Render, Unmounted: Unmount},
	Rendering:   {Mounted: Rendered},
}

// transitionFor returns the transition from one state to another.
func transitionFor(tag string, from, to State) (Transition, error) {
	t, ok := edges[from][to]
	if !ok {
		return 0, errors.New("E500").WithComponent(tag).WithDetailf("%s -> %s", from, to)
	}
	return t, nil
}
