package node

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindFragment             // Grouping without wrapper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Node is one node of a rendered tree. Nodes must not be modified after
// construction.
type Node struct {
	Kind     Kind
	Tag      string             // Element tag name (e.g., "div")
	Attrs    map[string]string  // Element attributes
	Handlers map[string]Handler // Event name ("click") to handler
	Children []*Node
	Text     string // For KindText
}

// Event is a DOM event delivered to a Handler.
type Event struct {
	// Type is the event name without the "on" prefix ("click", "input").
	Type string

	// Value is the target's current value for input and submit events.
	Value string
}

// Handler handles an event raised on an element.
type Handler func(Event)

// Attr represents a single attribute. An Attr with an empty key is ignored,
// which lets helpers such as Disabled(false) drop out of a builder call.
type Attr struct {
	Key   string
	Value string
}

// On binds a handler to an event name.
type On struct {
	Event   string
	Handler Handler
}

// IsInteractive returns true if this node has event handlers.
func (n *Node) IsInteractive() bool {
	return n != nil && n.Kind == KindElement && len(n.Handlers) > 0
}

// Attr returns the value of an attribute and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var s string
	for _, c := range n.Children {
		s += c.TextContent()
	}
	return s
}

// Find returns the first node (depth-first, including n) that matches fn.
func (n *Node) Find(fn func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if fn(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(fn); found != nil {
			return found
		}
	}
	return nil
}

// FindTag returns the first element with the given tag.
func (n *Node) FindTag(tag string) *Node {
	return n.Find(func(c *Node) bool {
		return c.Kind == KindElement && c.Tag == tag
	})
}

// Equal reports whether two trees are structurally identical. Handlers are
// compared by event name only, since functions have no identity.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Tag != b.Tag || a.Text != b.Text {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) || len(a.Handlers) != len(b.Handlers) {
		return false
	}
	for k, v := range a.Attrs {
		if bv, ok := b.Attrs[k]; !ok || bv != v {
			return false
		}
	}
	for k := range a.Handlers {
		if _, ok := b.Handlers[k]; !ok {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
