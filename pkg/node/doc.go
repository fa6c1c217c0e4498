// Package node provides the immutable tree a component's render function
// produces.
//
// A Node is either an element (tag, attributes, event handlers, children),
// a text leaf or a fragment grouping children without a wrapper. Trees are
// built fresh on every render with the helpers in this package and are
// never mutated afterwards:
//
//	node.Div(node.Class("toolTip"),
//	    node.Slot(),
//	    node.Span(node.Class("icon"), node.OnClick(toggle), "?"),
//	    node.P(node.Class(textClass), text),
//	)
//
// Equal compares two trees structurally, ignoring handler identity, which is
// what render targets use to skip identical re-applications. HTML serializes
// a tree deterministically and tags interactive elements with a data-hid
// path so inbound browser events can be routed back with FindHandler.
package node
