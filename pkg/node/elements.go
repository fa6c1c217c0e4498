package node

import (
	"fmt"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element. Arguments can be: nil, Attr, []Attr, On, *Node,
// []*Node or string (text child).
func El(tag string, args ...any) *Node {
	n := &Node{
		Kind: KindElement,
		Tag:  tag,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional children)
		case Attr:
			n.setAttr(v)
		case []Attr:
			for _, a := range v {
				n.setAttr(a)
			}
		case On:
			if v.Event != "" && v.Handler != nil {
				if n.Handlers == nil {
					n.Handlers = make(map[string]Handler)
				}
				n.Handlers[v.Event] = v.Handler
			}
		case *Node:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					n.Children = append(n.Children, c)
				}
			}
		case string:
			n.Children = append(n.Children, Text(v))
		default:
			panic(fmt.Sprintf("node: unsupported argument %T for <%s>", arg, tag))
		}
	}

	return n
}

func (n *Node) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	if a.Key == "class" {
		if existing, ok := n.Attrs["class"]; ok && existing != "" && a.Value != "" {
			n.Attrs["class"] = existing + " " + a.Value
			return
		}
	}
	n.Attrs[a.Key] = a.Value
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...*Node) *Node {
	n := &Node{Kind: KindFragment}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Map builds one node per item.
func Map[T any](items []T, fn func(T) *Node) []*Node {
	out := make([]*Node, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// Attributes

// A creates an arbitrary attribute.
func A(key, value string) Attr { return Attr{Key: key, Value: value} }

// Class sets the class attribute. Multiple Class args are joined; empty
// names are skipped.
func Class(names ...string) Attr {
	var parts []string
	for _, n := range names {
		if n != "" {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return Attr{}
	}
	return Attr{Key: "class", Value: strings.Join(parts, " ")}
}

// ClassIf sets name as a class when cond is true.
func ClassIf(cond bool, name string) Attr {
	if !cond {
		return Attr{}
	}
	return Class(name)
}

// ID sets the id attribute.
func ID(id string) Attr { return Attr{Key: "id", Value: id} }

// Type sets the type attribute.
func Type(t string) Attr { return Attr{Key: "type", Value: t} }

// Value sets the value attribute.
func Value(v string) Attr { return Attr{Key: "value", Value: v} }

// Href sets the href attribute.
func Href(url string) Attr { return Attr{Key: "href", Value: url} }

// BoolAttr sets a boolean attribute when on is true.
func BoolAttr(name string, on bool) Attr {
	if !on {
		return Attr{}
	}
	return Attr{Key: name, Value: ""}
}

// Disabled sets the disabled attribute when on is true.
func Disabled(on bool) Attr { return BoolAttr("disabled", on) }

// Events

// OnClick binds a click handler.
func OnClick(fn func()) On {
	return On{Event: "click", Handler: func(Event) { fn() }}
}

// OnInput binds an input handler receiving the input's current value.
func OnInput(fn func(value string)) On {
	return On{Event: "input", Handler: func(e Event) { fn(e.Value) }}
}

// OnSubmit binds a form submit handler.
func OnSubmit(fn func()) On {
	return On{Event: "submit", Handler: func(Event) { fn() }}
}

// Elements

func Div(args ...any) *Node     { return El("div", args...) }
func Span(args ...any) *Node    { return El("span", args...) }
func P(args ...any) *Node       { return El("p", args...) }
func H1(args ...any) *Node      { return El("h1", args...) }
func H2(args ...any) *Node      { return El("h2", args...) }
func Ul(args ...any) *Node      { return El("ul", args...) }
func Li(args ...any) *Node      { return El("li", args...) }
func Strong(args ...any) *Node  { return El("strong", args...) }
func Form(args ...any) *Node    { return El("form", args...) }
func Input(args ...any) *Node   { return El("input", args...) }
func Button(args ...any) *Node  { return El("button", args...) }
func Header(args ...any) *Node  { return El("header", args...) }
func Section(args ...any) *Node { return El("section", args...) }
func Main(args ...any) *Node    { return El("main", args...) }
func Aside(args ...any) *Node   { return El("aside", args...) }
func Link(args ...any) *Node    { return El("a", args...) }

// Slot marks where projected content is rendered.
func Slot() *Node { return El("slot") }
