package node

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// rootHID is the hydration path of a tree's root node.
const rootHID = "0"

// HTML renders a tree to an HTML string.
func HTML(n *Node) string {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = WriteHTML(&buf, n)
	return buf.String()
}

// WriteHTML streams a tree to w. Attributes are written in sorted order so
// identical trees always produce identical bytes. Interactive elements get
// data-hid (their path in the tree) and data-on (their event names).
func WriteHTML(w io.Writer, n *Node) error {
	return writeNode(w, n, rootHID)
}

func writeNode(w io.Writer, n *Node, hid string) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindText:
		_, err := io.WriteString(w, escapeHTML(n.Text))
		return err
	case KindFragment:
		return writeChildren(w, n, hid)
	case KindElement:
		return writeElement(w, n, hid)
	default:
		return fmt.Errorf("unknown node kind: %d", n.Kind)
	}
}

func writeChildren(w io.Writer, n *Node, hid string) error {
	for i, c := range n.Children {
		if err := writeNode(w, c, childHID(hid, i)); err != nil {
			return err
		}
	}
	return nil
}

func writeElement(w io.Writer, n *Node, hid string) error {
	if _, err := fmt.Fprintf(w, "<%s", n.Tag); err != nil {
		return err
	}

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := n.Attrs[k]
		var err error
		if v == "" {
			_, err = fmt.Fprintf(w, " %s", k)
		} else {
			_, err = fmt.Fprintf(w, ` %s="%s"`, k, escapeAttr(v))
		}
		if err != nil {
			return err
		}
	}

	if n.IsInteractive() {
		events := make([]string, 0, len(n.Handlers))
		for e := range n.Handlers {
			events = append(events, e)
		}
		sort.Strings(events)
		if _, err := fmt.Fprintf(w, ` data-hid="%s" data-on="%s"`, hid, strings.Join(events, " ")); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if IsVoidElement(n.Tag) {
		return nil
	}
	if err := writeChildren(w, n, hid); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>", n.Tag)
	return err
}

func childHID(parent string, i int) string {
	return parent + "." + strconv.Itoa(i)
}

// FindHandler resolves a data-hid path produced by WriteHTML back to the
// element's handler for event.
func FindHandler(root *Node, hid, event string) (Handler, bool) {
	n := Resolve(root, hid)
	if n == nil || n.Handlers == nil {
		return nil, false
	}
	h, ok := n.Handlers[event]
	return h, ok
}

// Resolve returns the node at a data-hid path, or nil.
func Resolve(root *Node, hid string) *Node {
	parts := strings.Split(hid, ".")
	if root == nil || len(parts) == 0 || parts[0] != rootHID {
		return nil
	}
	n := root
	for _, p := range parts[1:] {
		i, err := strconv.Atoi(p)
		if err != nil || i < 0 || i >= len(n.Children) {
			return nil
		}
		n = n.Children[i]
	}
	return n
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	return escape(s, false)
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// Newlines, carriage returns and tabs are escaped as well.
func escapeAttr(s string) string {
	return escape(s, true)
}

func escape(s string, attr bool) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n', '\r', '\t':
			if attr {
				buf.WriteString("&#")
				buf.WriteString(strconv.Itoa(int(r)))
				buf.WriteByte(';')
			} else {
				buf.WriteRune(r)
			}
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
