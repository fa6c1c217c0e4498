package widgets

import (
	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/node"
	"github.com/vango-dev/quoteboard/pkg/reactive"
)

// ToolTip shows its text when the icon is clicked.
type ToolTip struct {
	text *reactive.Cell[string]
	show *reactive.Cell[bool]
}

// NewToolTip is the tool-tip factory.
func NewToolTip(c *component.Component) component.Widget {
	return &ToolTip{
		text: component.UseProp(c, "text", ""),
		show: component.UseCell(c, false),
	}
}

// Toggle flips the text visibility.
func (t *ToolTip) Toggle() {
	t.show.Update(func(v bool) bool { return !v })
}

// Render implements component.Widget.
func (t *ToolTip) Render() *node.Node {
	return node.El(TagToolTip,
		node.Div(node.Class("toolTip"),
			node.Slot(),
			node.Span(node.Class("icon"), node.OnClick(t.Toggle), "?"),
			node.P(node.Class("text"), node.ClassIf(t.show.Get(), "active"), t.text.Get()),
		),
	)
}
