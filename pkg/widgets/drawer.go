package widgets

import (
	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/node"
	"github.com/vango-dev/quoteboard/pkg/reactive"
)

// SideDrawer is a slide-out drawer. The open prop is reflected on the
// host element; closing happens from inside, opening from outside.
type SideDrawer struct {
	title       *reactive.Cell[string]
	open        *reactive.Cell[bool]
	showContact *reactive.Cell[bool]
}

// NewSideDrawer returns the side-drawer factory. title is the default
// heading.
func NewSideDrawer(title string) component.Factory {
	return func(c *component.Component) component.Widget {
		return &SideDrawer{
			title:       component.UseProp(c, "title", title),
			open:        component.UseProp(c, "open", false),
			showContact: component.UseCell(c, false),
		}
	}
}

// Open opens the drawer.
func (d *SideDrawer) Open() {
	d.open.Set(true)
}

// Close closes the drawer.
func (d *SideDrawer) Close() {
	d.open.Set(false)
}

// IsOpen reports whether the drawer is open.
func (d *SideDrawer) IsOpen() bool {
	return d.open.Peek()
}

func (d *SideDrawer) showTab(contact bool) {
	d.showContact.Set(contact)
}

// Render implements component.Widget.
func (d *SideDrawer) Render() *node.Node {
	contact := d.showContact.Get()

	content := node.Slot()
	if contact {
		content = node.Div(node.ID("contactInfo"),
			node.H2("Contact Information"),
			node.P("You can reach us via phone or email."),
			node.Ul(
				node.Li("Phone: 49802354545"),
				node.Li("Email: ", node.Link(node.Href("mailto:dummy@dummy.com"), "dummy@dummy.com")),
			),
		)
	}

	return node.El(TagSideDrawer, node.BoolAttr("open", d.open.Get()),
		node.Div(node.Class("backdrop"), node.OnClick(d.Close)),
		node.Div(
			node.Aside(
				node.Header(
					node.H1(d.title.Get()),
					node.Button(node.Class("close"), node.OnClick(d.Close), "X"),
				),
				node.Section(node.ID("tabs"),
					node.Button(node.ClassIf(!contact, "active"),
						node.OnClick(func() { d.showTab(false) }), "Navigation"),
					node.Button(node.ClassIf(contact, "active"),
						node.OnClick(func() { d.showTab(true) }), "Contact"),
				),
				node.Main(content),
			),
		),
	)
}
