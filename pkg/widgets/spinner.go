package widgets

import (
	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/node"
)

// Spinner returns the loading ring, for embedding in other widgets.
func Spinner() *node.Node {
	return node.El(TagLoadingSpinner,
		node.Div(node.Class("lds-ring"),
			node.Div(), node.Div(), node.Div(), node.Div(),
		),
	)
}

// NewSpinner is the loading-spinner factory.
func NewSpinner(*component.Component) component.Widget {
	return component.WidgetFunc(Spinner)
}
