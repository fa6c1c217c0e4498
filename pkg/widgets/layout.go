package widgets

import (
	"github.com/vango-dev/quoteboard/pkg/component"
)

// Dashboard mounts the full quote board into target: the drawer, a
// tooltip explaining the finder, the finder and a price display.
func Dashboard(h *component.Host, target component.RenderTarget) error {
	mounts := []struct {
		tag   string
		props map[string]any
	}{
		{TagSideDrawer, nil},
		{TagToolTip, map[string]any{"text": "Search by company name, then pick a result to see its price."}},
		{TagStockFinder, nil},
		{TagStockPrice, nil},
	}
	for _, m := range mounts {
		if _, err := h.Mount(m.tag, target, component.WithProps(m.props)); err != nil {
			return err
		}
	}
	return nil
}
