package widgets

import (
	"log/slog"

	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/quote"
)

// SymbolSelected is the global channel carrying symbols picked in a
// stock-finder.
const SymbolSelected = "symbol.selected"

// Tags.
const (
	TagSideDrawer     = "side-drawer"
	TagLoadingSpinner = "loading-spinner"
	TagStockFinder    = "stock-finder"
	TagStockPrice     = "stock-price"
	TagToolTip        = "tool-tip"
)

// Deps are the collaborators shared by the widgets.
type Deps struct {
	Quotes      quote.Service
	Logger      *slog.Logger
	DrawerTitle string
}

// Register adds every widget to reg.
func Register(reg *component.Registry, deps Deps) error {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	factories := []struct {
		tag string
		f   component.Factory
	}{
		{TagSideDrawer, NewSideDrawer(deps.DrawerTitle)},
		{TagLoadingSpinner, NewSpinner},
		{TagStockFinder, NewStockFinder(deps.Quotes)},
		{TagStockPrice, NewStockPrice(deps.Quotes)},
		{TagToolTip, NewToolTip},
	}
	for _, f := range factories {
		if err := reg.Register(f.tag, f.f); err != nil {
			return err
		}
	}
	return nil
}
