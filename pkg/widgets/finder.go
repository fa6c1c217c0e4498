package widgets

import (
	"context"
	"strings"

	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/node"
	"github.com/vango-dev/quoteboard/pkg/quote"
	"github.com/vango-dev/quoteboard/pkg/reactive"
)

// StockFinder searches symbols by keywords and publishes the one picked
// on SymbolSelected.
type StockFinder struct {
	c        *component.Component
	searcher quote.Searcher

	keywords *reactive.Cell[string]
	results  *reactive.Cell[[]quote.Match]
	loading  *reactive.Cell[bool]

	task *component.Task
}

// NewStockFinder returns the stock-finder factory.
func NewStockFinder(searcher quote.Searcher) component.Factory {
	return func(c *component.Component) component.Widget {
		return &StockFinder{
			c:        c,
			searcher: searcher,
			keywords: component.UseCell(c, ""),
			results:  component.UseCell[[]quote.Match](c, nil),
			loading:  component.UseCell(c, false),
		}
	}
}

// SetKeywords updates the search input.
func (f *StockFinder) SetKeywords(v string) {
	f.keywords.Set(v)
}

// Find searches for the current keywords. A failed search only clears
// the loading state.
func (f *StockFinder) Find() *component.Task {
	keywords := strings.TrimSpace(f.keywords.Peek())
	if f.task != nil {
		f.task.Cancel()
	}
	f.loading.Set(true)
	f.task = component.Async(f.c, func(ctx context.Context) ([]quote.Match, error) {
		return f.searcher.Search(ctx, keywords)
	}, func(matches []quote.Match, err error) {
		f.loading.Set(false)
		if err != nil {
			f.c.Logger().Warn("symbol search failed", "keywords", keywords, "error", err)
			return
		}
		f.results.Set(matches)
	})
	return f.task
}

// Select publishes symbol on SymbolSelected.
func (f *StockFinder) Select(symbol string) {
	if err := component.Publish(f.c, SymbolSelected, symbol); err != nil {
		f.c.Logger().Error("publish failed", "symbol", symbol, "error", err)
	}
}

// Results returns the last search results.
func (f *StockFinder) Results() []quote.Match {
	return f.results.Peek()
}

// Loading reports whether a search is outstanding.
func (f *StockFinder) Loading() bool {
	return f.loading.Peek()
}

// Render implements component.Widget.
func (f *StockFinder) Render() *node.Node {
	var content *node.Node
	if f.loading.Get() {
		content = Spinner()
	} else {
		content = node.Div(node.Ul(node.Map(f.results.Get(), func(m quote.Match) *node.Node {
			return node.Li(node.OnClick(func() { f.Select(m.Symbol) }),
				node.Strong(m.Symbol),
				" - "+m.Name,
			)
		})))
	}

	return node.El(TagStockFinder,
		node.Form(node.OnSubmit(func() { f.Find() }),
			node.Input(node.ID("stock-symbol"),
				node.Value(f.keywords.Get()),
				node.OnInput(f.SetKeywords)),
			node.Button(node.Type("submit"), "Find!"),
		),
		content,
	)
}
