package widgets

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vango-dev/quoteboard/internal/errors"
	"github.com/vango-dev/quoteboard/pkg/channel"
	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/node"
	"github.com/vango-dev/quoteboard/pkg/quote"
	"github.com/vango-dev/quoteboard/pkg/reactive"
)

// StockPrice shows the price of its symbol prop. Setting the prop, by
// submitting the form or through SymbolSelected, starts a lookup. The
// price and error cells are never both set.
type StockPrice struct {
	c        *component.Component
	provider quote.Provider

	symbol  *reactive.Cell[string]
	input   *reactive.Cell[string]
	price   *reactive.Cell[*quote.Quote]
	err     *reactive.Cell[error]
	loading *reactive.Cell[bool]

	task *component.Task
}

// NewStockPrice returns the stock-price factory.
func NewStockPrice(provider quote.Provider) component.Factory {
	return func(c *component.Component) component.Widget {
		p := &StockPrice{
			c:        c,
			provider: provider,
			symbol:   component.UseProp(c, "symbol", ""),
			input:    component.UseCell(c, ""),
			price:    component.UseCell[*quote.Quote](c, nil),
			err:      component.UseCell[error](c, nil),
			loading:  component.UseCell(c, false),
		}
		component.OnPropChange(c, "symbol", func(_, next string) {
			p.input.Set(next)
			p.Fetch(next)
		})
		c.OnMount(p.mount)
		return p
	}
}

func (p *StockPrice) mount() {
	if _, err := component.Subscribe(p.c, SymbolSelected, channel.Global(), p.onSelected); err != nil {
		p.c.Logger().Error("subscribe failed", "channel", SymbolSelected, "error", err)
	}
	if s := p.symbol.Peek(); s != "" {
		p.input.Set(s)
		p.Fetch(s)
	}
}

func (p *StockPrice) onSelected(symbol string) error {
	return p.c.SetProp("symbol", symbol)
}

// SetInput updates the symbol input.
func (p *StockPrice) SetInput(v string) {
	p.input.Set(v)
}

// Submit sets the symbol prop to the current input.
func (p *StockPrice) Submit() {
	symbol := strings.TrimSpace(p.input.Peek())
	if symbol == "" {
		return
	}
	if err := p.c.SetProp("symbol", symbol); err != nil {
		p.c.Logger().Error("set symbol failed", "error", err)
	}
}

// Fetch looks up symbol. An earlier lookup still in flight is cancelled
// and its result ignored.
func (p *StockPrice) Fetch(symbol string) *component.Task {
	if p.task != nil {
		p.task.Cancel()
	}
	p.loading.Set(true)
	p.task = component.Async(p.c, func(ctx context.Context) (quote.Quote, error) {
		return p.provider.Lookup(ctx, symbol)
	}, p.settle)
	return p.task
}

func (p *StockPrice) settle(q quote.Quote, err error) {
	p.loading.Set(false)
	if err != nil {
		p.price.Set(nil)
		p.err.Set(err)
		return
	}
	p.price.Set(&q)
	p.err.Set(nil)
}

// Symbol returns the symbol prop.
func (p *StockPrice) Symbol() string { return p.symbol.Peek() }

// Price returns the last fetched quote, or nil.
func (p *StockPrice) Price() *quote.Quote { return p.price.Peek() }

// Err returns the last lookup error, or nil.
func (p *StockPrice) Err() error { return p.err.Peek() }

// Loading reports whether a lookup is outstanding.
func (p *StockPrice) Loading() bool { return p.loading.Peek() }

// Render implements component.Widget.
func (p *StockPrice) Render() *node.Node {
	input := p.input.Get()

	content := node.P("Please enter a stock symbol!")
	switch err, q := p.err.Get(), p.price.Get(); {
	case p.loading.Get():
		content = Spinner()
	case err != nil:
		content = node.P(ErrorText(err))
	case q != nil:
		content = node.P("Price: $" + q.Price.String())
	}

	return node.El(TagStockPrice,
		node.Form(node.OnSubmit(p.Submit),
			node.Input(node.ID("stock-symbol"),
				node.Value(input),
				node.OnInput(p.SetInput)),
			node.Button(node.Type("submit"),
				node.Disabled(strings.TrimSpace(input) == ""),
				"Fetch"),
		),
		node.Div(content),
	)
}

// ErrorText is the inline text shown for a lookup error.
func ErrorText(err error) string {
	if stderrors.Is(err, quote.ErrNotFound) {
		return "Invalid Symbol!"
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Message + "!"
	}
	return err.Error()
}
