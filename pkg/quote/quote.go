package quote

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vango-dev/quoteboard/internal/errors"
)

// ErrNotFound matches every error reporting an unknown symbol.
var ErrNotFound = errors.New("E201")

// Quote is the latest price of a symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// Match is a symbol search result.
type Match struct {
	Symbol string
	Name   string
}

// Provider looks up quotes.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (Quote, error)
}

// Searcher finds symbols by keywords.
type Searcher interface {
	Search(ctx context.Context, keywords string) ([]Match, error)
}

// Service is a Provider that can also search.
type Service interface {
	Provider
	Searcher
}

// Normalize trims a symbol and upper-cases it.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func notFound(symbol string) error {
	return errors.New("E201").WithDetailf("no quote for %q", symbol)
}
