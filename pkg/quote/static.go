package quote

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Static is a Service over a fixed table. It is safe for concurrent use
// as long as the table is not modified.
type Static struct {
	quotes map[string]decimal.Decimal
	names  map[string]string
}

// NewStatic creates a Static service. names maps symbols to company names
// for Search and may be nil.
func NewStatic(quotes map[string]decimal.Decimal, names map[string]string) *Static {
	s := &Static{
		quotes: make(map[string]decimal.Decimal, len(quotes)),
		names:  make(map[string]string, len(names)),
	}
	for sym, p := range quotes {
		s.quotes[Normalize(sym)] = p
	}
	for sym, n := range names {
		s.names[Normalize(sym)] = n
	}
	return s
}

// Demo returns a Static service with a few well known symbols.
func Demo() *Static {
	return NewStatic(
		map[string]decimal.Decimal{
			"AAPL": decimal.RequireFromString("189.84"),
			"MSFT": decimal.RequireFromString("415.50"),
			"GOOG": decimal.RequireFromString("141.80"),
			"AMZN": decimal.RequireFromString("178.25"),
		},
		map[string]string{
			"AAPL": "Apple Inc.",
			"MSFT": "Microsoft Corporation",
			"GOOG": "Alphabet Inc.",
			"AMZN": "Amazon.com Inc.",
		},
	)
}

// Lookup implements Provider.
func (s *Static) Lookup(ctx context.Context, symbol string) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	key := Normalize(symbol)
	p, ok := s.quotes[key]
	if !ok {
		return Quote{}, notFound(symbol)
	}
	return Quote{Symbol: key, Price: p}, nil
}

// Search implements Searcher. It matches keywords case-insensitively
// against symbols and names; results are sorted by symbol.
func (s *Static) Search(ctx context.Context, keywords string) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kw := strings.ToLower(strings.TrimSpace(keywords))
	if kw == "" {
		return nil, nil
	}
	var out []Match
	for sym, name := range s.names {
		if strings.Contains(strings.ToLower(sym), kw) || strings.Contains(strings.ToLower(name), kw) {
			out = append(out, Match{Symbol: sym, Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}
