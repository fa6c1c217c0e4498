// Package quote provides stock quotes and symbol search.
//
// Client talks to the Alpha Vantage query API. Cache keeps recent quotes
// in an LRU, Instrument adds spans and metrics, and Static serves a fixed
// table for offline use and tests. All of them implement Service.
//
//	svc := quote.Instrument(
//	    quote.NewCache(quote.NewClient(cfg.APIKey), cfg.Cache.Size, cfg.Cache.TTL.Duration()),
//	    tel,
//	)
//	q, err := svc.Lookup(ctx, "MSFT")
//	if errors.Is(err, quote.ErrNotFound) {
//	    // unknown symbol
//	}
package quote
