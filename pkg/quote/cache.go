package quote

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultCacheSize = 128
	defaultCacheTTL  = time.Minute
)

// Cache is a Service keeping recent quotes in an expiring LRU. Failed
// lookups are never cached and searches pass through.
type Cache struct {
	delegate Service
	cache    *expirable.LRU[string, Quote]
}

// NewCache wraps delegate with an LRU quote cache whose entries expire
// after ttl. Non-positive size and ttl fall back to defaults.
func NewCache(delegate Service, size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{
		delegate: delegate,
		cache:    expirable.NewLRU[string, Quote](size, nil, ttl),
	}
}

// Lookup implements Provider.
func (c *Cache) Lookup(ctx context.Context, symbol string) (Quote, error) {
	key := Normalize(symbol)
	if q, ok := c.cache.Get(key); ok {
		return q, nil
	}

	q, err := c.delegate.Lookup(ctx, symbol)
	if err != nil {
		return q, err
	}
	c.cache.Add(key, q)
	return q, nil
}

// Search implements Searcher.
func (c *Cache) Search(ctx context.Context, keywords string) ([]Match, error) {
	return c.delegate.Search(ctx, keywords)
}

// Len returns the number of cached quotes.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Purge drops every cached quote.
func (c *Cache) Purge() {
	c.cache.Purge()
}
