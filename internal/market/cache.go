package market

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"solana-arb-scanner/internal/domain"
)

// defaultCacheSize bounds the number of venues held in the cache.
const defaultCacheSize = 64

// QuoteCache holds each venue's last successful fetch for a bounded TTL.
// When a venue fetch fails, the aggregator falls back to the cached quotes so
// one flaky feed does not blank out a whole scan cycle. Entries past the TTL
// expire rather than serving arbitrarily stale prices.
type QuoteCache struct {
	lru *expirable.LRU[string, []*domain.Quote]
}

// NewQuoteCache creates a cache with the given entry TTL.
func NewQuoteCache(ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		lru: expirable.NewLRU[string, []*domain.Quote](defaultCacheSize, nil, ttl),
	}
}

// Put stores a venue's quotes, replacing any previous entry.
func (c *QuoteCache) Put(venue string, quotes []*domain.Quote) {
	stored := make([]*domain.Quote, len(quotes))
	copy(stored, quotes)
	c.lru.Add(venue, stored)
}

// Get returns the venue's cached quotes, or false when absent or expired.
func (c *QuoteCache) Get(venue string) ([]*domain.Quote, bool) {
	quotes, ok := c.lru.Get(venue)
	if !ok {
		return nil, false
	}
	out := make([]*domain.Quote, len(quotes))
	copy(out, quotes)
	return out, true
}

// Len returns the number of live entries.
func (c *QuoteCache) Len() int {
	return c.lru.Len()
}
