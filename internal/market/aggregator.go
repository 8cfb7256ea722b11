package market

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/observability"
	"solana-arb-scanner/internal/solana"
)

// Aggregator fans quote fetches out across venues and merges the results into
// a per-symbol snapshot. Venue failures are isolated: a failed fetch falls
// back to that venue's cached quotes when the cache still holds them, and is
// otherwise skipped so the remaining venues keep the scan alive.
type Aggregator struct {
	sources []QuoteSource
	cache   *QuoteCache
	logger  *log.Logger
}

// AggregatorOptions contains configuration for creating an Aggregator.
type AggregatorOptions struct {
	Sources  []QuoteSource
	CacheTTL time.Duration
	Logger   *log.Logger
}

// NewAggregator creates a new quote aggregator.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Aggregator{
		sources: opts.Sources,
		cache:   NewQuoteCache(ttl),
		logger:  logger,
	}
}

// ErrNoQuotes indicates that no venue produced any usable quotes.
var ErrNoQuotes = errors.New("no venue quotes available")

// Snapshot fetches all venues concurrently and returns the merged per-symbol
// quote map. Invalid quotes are dropped and counted; valid fetches refresh the
// cache. Returns ErrNoQuotes only when every venue fails with a cold cache.
func (a *Aggregator) Snapshot(ctx context.Context) (domain.QuoteSnapshot, error) {
	results := make([][]*domain.Quote, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src QuoteSource) {
			defer wg.Done()
			results[i] = a.fetchVenue(ctx, src)
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := make(domain.QuoteSnapshot)
	total := 0
	for _, quotes := range results {
		for _, q := range quotes {
			snapshot[q.Symbol] = append(snapshot[q.Symbol], q)
			total++
		}
	}

	if total == 0 {
		return nil, ErrNoQuotes
	}

	a.logger.Printf("[market] Snapshot: %d quotes across %d symbols from %d venues",
		total, len(snapshot), len(a.sources))
	return snapshot, nil
}

// fetchVenue fetches one venue, validates its quotes, and falls back to the
// cache on failure.
func (a *Aggregator) fetchVenue(ctx context.Context, src QuoteSource) []*domain.Quote {
	venue := src.Venue()

	started := time.Now()
	quotes, err := src.Fetch(ctx)
	observability.RecordVenueFetch(venue, time.Since(started).Seconds(), err)

	if err != nil {
		if cached, ok := a.cache.Get(venue); ok {
			a.logger.Printf("[market] WARN: %s fetch failed, serving %d cached quotes: %v",
				venue, len(cached), err)
			observability.RecordCacheFallback(venue)
			return cached
		}
		a.logger.Printf("[market] WARN: %s fetch failed, no cache available: %v", venue, err)
		return nil
	}

	valid := a.validateQuotes(venue, quotes)
	if len(valid) > 0 {
		a.cache.Put(venue, valid)
	}
	return valid
}

// validateQuotes drops malformed quotes and clears pool addresses that fail
// base58 validation. A bad pool address taints the address only, not the
// price data carried alongside it.
func (a *Aggregator) validateQuotes(venue string, quotes []*domain.Quote) []*domain.Quote {
	valid := make([]*domain.Quote, 0, len(quotes))
	for _, q := range quotes {
		if err := q.Validate(); err != nil {
			a.logger.Printf("[market] SKIP invalid quote %s/%q: %v", venue, q.Symbol, err)
			observability.RecordQuoteRejected(venue, rejectReason(err))
			continue
		}
		if q.PoolAddress != "" && !solana.ValidAddress(q.PoolAddress) {
			a.logger.Printf("[market] Clearing malformed pool address on %s/%s", venue, q.Symbol)
			q.PoolAddress = ""
		}
		observability.RecordQuoteIngested(venue)
		valid = append(valid, q)
	}
	return valid
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptySymbol):
		return "empty_symbol"
	case errors.Is(err, domain.ErrNonPositivePrice):
		return "non_positive_price"
	case errors.Is(err, domain.ErrNegativeLiquidity):
		return "negative_liquidity"
	default:
		return "invalid"
	}
}

// PriceDifferences reports cross-venue spreads above the threshold for the
// given snapshot.
func (a *Aggregator) PriceDifferences(snapshot domain.QuoteSnapshot, thresholdPct decimal.Decimal) []*domain.PriceDifference {
	return domain.PriceDifferences(snapshot, thresholdPct)
}
