package memory

import (
	"context"
	"sort"
	"sync"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
)

// QuoteHistoryStore is an in-memory implementation of storage.QuoteHistoryStore.
type QuoteHistoryStore struct {
	mu   sync.RWMutex
	data []historyRow
}

type historyRow struct {
	scanID string
	quote  domain.Quote
}

// NewQuoteHistoryStore creates a new in-memory quote history store.
func NewQuoteHistoryStore() *QuoteHistoryStore {
	return &QuoteHistoryStore{}
}

// InsertBulk adds a scan's quote snapshot.
func (s *QuoteHistoryStore) InsertBulk(_ context.Context, scanID string, quotes []*domain.Quote) error {
	if scanID == "" {
		return storage.ErrInvalidInput
	}
	for _, q := range quotes {
		if q == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range quotes {
		s.data = append(s.data, historyRow{scanID: scanID, quote: *q})
	}
	return nil
}

// GetBySymbol retrieves quotes for a symbol within [from, to] (inclusive),
// ordered by timestamp ASC.
func (s *QuoteHistoryStore) GetBySymbol(_ context.Context, symbol string, from, to int64) ([]*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Quote
	for _, row := range s.data {
		if row.quote.Symbol == symbol && row.quote.Timestamp >= from && row.quote.Timestamp <= to {
			q := row.quote
			result = append(result, &q)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].Source < result[j].Source
	})

	return result, nil
}

var _ storage.QuoteHistoryStore = (*QuoteHistoryStore)(nil)
