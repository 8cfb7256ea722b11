package market

import (
	"context"

	"solana-arb-scanner/internal/domain"
)

// StaticSource serves a fixed set of quotes. Used for fixtures and tests.
type StaticSource struct {
	venue  string
	quotes []*domain.Quote
	err    error
}

// NewStaticSource creates a source that always returns the given quotes.
func NewStaticSource(venue string, quotes []*domain.Quote) *StaticSource {
	return &StaticSource{venue: venue, quotes: quotes}
}

// NewFailingSource creates a source that always returns err.
func NewFailingSource(venue string, err error) *StaticSource {
	return &StaticSource{venue: venue, err: err}
}

func (s *StaticSource) Venue() string { return s.venue }

func (s *StaticSource) Fetch(ctx context.Context) ([]*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*domain.Quote, len(s.quotes))
	copy(out, s.quotes)
	return out, nil
}

var _ QuoteSource = (*StaticSource)(nil)
