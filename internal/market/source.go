package market

import (
	"context"

	"solana-arb-scanner/internal/domain"
)

// QuoteSource provides venue quotes from an external feed.
type QuoteSource interface {
	// Venue returns the source's venue name (e.g. "orca", "raydium").
	Venue() string

	// Fetch returns the venue's current quotes. Implementations must not
	// retain the returned slice.
	Fetch(ctx context.Context) ([]*domain.Quote, error)
}
