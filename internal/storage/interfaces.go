package storage

import (
	"context"

	"solana-arb-scanner/internal/domain"
)

// ScanStore provides access to scan run storage.
type ScanStore interface {
	// Insert adds a new scan record. Returns ErrDuplicateKey if scan_id exists.
	// Only scan metadata is stored; routes go through RouteStore.
	Insert(ctx context.Context, result *domain.ScanResult) error

	// GetByID retrieves a scan by its ID with Routes left empty.
	// Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, scanID string) (*domain.ScanResult, error)

	// GetRecent retrieves the most recent scans ordered by start time DESC.
	GetRecent(ctx context.Context, limit int) ([]*domain.ScanResult, error)
}

// RouteStore provides access to ranked route storage.
type RouteStore interface {
	// InsertBulk adds a scan's ranked routes atomically, preserving rank order.
	// Returns ErrDuplicateKey if any (scan_id, rank) exists.
	InsertBulk(ctx context.Context, scanID string, routes []*domain.RouteCandidate) error

	// GetByScanID retrieves a scan's routes ordered by rank ASC.
	GetByScanID(ctx context.Context, scanID string) ([]*domain.RouteCandidate, error)
}

// QuoteHistoryStore provides access to historical quote storage for analytics.
type QuoteHistoryStore interface {
	// InsertBulk adds a scan's quote snapshot.
	InsertBulk(ctx context.Context, scanID string, quotes []*domain.Quote) error

	// GetBySymbol retrieves quotes for a symbol within [from, to] (inclusive),
	// ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string, from, to int64) ([]*domain.Quote, error)
}
