package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
)

// QuoteHistoryStore implements storage.QuoteHistoryStore using ClickHouse.
//
// Prices land as Float64: quote history feeds analytics over spreads and
// liquidity trends, where column scans dominate and float rounding is
// acceptable. Exact-decimal route accounting stays in Postgres.
type QuoteHistoryStore struct {
	conn *Conn
}

// NewQuoteHistoryStore creates a new QuoteHistoryStore.
func NewQuoteHistoryStore(conn *Conn) *QuoteHistoryStore {
	return &QuoteHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.QuoteHistoryStore = (*QuoteHistoryStore)(nil)

// InsertBulk adds a scan's quote snapshot.
func (s *QuoteHistoryStore) InsertBulk(ctx context.Context, scanID string, quotes []*domain.Quote) error {
	if scanID == "" {
		return storage.ErrInvalidInput
	}
	if len(quotes) == 0 {
		return nil
	}
	for _, q := range quotes {
		if q == nil {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO quote_history (
			scan_id, symbol, venue, price, volume_24h, liquidity, pool_address, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, q := range quotes {
		err = batch.Append(
			scanID,
			q.Symbol,
			q.Source,
			q.Price.InexactFloat64(),
			q.Volume24h.InexactFloat64(),
			q.Liquidity.InexactFloat64(),
			q.PoolAddress,
			uint64(q.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetBySymbol retrieves quotes for a symbol within [from, to] (inclusive),
// ordered by timestamp ASC.
func (s *QuoteHistoryStore) GetBySymbol(ctx context.Context, symbol string, from, to int64) ([]*domain.Quote, error) {
	query := `
		SELECT symbol, venue, price, volume_24h, liquidity, pool_address, timestamp_ms
		FROM quote_history
		WHERE symbol = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, venue ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, uint64(from), uint64(to))
	if err != nil {
		return nil, fmt.Errorf("query by symbol: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// scanQuotes scans multiple rows into domain quotes.
func scanQuotes(rows driver.Rows) ([]*domain.Quote, error) {
	var quotes []*domain.Quote

	for rows.Next() {
		var (
			q                        domain.Quote
			price, volume, liquidity float64
			timestampMs              uint64
		)

		err := rows.Scan(
			&q.Symbol, &q.Source, &price, &volume, &liquidity,
			&q.PoolAddress, &timestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}

		q.Price = decimal.NewFromFloat(price)
		q.Volume24h = decimal.NewFromFloat(volume)
		q.Liquidity = decimal.NewFromFloat(liquidity)
		q.Timestamp = int64(timestampMs)
		quotes = append(quotes, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote rows: %w", err)
	}

	return quotes, nil
}
