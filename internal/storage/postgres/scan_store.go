package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
)

// ScanStore implements storage.ScanStore using PostgreSQL.
type ScanStore struct {
	pool *Pool
}

// NewScanStore creates a new ScanStore.
func NewScanStore(pool *Pool) *ScanStore {
	return &ScanStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScanStore = (*ScanStore)(nil)

// Insert adds a new scan record. Returns ErrDuplicateKey if scan_id exists.
func (s *ScanStore) Insert(ctx context.Context, result *domain.ScanResult) error {
	if result == nil || result.ScanID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO scans (
			scan_id, started_at, finished_at, symbols, pools, paths_evaluated, routes_found
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		result.ScanID,
		result.StartedAt,
		result.FinishedAt,
		result.Symbols,
		result.Pools,
		result.PathsEvaluated,
		len(result.Routes),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

// GetByID retrieves a scan by its ID with Routes left empty.
func (s *ScanStore) GetByID(ctx context.Context, scanID string) (*domain.ScanResult, error) {
	query := `
		SELECT scan_id, started_at, finished_at, symbols, pools, paths_evaluated
		FROM scans
		WHERE scan_id = $1
	`

	row := s.pool.QueryRow(ctx, query, scanID)
	result, err := scanScanRow(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get scan by id: %w", err)
	}
	return result, nil
}

// GetRecent retrieves the most recent scans ordered by start time DESC.
func (s *ScanStore) GetRecent(ctx context.Context, limit int) ([]*domain.ScanResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT scan_id, started_at, finished_at, symbols, pools, paths_evaluated
		FROM scans
		ORDER BY started_at DESC, scan_id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent scans: %w", err)
	}
	defer rows.Close()

	var results []*domain.ScanResult
	for rows.Next() {
		result, err := scanScanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan rows: %w", err)
	}
	return results, nil
}

// scanScanRow scans a single row into a ScanResult.
func scanScanRow(row pgx.Row) (*domain.ScanResult, error) {
	var r domain.ScanResult
	err := row.Scan(
		&r.ScanID,
		&r.StartedAt,
		&r.FinishedAt,
		&r.Symbols,
		&r.Pools,
		&r.PathsEvaluated,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
