package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
)

// RouteStore implements storage.RouteStore using PostgreSQL.
//
// Monetary columns are stored as TEXT and round-tripped through
// decimal.NewFromString so no precision is lost to binary floats. The
// kind-specific payload (direct legs or triangular path) lands in a JSONB
// detail column keyed by the route kind.
type RouteStore struct {
	pool *Pool
}

// NewRouteStore creates a new RouteStore.
func NewRouteStore(pool *Pool) *RouteStore {
	return &RouteStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RouteStore = (*RouteStore)(nil)

// routeDetail is the JSONB payload holding the kind-specific variant.
type routeDetail struct {
	Direct     *domain.DirectRoute     `json:"direct,omitempty"`
	Triangular *domain.TriangularRoute `json:"triangular,omitempty"`
}

// InsertBulk adds a scan's ranked routes atomically, preserving rank order.
func (s *RouteStore) InsertBulk(ctx context.Context, scanID string, routes []*domain.RouteCandidate) error {
	if scanID == "" {
		return storage.ErrInvalidInput
	}
	for _, r := range routes {
		if r == nil {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO routes (
			scan_id, rank, kind, label,
			input_amount, gross_profit, gas_cost, net_profit, confidence, detail
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for rank, r := range routes {
		detail, err := json.Marshal(routeDetail{Direct: r.Direct, Triangular: r.Triangular})
		if err != nil {
			return fmt.Errorf("marshal route detail: %w", err)
		}

		_, err = tx.Exec(ctx, query,
			scanID,
			rank,
			string(r.Kind),
			r.Label(),
			r.InputAmount.String(),
			r.GrossProfit.String(),
			r.GasCost.String(),
			r.NetProfit.String(),
			r.Confidence,
			detail,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert route rank %d: %w", rank, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByScanID retrieves a scan's routes ordered by rank ASC.
func (s *RouteStore) GetByScanID(ctx context.Context, scanID string) ([]*domain.RouteCandidate, error) {
	query := `
		SELECT kind, input_amount, gross_profit, gas_cost, net_profit, confidence, detail
		FROM routes
		WHERE scan_id = $1
		ORDER BY rank ASC
	`

	rows, err := s.pool.Query(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("get routes by scan id: %w", err)
	}
	defer rows.Close()

	var routes []*domain.RouteCandidate
	for rows.Next() {
		var (
			kind       string
			amounts    [4]string
			confidence float64
			detail     []byte
		)
		err := rows.Scan(&kind, &amounts[0], &amounts[1], &amounts[2], &amounts[3], &confidence, &detail)
		if err != nil {
			return nil, fmt.Errorf("scan route row: %w", err)
		}

		r := &domain.RouteCandidate{
			Kind:       domain.RouteKind(kind),
			Confidence: confidence,
		}
		if r.InputAmount, err = decimal.NewFromString(amounts[0]); err != nil {
			return nil, fmt.Errorf("parse input_amount: %w", err)
		}
		if r.GrossProfit, err = decimal.NewFromString(amounts[1]); err != nil {
			return nil, fmt.Errorf("parse gross_profit: %w", err)
		}
		if r.GasCost, err = decimal.NewFromString(amounts[2]); err != nil {
			return nil, fmt.Errorf("parse gas_cost: %w", err)
		}
		if r.NetProfit, err = decimal.NewFromString(amounts[3]); err != nil {
			return nil, fmt.Errorf("parse net_profit: %w", err)
		}

		var d routeDetail
		if err := json.Unmarshal(detail, &d); err != nil {
			return nil, fmt.Errorf("unmarshal route detail: %w", err)
		}
		r.Direct = d.Direct
		r.Triangular = d.Triangular

		routes = append(routes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate route rows: %w", err)
	}
	return routes, nil
}
