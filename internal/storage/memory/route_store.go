package memory

import (
	"context"
	"sync"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
)

// RouteStore is an in-memory implementation of storage.RouteStore.
type RouteStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.RouteCandidate // keyed by scan_id, rank order
}

// NewRouteStore creates a new in-memory route store.
func NewRouteStore() *RouteStore {
	return &RouteStore{
		data: make(map[string][]*domain.RouteCandidate),
	}
}

// InsertBulk adds a scan's ranked routes atomically, preserving rank order.
func (s *RouteStore) InsertBulk(_ context.Context, scanID string, routes []*domain.RouteCandidate) error {
	if scanID == "" {
		return storage.ErrInvalidInput
	}
	for _, r := range routes {
		if r == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[scanID]; exists {
		return storage.ErrDuplicateKey
	}

	stored := make([]*domain.RouteCandidate, len(routes))
	for i, r := range routes {
		stored[i] = copyRoute(r)
	}
	s.data[scanID] = stored
	return nil
}

// GetByScanID retrieves a scan's routes ordered by rank ASC. An unknown scan
// yields an empty result, matching the SQL-backed implementations.
func (s *RouteStore) GetByScanID(_ context.Context, scanID string) ([]*domain.RouteCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	routes := s.data[scanID]
	result := make([]*domain.RouteCandidate, len(routes))
	for i, r := range routes {
		result[i] = copyRoute(r)
	}
	return result, nil
}

// copyRoute deep-copies a route candidate including its variant payload.
func copyRoute(r *domain.RouteCandidate) *domain.RouteCandidate {
	c := *r
	if r.Direct != nil {
		direct := *r.Direct
		c.Direct = &direct
	}
	if r.Triangular != nil {
		triangular := *r.Triangular
		triangular.Path = append([]string(nil), r.Triangular.Path...)
		c.Triangular = &triangular
	}
	return &c
}

var _ storage.RouteStore = (*RouteStore)(nil)
