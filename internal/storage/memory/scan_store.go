package memory

import (
	"context"
	"sort"
	"sync"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
)

// ScanStore is an in-memory implementation of storage.ScanStore.
type ScanStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScanResult // keyed by scan_id
}

// NewScanStore creates a new in-memory scan store.
func NewScanStore() *ScanStore {
	return &ScanStore{
		data: make(map[string]*domain.ScanResult),
	}
}

// Insert adds a new scan record. Returns ErrDuplicateKey if scan_id exists.
func (s *ScanStore) Insert(_ context.Context, result *domain.ScanResult) error {
	if result == nil || result.ScanID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[result.ScanID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[result.ScanID] = metadataCopy(result)
	return nil
}

// GetByID retrieves a scan by its ID with Routes left empty.
func (s *ScanStore) GetByID(_ context.Context, scanID string) (*domain.ScanResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, exists := s.data[scanID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return metadataCopy(result), nil
}

// GetRecent retrieves the most recent scans ordered by start time DESC.
func (s *ScanStore) GetRecent(_ context.Context, limit int) ([]*domain.ScanResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*domain.ScanResult, 0, len(s.data))
	for _, r := range s.data {
		results = append(results, metadataCopy(r))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].StartedAt != results[j].StartedAt {
			return results[i].StartedAt > results[j].StartedAt
		}
		return results[i].ScanID > results[j].ScanID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// metadataCopy copies a scan's scalar fields, dropping routes and differences.
func metadataCopy(r *domain.ScanResult) *domain.ScanResult {
	return &domain.ScanResult{
		ScanID:         r.ScanID,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Symbols:        r.Symbols,
		Pools:          r.Pools,
		PathsEvaluated: r.PathsEvaluated,
	}
}

var _ storage.ScanStore = (*ScanStore)(nil)
