package memory

import (
	"context"
	"errors"
	"testing"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
)

func testScan(id string, startedAt int64) *domain.ScanResult {
	return &domain.ScanResult{
		ScanID:         id,
		StartedAt:      startedAt,
		FinishedAt:     startedAt + 42,
		Symbols:        3,
		Pools:          6,
		PathsEvaluated: 12,
	}
}

func TestScanStore_InsertAndGet(t *testing.T) {
	store := NewScanStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testScan("scan-1", 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByID(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if result.Symbols != 3 || result.PathsEvaluated != 12 {
		t.Errorf("Scan metadata mismatch: %+v", result)
	}
	if len(result.Routes) != 0 {
		t.Errorf("Expected empty routes, got %d", len(result.Routes))
	}
}

func TestScanStore_DuplicateKey(t *testing.T) {
	store := NewScanStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testScan("scan-1", 1000)); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, testScan("scan-1", 2000))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestScanStore_GetByIDNotFound(t *testing.T) {
	store := NewScanStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestScanStore_InvalidInput(t *testing.T) {
	store := NewScanStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, testScan("", 1000)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty id, got %v", err)
	}
}

func TestScanStore_GetRecent(t *testing.T) {
	store := NewScanStore()
	ctx := context.Background()

	for _, s := range []*domain.ScanResult{
		testScan("scan-1", 1000),
		testScan("scan-3", 3000),
		testScan("scan-2", 2000),
	} {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	recent, err := store.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 scans, got %d", len(recent))
	}
	if recent[0].ScanID != "scan-3" || recent[1].ScanID != "scan-2" {
		t.Errorf("Wrong order: %s, %s", recent[0].ScanID, recent[1].ScanID)
	}
}
