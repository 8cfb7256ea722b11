package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
	"solana-arb-scanner/internal/storage/postgres"
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
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewScanStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testScan("scan-1", 1000)))

	result, err := store.GetByID(ctx, "scan-1")
	require.NoError(t, err)
	assert.Equal(t, "scan-1", result.ScanID)
	assert.Equal(t, int64(1000), result.StartedAt)
	assert.Equal(t, int64(1042), result.FinishedAt)
	assert.Equal(t, 3, result.Symbols)
	assert.Equal(t, 6, result.Pools)
	assert.Equal(t, 12, result.PathsEvaluated)
	assert.Empty(t, result.Routes)
}

func TestScanStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewScanStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testScan("scan-1", 1000)))

	err := store.Insert(ctx, testScan("scan-1", 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestScanStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewScanStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestScanStore_GetRecent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewScanStore(pool)
	ctx := context.Background()

	for _, s := range []*domain.ScanResult{
		testScan("scan-1", 1000),
		testScan("scan-3", 3000),
		testScan("scan-2", 2000),
	} {
		require.NoError(t, store.Insert(ctx, s))
	}

	recent, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "scan-3", recent[0].ScanID)
	assert.Equal(t, "scan-2", recent[1].ScanID)
}
