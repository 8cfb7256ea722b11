package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-arb-scanner/internal/domain"
)

func pairPool(tokenA, tokenB string) *domain.PoolModel {
	return &domain.PoolModel{
		Venue:     "orca",
		TokenA:    tokenA,
		TokenB:    tokenB,
		ReserveA:  decimal.NewFromInt(1000),
		ReserveB:  decimal.NewFromInt(1000),
		FeeRate:   decimal.NewFromFloat(0.003),
		Liquidity: decimal.NewFromInt(2000),
	}
}

func TestFindTriangularPathsCompleteTriangle(t *testing.T) {
	pools := []*domain.PoolModel{
		pairPool("SOL", "RAY"),
		pairPool("RAY", "USDC"),
		pairPool("USDC", "SOL"),
	}

	paths := FindTriangularPaths(pools, []string{"SOL"})

	// Both orientations of the RAY/USDC triangle are emitted.
	require.Len(t, paths, 2)
	assert.Contains(t, paths, []string{"SOL", "RAY", "USDC", "SOL"})
	assert.Contains(t, paths, []string{"SOL", "USDC", "RAY", "SOL"})
}

// A path must never be emitted when a consecutive token pair lacks a pool.
func TestFindTriangularPathsMissingEdge(t *testing.T) {
	// No RAY-USDC pool: the SOL->RAY->USDC->SOL cycle cannot close.
	pools := []*domain.PoolModel{
		pairPool("SOL", "RAY"),
		pairPool("USDC", "SOL"),
	}

	paths := FindTriangularPaths(pools, []string{"SOL"})
	assert.Empty(t, paths)
}

func TestFindTriangularPathsEveryHopTradable(t *testing.T) {
	pools := []*domain.PoolModel{
		pairPool("SOL", "RAY"),
		pairPool("RAY", "USDC"),
		pairPool("USDC", "SOL"),
		pairPool("SOL", "BONK"),
		pairPool("USDT", "USDC"),
	}

	g := buildGraph(pools)
	paths := FindTriangularPaths(pools, []string{"SOL", "USDC"})
	require.NotEmpty(t, paths)

	for _, path := range paths {
		require.Len(t, path, 4)
		assert.Equal(t, path[0], path[3], "cycle must return to base")
		for i := 0; i < len(path)-1; i++ {
			assert.True(t, g.connected(path[i], path[i+1]),
				"path %v: no pool connects %s-%s", path, path[i], path[i+1])
		}
	}
}

func TestFindTriangularPathsUnknownBase(t *testing.T) {
	pools := []*domain.PoolModel{pairPool("SOL", "USDC")}
	assert.Empty(t, FindTriangularPaths(pools, []string{"ETH"}))
}

func TestFindTriangularPathsDeterministic(t *testing.T) {
	pools := []*domain.PoolModel{
		pairPool("SOL", "RAY"),
		pairPool("RAY", "USDC"),
		pairPool("USDC", "SOL"),
		pairPool("SOL", "USDT"),
		pairPool("USDT", "USDC"),
		pairPool("USDT", "RAY"),
	}

	first := FindTriangularPaths(pools, []string{"SOL"})
	second := FindTriangularPaths(pools, []string{"SOL"})
	assert.Equal(t, first, second)
}
