package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-arb-scanner/internal/domain"
)

func quote(symbol, source string, price, liquidity float64) *domain.Quote {
	return &domain.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(price),
		Liquidity: decimal.NewFromFloat(liquidity),
		Source:    source,
	}
}

func TestBuildPools(t *testing.T) {
	snapshot := domain.QuoteSnapshot{
		"SOL/USDC": {quote("SOL/USDC", "orca", 90, 9000000)},
	}

	pools := BuildPools(snapshot, decimal.NewFromFloat(0.003))
	require.Len(t, pools, 1)

	p := pools[0]
	assert.Equal(t, "orca", p.Venue)
	assert.Equal(t, "SOL", p.TokenA)
	assert.Equal(t, "USDC", p.TokenB)

	// reserve_b = liquidity/2, reserve_a = liquidity/(2*price)
	assert.True(t, p.ReserveB.Equal(decimal.NewFromInt(4500000)), "reserve_b = %s", p.ReserveB)
	assert.True(t, p.ReserveA.Equal(decimal.NewFromInt(50000)), "reserve_a = %s", p.ReserveA)
}

func TestBuildPoolsSkipsUnparseableSymbols(t *testing.T) {
	snapshot := domain.QuoteSnapshot{
		"SOLUSDC":  {quote("SOLUSDC", "orca", 90, 1000)},
		"SOL/USDC": {quote("SOL/USDC", "orca", 90, 1000)},
	}

	pools := BuildPools(snapshot, decimal.NewFromFloat(0.003))
	require.Len(t, pools, 1)
	assert.Equal(t, "SOL", pools[0].TokenA)
}

func TestBuildPoolsOnePoolPerQuote(t *testing.T) {
	snapshot := domain.QuoteSnapshot{
		"SOL/USDC": {
			quote("SOL/USDC", "orca", 89.5, 8000000),
			quote("SOL/USDC", "raydium", 91, 10000000),
		},
	}

	pools := BuildPools(snapshot, decimal.NewFromFloat(0.003))
	assert.Len(t, pools, 2)
}

// Any quote with price > 0 and liquidity >= 0 yields reserve_a > 0 only when
// liquidity is positive; zero liquidity yields empty but well-formed reserves.
func TestBuildPoolsReserveProperty(t *testing.T) {
	cases := []struct {
		price, liquidity float64
	}{
		{0.0001, 1},
		{89.5, 8000000},
		{250000, 42},
	}

	for _, tc := range cases {
		snapshot := domain.QuoteSnapshot{
			"A/B": {quote("A/B", "v", tc.price, tc.liquidity)},
		}
		pools := BuildPools(snapshot, decimal.NewFromFloat(0.003))
		require.Len(t, pools, 1)
		assert.True(t, pools[0].ReserveA.IsPositive(), "price=%v liq=%v", tc.price, tc.liquidity)
		assert.False(t, pools[0].ReserveB.IsNegative())
	}

	zero := domain.QuoteSnapshot{"A/B": {quote("A/B", "v", 10, 0)}}
	pools := BuildPools(zero, decimal.NewFromFloat(0.003))
	require.Len(t, pools, 1)
	assert.True(t, pools[0].ReserveA.IsZero())
	assert.True(t, pools[0].ReserveB.IsZero())
}
