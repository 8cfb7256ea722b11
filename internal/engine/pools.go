// Package engine implements the opportunity-detection core: it builds a
// synthetic market model from a quote snapshot, enumerates multi-hop cycles,
// prices swaps under constant-product math, and ranks the profitable routes.
package engine

import (
	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
)

var two = decimal.NewFromInt(2)

// BuildPools converts every quote in the snapshot into one synthetic
// constant-product pool. Reserves are estimated by splitting the quoted
// liquidity evenly across both sides:
//
//	reserve_b = liquidity / 2
//	reserve_a = liquidity / (2 * price)
//
// This is an approximation of true venue reserves, not a read of on-chain
// state. Quotes whose symbol does not parse into exactly two tokens are
// skipped.
func BuildPools(snapshot domain.QuoteSnapshot, feeRate decimal.Decimal) []*domain.PoolModel {
	var pools []*domain.PoolModel

	for symbol, quotes := range snapshot {
		tokenA, tokenB, ok := domain.SplitSymbol(symbol)
		if !ok {
			continue
		}

		for _, q := range quotes {
			if !q.Price.IsPositive() {
				continue
			}

			reserveB := q.Liquidity.Div(two)
			reserveA := q.Liquidity.Div(two.Mul(q.Price))

			pools = append(pools, &domain.PoolModel{
				Venue:     q.Source,
				TokenA:    tokenA,
				TokenB:    tokenB,
				ReserveA:  reserveA,
				ReserveB:  reserveB,
				FeeRate:   feeRate,
				Liquidity: q.Liquidity,
			})
		}
	}

	return pools
}
