package engine

import (
	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
)

// SwapOutput prices a single hop through the pool using the constant-product
// formula net of fee:
//
//	in'  = in * (1 - fee)
//	out  = in' * reserve_out / (reserve_in + in')
//
// The pool is a simulation input and is never mutated; sequential hops along a
// path must be priced against independently looked-up pools. Output is zero
// for non-positive input or an empty pool, strictly less than reserve_out
// otherwise, and strictly increasing in the input for fixed reserves.
func SwapOutput(input decimal.Decimal, pool *domain.PoolModel, aToB bool) decimal.Decimal {
	if !input.IsPositive() {
		return decimal.Zero
	}

	reserveIn, reserveOut := pool.ReserveA, pool.ReserveB
	if !aToB {
		reserveIn, reserveOut = pool.ReserveB, pool.ReserveA
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return decimal.Zero
	}

	inputWithFee := input.Mul(decimal.NewFromInt(1).Sub(pool.FeeRate))
	return inputWithFee.Mul(reserveOut).Div(reserveIn.Add(inputWithFee))
}
