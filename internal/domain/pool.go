package domain

import "github.com/shopspring/decimal"

// PoolModel is a synthetic constant-product pool derived from a single quote.
// Reserves are estimated by splitting the quoted liquidity, not read from
// on-chain state, so they approximate true venue reserves at best.
type PoolModel struct {
	Venue     string
	TokenA    string
	TokenB    string
	ReserveA  decimal.Decimal
	ReserveB  decimal.Decimal
	FeeRate   decimal.Decimal // e.g. 0.003 for 0.3%
	Liquidity decimal.Decimal
}

// Matches reports whether the pool trades the given token pair in either direction.
func (p *PoolModel) Matches(from, to string) bool {
	return (p.TokenA == from && p.TokenB == to) || (p.TokenA == to && p.TokenB == from)
}

// SpotRate returns the marginal exchange rate for trading out of the given
// token, ignoring fees and price impact. Zero when the input reserve is empty.
func (p *PoolModel) SpotRate(from string) decimal.Decimal {
	if p.TokenA == from {
		if !p.ReserveA.IsPositive() {
			return decimal.Zero
		}
		return p.ReserveB.Div(p.ReserveA)
	}
	if !p.ReserveB.IsPositive() {
		return decimal.Zero
	}
	return p.ReserveA.Div(p.ReserveB)
}
