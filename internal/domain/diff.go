package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceDifferences computes the cross-venue spread for every symbol quoted by
// at least two venues, keeps those whose percentage delta strictly exceeds the
// reporting threshold, and sorts descending by percentage. Pure transform over
// the snapshot; no state is touched.
func PriceDifferences(snapshot QuoteSnapshot, thresholdPct decimal.Decimal) []*PriceDifference {
	var diffs []*PriceDifference

	for symbol, quotes := range snapshot {
		if len(quotes) < 2 {
			continue
		}

		sorted := make([]*Quote, len(quotes))
		copy(sorted, quotes)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price.LessThan(sorted[j].Price)
		})
		lowest, highest := sorted[0], sorted[len(sorted)-1]

		delta := highest.Price.Sub(lowest.Price)
		pct := delta.Div(lowest.Price).Mul(decimal.NewFromInt(100))
		if !pct.GreaterThan(thresholdPct) {
			continue
		}

		diffs = append(diffs, &PriceDifference{
			Symbol:    symbol,
			LowPrice:  lowest.Price,
			HighPrice: highest.Price,
			BuyVenue:  lowest.Source,
			SellVenue: highest.Source,
			Absolute:  delta,
			Percent:   pct,
			Liquidity: decimal.Min(lowest.Liquidity, highest.Liquidity),
		})
	}

	sort.SliceStable(diffs, func(i, j int) bool {
		return diffs[i].Percent.GreaterThan(diffs[j].Percent)
	})
	return diffs
}
