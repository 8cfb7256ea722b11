package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
)

// RankRoutes filters candidates to those with net profit strictly above the
// minimum, sorts descending by net profit with a stable sort, and truncates to
// the top-K bound. Deterministic for identical inputs.
func RankRoutes(candidates []*domain.RouteCandidate, minProfit decimal.Decimal, topK int) []*domain.RouteCandidate {
	if topK <= 0 {
		topK = 10
	}

	ranked := make([]*domain.RouteCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c != nil && c.NetProfit.GreaterThan(minProfit) {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NetProfit.GreaterThan(ranked[j].NetProfit)
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
