package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
)

// Amount and liquidity are normalized against this scale when scoring
// confidence (roughly $1M).
var confidenceRefScale = decimal.NewFromInt(1000000)

// minViableAmount floors the direct-route trade size to avoid degenerate
// zero-size routes.
var minViableAmount = decimal.NewFromInt(100)

// Evaluator sweeps candidate input amounts along routes and scores the result.
// It is a pure computation over immutable inputs and is safe to share across
// goroutines.
type Evaluator struct {
	cfg domain.ScanConfig
}

// NewEvaluator creates an evaluator with the given scan configuration.
func NewEvaluator(cfg domain.ScanConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// EvaluateTriangular walks the path hop by hop for each candidate amount in
// the configured sweep, simulating each swap against the pool with the best
// spot rate for that hop and accumulating the fixed per-hop cost. The amount
// maximizing net profit is kept. A hop with no tradable pool zeroes that
// amount's proceeds rather than raising an error; the route then falls below
// the profitability filter downstream.
//
// The sweep is a coarse grid search, not a continuous optimum.
func (e *Evaluator) EvaluateTriangular(path []string, pools []*domain.PoolModel) *domain.RouteCandidate {
	if len(path) < 2 {
		return nil
	}

	hops := int64(len(path) - 1)
	bestProfit := decimal.Zero
	bestAmount := decimal.NewFromInt(1000)

	for _, amount := range e.cfg.SweepAmounts {
		current := amount
		gas := decimal.Zero

		for i := 0; i < len(path)-1; i++ {
			pool := bestPool(path[i], path[i+1], pools)
			if pool == nil {
				current = decimal.Zero
				break
			}
			current = SwapOutput(current, pool, pool.TokenA == path[i])
			gas = gas.Add(e.cfg.HopCost)
		}

		net := current.Sub(amount).Sub(gas)
		if net.GreaterThan(bestProfit) {
			bestProfit = net
			bestAmount = amount
		}
	}

	gasCost := e.cfg.HopCost.Mul(decimal.NewFromInt(hops))

	return &domain.RouteCandidate{
		Kind: domain.RouteTriangular,
		Triangular: &domain.TriangularRoute{
			Base: path[0],
			Path: path,
		},
		InputAmount: bestAmount,
		GrossProfit: bestProfit.Add(gasCost),
		GasCost:     gasCost,
		NetProfit:   bestProfit,
		Confidence:  e.confidence(path, pools, bestAmount),
	}
}

// EvaluateDirect checks a symbol's venue quotes for a cross-venue spread and
// sizes the trade against both venues' liquidity. Returns nil when fewer than
// two venues quote the symbol or the spread is at or below the configured
// direct threshold.
func (e *Evaluator) EvaluateDirect(symbol string, quotes []*domain.Quote) *domain.RouteCandidate {
	if len(quotes) < 2 {
		return nil
	}

	sorted := make([]*domain.Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.LessThan(sorted[j].Price)
	})
	lowest, highest := sorted[0], sorted[len(sorted)-1]

	delta := highest.Price.Sub(lowest.Price)
	pct := delta.Div(lowest.Price).Mul(decimal.NewFromInt(100))
	if !pct.GreaterThan(e.cfg.DirectThresholdPct) {
		return nil
	}

	amount := optimalDirectAmount(lowest, highest)
	gross := amount.Mul(delta)
	gasCost := e.cfg.HopCost.Mul(two) // one buy, one sell

	confidence, _ := decimal.Min(
		decimal.NewFromFloat(0.95),
		pct.Div(decimal.NewFromInt(10)),
	).Float64()

	return &domain.RouteCandidate{
		Kind: domain.RouteDirect,
		Direct: &domain.DirectRoute{
			Symbol:    symbol,
			BuyVenue:  lowest.Source,
			SellVenue: highest.Source,
			LowPrice:  lowest.Price,
			HighPrice: highest.Price,
		},
		InputAmount: amount,
		GrossProfit: gross,
		GasCost:     gasCost,
		NetProfit:   gross.Sub(gasCost),
		Confidence:  confidence,
	}
}

// optimalDirectAmount caps the trade at a quarter of either venue's
// price-adjusted liquidity and floors it at the minimum viable size.
func optimalDirectAmount(lowest, highest *domain.Quote) decimal.Decimal {
	four := decimal.NewFromInt(4)
	maxLow := lowest.Liquidity.Div(four.Mul(lowest.Price))
	maxHigh := highest.Liquidity.Div(four.Mul(highest.Price))
	return decimal.Max(decimal.Min(maxLow, maxHigh), minViableAmount)
}

// SlippageImpact estimates the total price impact of executing the route at
// its chosen input amount, summing per-hop liquidity ratios and capping the
// result at the configured maximum slippage.
func (e *Evaluator) SlippageImpact(route *domain.RouteCandidate, pools []*domain.PoolModel) decimal.Decimal {
	if route.Kind != domain.RouteTriangular || route.Triangular == nil {
		return decimal.Zero
	}

	impactPerLiquidity := decimal.NewFromFloat(0.1)
	total := decimal.Zero

	path := route.Triangular.Path
	for i := 0; i < len(path)-1; i++ {
		pool := bestPool(path[i], path[i+1], pools)
		if pool == nil || !pool.Liquidity.IsPositive() {
			continue
		}
		total = total.Add(route.InputAmount.Div(pool.Liquidity).Mul(impactPerLiquidity))
	}

	return decimal.Min(total, e.cfg.MaxSlippage)
}

// bestPool selects the pool offering the best spot exchange rate for the hop,
// or nil when no pool trades the pair.
func bestPool(from, to string, pools []*domain.PoolModel) *domain.PoolModel {
	var best *domain.PoolModel
	bestRate := decimal.Zero

	for _, p := range pools {
		if !p.Matches(from, to) {
			continue
		}
		rate := p.SpotRate(from)
		if rate.GreaterThan(bestRate) {
			bestRate = rate
			best = p
		}
	}
	return best
}

// confidence scores a triangular route as the mean of three factors:
// liquidity depth of the thinnest hop, trade size, and path length.
func (e *Evaluator) confidence(path []string, pools []*domain.PoolModel, amount decimal.Decimal) float64 {
	// Liquidity factor: thinnest hop normalized against the reference scale.
	var minLiquidity decimal.Decimal
	found := false
	for i := 0; i < len(path)-1; i++ {
		pool := bestPool(path[i], path[i+1], pools)
		if pool == nil {
			continue
		}
		if !found || pool.Liquidity.LessThan(minLiquidity) {
			minLiquidity = pool.Liquidity
			found = true
		}
	}
	liquidityScore := 0.0
	if found {
		liquidityScore, _ = decimal.Min(decimal.NewFromInt(1), minLiquidity.Div(confidenceRefScale)).Float64()
	}

	// Amount factor: smaller trades score higher.
	amountRatio, _ := amount.Div(confidenceRefScale).Float64()
	amountScore := 1.0 - amountRatio
	if amountScore < 0.1 {
		amountScore = 0.1
	}

	// Path-length factor: each hop beyond two costs 0.1.
	pathScore := 1.0 - float64(len(path)-2)*0.1
	if pathScore < 0.5 {
		pathScore = 0.5
	}

	return (liquidityScore + amountScore + pathScore) / 3.0
}
