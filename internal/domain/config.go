package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScanConfig carries every threshold the core consumes. All values are
// injected; the engine holds no hardcoded limits.
type ScanConfig struct {
	// MinProfit is the minimum net profit (quote-currency units) a route must
	// strictly exceed to be ranked.
	MinProfit decimal.Decimal

	// MaxSlippage is the maximum tolerated price-impact fraction per route.
	MaxSlippage decimal.Decimal

	// HopCost is the fixed per-swap transaction-cost estimate.
	HopCost decimal.Decimal

	// FeeRate is the fee applied to every synthetic pool.
	FeeRate decimal.Decimal

	// DirectThresholdPct is the minimum cross-venue percentage delta for a
	// direct candidate to be evaluated.
	DirectThresholdPct decimal.Decimal

	// ReportThresholdPct is the minimum percentage delta for a symbol to
	// appear in the price-difference report.
	ReportThresholdPct decimal.Decimal

	// SweepAmounts is the candidate input-amount grid for triangular routes,
	// in base-asset units. A coarse grid search, not a continuous optimum.
	SweepAmounts []decimal.Decimal

	// BaseTokens are the cycle start/end tokens for triangular search.
	BaseTokens []string

	// TopK bounds the ranked output.
	TopK int

	// CacheTTL bounds how long a venue's quotes may be served from cache
	// after a failed fetch.
	CacheTTL time.Duration
}

// DefaultScanConfig returns the configuration the original bot shipped with.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		MinProfit:          decimal.NewFromFloat(10.0),
		MaxSlippage:        decimal.NewFromFloat(0.02),
		HopCost:            decimal.NewFromFloat(0.01),
		FeeRate:            decimal.NewFromFloat(0.003),
		DirectThresholdPct: decimal.NewFromFloat(0.5),
		ReportThresholdPct: decimal.NewFromFloat(0.1),
		SweepAmounts: []decimal.Decimal{
			decimal.NewFromInt(100),
			decimal.NewFromInt(1000),
			decimal.NewFromInt(10000),
			decimal.NewFromInt(100000),
		},
		BaseTokens: []string{"SOL", "USDC", "USDT"},
		TopK:       10,
		CacheTTL:   5 * time.Second,
	}
}
