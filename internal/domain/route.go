package domain

import "github.com/shopspring/decimal"

// RouteKind discriminates the two candidate shapes.
type RouteKind string

// Route kinds.
const (
	RouteDirect     RouteKind = "direct"
	RouteTriangular RouteKind = "triangular"
)

// DirectRoute carries the fields specific to a cross-venue same-pair route.
type DirectRoute struct {
	Symbol    string          `json:"symbol"`
	BuyVenue  string          `json:"buy_venue"`  // venue with the lowest price
	SellVenue string          `json:"sell_venue"` // venue with the highest price
	LowPrice  decimal.Decimal `json:"low_price"`
	HighPrice decimal.Decimal `json:"high_price"`
}

// TriangularRoute carries the fields specific to a three-hop cycle.
type TriangularRoute struct {
	Base string   `json:"base"`
	Path []string `json:"path"` // [base, t1, t2, base]
}

// RouteCandidate is a scored arbitrage route. Exactly one of Direct or
// Triangular is set, matching Kind; profit fields are common to both shapes.
type RouteCandidate struct {
	Kind       RouteKind        `json:"kind"`
	Direct     *DirectRoute     `json:"direct,omitempty"`
	Triangular *TriangularRoute `json:"triangular,omitempty"`

	InputAmount decimal.Decimal `json:"input_amount"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	GasCost     decimal.Decimal `json:"gas_cost"`
	NetProfit   decimal.Decimal `json:"net_profit"`
	Confidence  float64         `json:"confidence"` // heuristic reliability score in [0,1]
}

// TokenPath returns the ordered token sequence of the route: two tokens for a
// direct route, four (first == last) for a triangular one.
func (r *RouteCandidate) TokenPath() []string {
	switch r.Kind {
	case RouteDirect:
		if r.Direct == nil {
			return nil
		}
		base, quote, ok := SplitSymbol(r.Direct.Symbol)
		if !ok {
			return nil
		}
		return []string{base, quote}
	case RouteTriangular:
		if r.Triangular == nil {
			return nil
		}
		return r.Triangular.Path
	}
	return nil
}

// Label returns a short human-readable identifier for the route.
func (r *RouteCandidate) Label() string {
	switch r.Kind {
	case RouteDirect:
		if r.Direct != nil {
			return r.Direct.Symbol
		}
	case RouteTriangular:
		if r.Triangular != nil {
			return r.Triangular.Base + "_TRIANGULAR"
		}
	}
	return string(r.Kind)
}

// PriceDifference describes a cross-venue spread for one symbol.
type PriceDifference struct {
	Symbol    string          `json:"symbol"`
	LowPrice  decimal.Decimal `json:"low_price"`
	HighPrice decimal.Decimal `json:"high_price"`
	BuyVenue  string          `json:"buy_venue"`
	SellVenue string          `json:"sell_venue"`
	Absolute  decimal.Decimal `json:"absolute"`
	Percent   decimal.Decimal `json:"percent"`
	Liquidity decimal.Decimal `json:"liquidity"` // min of the two venues
}

// ScanResult is the output of one scan cycle: a bounded ranked route list plus
// the cross-venue differences observed in the snapshot.
type ScanResult struct {
	ScanID         string             `json:"scan_id"`
	StartedAt      int64              `json:"started_at"`  // Unix ms
	FinishedAt     int64              `json:"finished_at"` // Unix ms
	Symbols        int                `json:"symbols"`
	Pools          int                `json:"pools"`
	PathsEvaluated int                `json:"paths_evaluated"`
	Routes         []*RouteCandidate  `json:"routes"`
	Differences    []*PriceDifference `json:"differences"`
}
