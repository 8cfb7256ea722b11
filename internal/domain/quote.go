package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Quote is a single price/liquidity observation for a trading pair on one venue.
// Quotes are immutable once ingested; every scan cycle works off a fresh snapshot.
type Quote struct {
	Symbol      string          // trading pair, e.g. "SOL/USDC"
	Price       decimal.Decimal // price of one base token in quote tokens
	Volume24h   decimal.Decimal
	Liquidity   decimal.Decimal // total pool liquidity in quote-token units
	Source      string          // venue identifier
	PoolAddress string          // optional venue pool account (base58), may be empty
	Timestamp   int64           // Unix timestamp in milliseconds
}

// Quote validation errors.
var (
	ErrNonPositivePrice  = errors.New("quote price must be positive")
	ErrNegativeLiquidity = errors.New("quote liquidity must not be negative")
	ErrEmptySymbol       = errors.New("quote symbol is empty")
)

// Validate reports whether the quote is acceptable for aggregation.
// Invalid quotes are dropped at ingestion, never propagated.
func (q *Quote) Validate() error {
	if q.Symbol == "" {
		return ErrEmptySymbol
	}
	if !q.Price.IsPositive() {
		return fmt.Errorf("%w: %s @ %s", ErrNonPositivePrice, q.Symbol, q.Price)
	}
	if q.Liquidity.IsNegative() {
		return fmt.Errorf("%w: %s @ %s", ErrNegativeLiquidity, q.Symbol, q.Liquidity)
	}
	return nil
}

// Tokens splits the pair symbol into base and quote token identifiers.
// ok is false when the symbol is not exactly two non-empty tokens separated by "/".
func (q *Quote) Tokens() (base, quote string, ok bool) {
	return SplitSymbol(q.Symbol)
}

// SplitSymbol parses a "BASE/QUOTE" pair symbol.
func SplitSymbol(symbol string) (base, quote string, ok bool) {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// QuoteSnapshot maps a pair symbol to all venue quotes observed for it at one
// instant. A symbol absent from the map means no venue quoted it.
type QuoteSnapshot map[string][]*Quote
