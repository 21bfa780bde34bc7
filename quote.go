package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceOracle resolves the current price of an instrument. Implementations
// return an error wrapping ErrUnknownSymbol when the symbol has no match.
type PriceOracle interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

func (q *Quote) String() string {
	return fmt.Sprintf("%v (%v): %v", q.Symbol, q.Name, q.Price.String())
}

// NormalizeSymbol trims and upper-cases an instrument symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
