package portfolio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// costBasisScale is the number of decimal places kept when a partial sell
// scales the cost basis down.
const costBasisScale = 8

// Holding is the aggregated position of an account in one instrument.
// A stored holding always has a positive quantity.
type Holding struct {
	AccountID ID
	Symbol    string
	Quantity  int64
	CostBasis decimal.Decimal
}

// AveragePrice is the average acquisition price of the held quantity.
func (h *Holding) AveragePrice() decimal.Decimal {
	if h.Quantity == 0 {
		return decimal.Zero
	}

	return h.CostBasis.Div(decimal.NewFromInt(h.Quantity))
}

func (h *Holding) add(quantity int64, cost decimal.Decimal) error {
	if quantity > math.MaxInt64-h.Quantity {
		return fmt.Errorf(
			"%w: quantity [%v] overflows holding of [%v]",
			ErrInvalidInput,
			quantity,
			h.Quantity,
		)
	}

	h.Quantity += quantity
	h.CostBasis = h.CostBasis.Add(cost)

	return nil
}

// remove takes quantity out of the holding, reducing the cost basis
// proportionally so the average price of the remainder is unchanged.
func (h *Holding) remove(quantity int64) error {
	if quantity > h.Quantity {
		return fmt.Errorf(
			"%w: requested [%v], held [%v]",
			ErrInsufficientShares,
			quantity,
			h.Quantity,
		)
	}

	remaining := h.Quantity - quantity

	if remaining == 0 {
		h.CostBasis = decimal.Zero
	} else {
		h.CostBasis = h.CostBasis.
			Mul(decimal.NewFromInt(remaining)).
			Div(decimal.NewFromInt(h.Quantity)).
			Round(costBasisScale)
	}

	h.Quantity = remaining

	return nil
}

func (h *Holding) String() string {
	return fmt.Sprintf(
		"%v x %v, cost basis %v",
		h.Symbol,
		h.Quantity,
		h.CostBasis.String(),
	)
}
