package portfolio

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestHolding_RemoveProportionally(t *testing.T) {
	holding := &Holding{
		Symbol:    "ABC",
		Quantity:  3,
		CostBasis: decimal.RequireFromString("100"),
	}

	if err := holding.remove(1); err != nil {
		t.Fatal(err)
	}

	expectedBasis := decimal.RequireFromString("66.66666667")

	if holding.Quantity != 2 || !holding.CostBasis.Equal(expectedBasis) {
		t.Errorf(
			"unexpected holding\n"+
				"expected: [%v x %v]\n"+
				"actual:   [%v x %v]",
			2,
			expectedBasis.String(),
			holding.Quantity,
			holding.CostBasis.String(),
		)
	}

	if err := holding.remove(2); err != nil {
		t.Fatal(err)
	}

	if holding.Quantity != 0 || !holding.CostBasis.IsZero() {
		t.Errorf("unexpected holding after full removal: [%v]", holding)
	}
}

func TestHolding_RemoveTooMuch(t *testing.T) {
	holding := &Holding{
		Symbol:    "ABC",
		Quantity:  6,
		CostBasis: decimal.RequireFromString("3000"),
	}

	err := holding.remove(10)
	if !errors.Is(err, ErrInsufficientShares) {
		t.Errorf(
			"unexpected error\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			ErrInsufficientShares,
			err,
		)
	}

	if holding.Quantity != 6 || !holding.CostBasis.Equal(decimal.RequireFromString("3000")) {
		t.Errorf("holding changed by rejected removal: [%v]", holding)
	}
}

func TestHolding_AddOverflow(t *testing.T) {
	holding := &Holding{
		Symbol:    "ABC",
		Quantity:  math.MaxInt64 - 1,
		CostBasis: decimal.Zero,
	}

	if err := holding.add(2, decimal.Zero); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unexpected error: [%v]", err)
	}

	if holding.Quantity != math.MaxInt64-1 {
		t.Errorf("holding changed by rejected add: [%v]", holding)
	}
}

func TestHolding_AveragePrice(t *testing.T) {
	holding := &Holding{
		Symbol:    "ABC",
		Quantity:  4,
		CostBasis: decimal.RequireFromString("10"),
	}

	if !holding.AveragePrice().Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("unexpected average price: [%v]", holding.AveragePrice())
	}

	empty := &Holding{Symbol: "ABC"}

	if !empty.AveragePrice().IsZero() {
		t.Errorf("unexpected average price of empty holding: [%v]", empty.AveragePrice())
	}
}

func TestDirection_Parse(t *testing.T) {
	for _, direction := range []Direction{Buy, Sell} {
		parsed, err := ParseDirection(direction.String())
		if err != nil {
			t.Fatal(err)
		}

		if parsed != direction {
			t.Errorf(
				"unexpected direction\n"+
					"expected: [%v]\n"+
					"actual:   [%v]",
				direction,
				parsed,
			)
		}
	}

	if _, err := ParseDirection("HOLD"); err == nil {
		t.Errorf("expected error for unknown direction")
	}
}
