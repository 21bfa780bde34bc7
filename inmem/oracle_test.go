package inmem

import (
	"context"
	"errors"
	"testing"

	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

func TestPriceOracle_Quote(t *testing.T) {
	oracle := NewPriceOracle()
	oracle.SetPrice("abc", "", decimal.RequireFromString("5.25"))

	quote, err := oracle.Quote(context.Background(), " Abc ")
	if err != nil {
		t.Fatal(err)
	}

	if quote.Symbol != "ABC" || quote.Name != "ABC" {
		t.Errorf("unexpected quote: [%v]", quote)
	}

	if !quote.Price.Equal(decimal.RequireFromString("5.25")) {
		t.Errorf(
			"unexpected price\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			"5.25",
			quote.Price.String(),
		)
	}
}

func TestPriceOracle_UnknownSymbol(t *testing.T) {
	oracle := NewPriceOracle()
	oracle.SetPrice("ABC", "Abc Corp", decimal.RequireFromString("1"))
	oracle.RemovePrice("ABC")

	_, err := oracle.Quote(context.Background(), "ABC")
	if !errors.Is(err, portfolio.ErrUnknownSymbol) {
		t.Errorf(
			"unexpected error\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			portfolio.ErrUnknownSymbol,
			err,
		)
	}
}

func TestPriceOracle_CanceledContext(t *testing.T) {
	oracle := NewPriceOracle()
	oracle.SetPrice("ABC", "", decimal.RequireFromString("1"))

	ctx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()

	if _, err := oracle.Quote(ctx, "ABC"); err == nil {
		t.Errorf("expected error for canceled context")
	}
}
