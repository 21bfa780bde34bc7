package ristretto

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/lukasz-zimnoch/dexly/portfolio/inmem"
	"github.com/shopspring/decimal"
)

type countingOracle struct {
	oracle portfolio.PriceOracle
	calls  int32
}

func (co *countingOracle) Quote(
	ctx context.Context,
	symbol string,
) (*portfolio.Quote, error) {
	atomic.AddInt32(&co.calls, 1)
	return co.oracle.Quote(ctx, symbol)
}

func TestPriceOracle_CachesQuotes(t *testing.T) {
	source := inmem.NewPriceOracle()
	source.SetPrice("AAPL", "Apple Inc.", decimal.NewFromInt(150))

	counting := &countingOracle{oracle: source}

	oracle, err := NewPriceOracle(counting, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer oracle.Close()

	first, err := oracle.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}

	oracle.Wait()

	source.SetPrice("AAPL", "Apple Inc.", decimal.NewFromInt(160))

	second, err := oracle.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}

	if !second.Price.Equal(first.Price) {
		t.Errorf(
			"unexpected price\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			first.Price,
			second.Price,
		)
	}

	if calls := atomic.LoadInt32(&counting.calls); calls != 1 {
		t.Errorf(
			"unexpected calls count\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			1,
			calls,
		)
	}
}

func TestPriceOracle_DoesNotCacheErrors(t *testing.T) {
	source := inmem.NewPriceOracle()
	counting := &countingOracle{oracle: source}

	oracle, err := NewPriceOracle(counting, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer oracle.Close()

	_, err = oracle.Quote(context.Background(), "NFLX")
	if !errors.Is(err, portfolio.ErrUnknownSymbol) {
		t.Fatalf("unexpected error [%v]", err)
	}

	oracle.Wait()

	source.SetPrice("NFLX", "Netflix Inc.", decimal.NewFromInt(500))

	quote, err := oracle.Quote(context.Background(), "NFLX")
	if err != nil {
		t.Fatal(err)
	}

	if !quote.Price.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected price [%v]", quote.Price)
	}
}
