package ristretto

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/lukasz-zimnoch/dexly/portfolio"
)

const (
	cacheCounters    = 1e5
	cacheMaxCost     = 1 << 14
	cacheBufferItems = 64
)

// PriceOracle serves quotes of the wrapped oracle from a TTL cache.
// Only successful quotes are cached.
type PriceOracle struct {
	oracle portfolio.PriceOracle
	cache  *ristretto.Cache
	ttl    time.Duration
}

func NewPriceOracle(
	oracle portfolio.PriceOracle,
	ttl time.Duration,
) (*PriceOracle, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create quote cache: [%v]", err)
	}

	return &PriceOracle{oracle, cache, ttl}, nil
}

func (po *PriceOracle) Quote(
	ctx context.Context,
	symbol string,
) (*portfolio.Quote, error) {
	if cached, ok := po.cache.Get(symbol); ok {
		quote := *cached.(*portfolio.Quote)
		return &quote, nil
	}

	quote, err := po.oracle.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	stored := *quote
	po.cache.SetWithTTL(symbol, &stored, 1, po.ttl)

	return quote, nil
}

// Wait blocks until pending cache writes are applied.
func (po *PriceOracle) Wait() {
	po.cache.Wait()
}

func (po *PriceOracle) Close() {
	po.cache.Close()
}
