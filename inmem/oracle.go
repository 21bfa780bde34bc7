package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

// PriceOracle serves quotes from a fixed, mutable price list.
type PriceOracle struct {
	quotesMutex sync.RWMutex
	quotes      map[string]portfolio.Quote
}

func NewPriceOracle() *PriceOracle {
	return &PriceOracle{
		quotes: make(map[string]portfolio.Quote),
	}
}

func (po *PriceOracle) SetPrice(symbol, name string, price decimal.Decimal) {
	po.quotesMutex.Lock()
	defer po.quotesMutex.Unlock()

	symbol = portfolio.NormalizeSymbol(symbol)

	if len(name) == 0 {
		name = symbol
	}

	po.quotes[symbol] = portfolio.Quote{
		Symbol: symbol,
		Name:   name,
		Price:  price,
	}
}

func (po *PriceOracle) RemovePrice(symbol string) {
	po.quotesMutex.Lock()
	defer po.quotesMutex.Unlock()

	delete(po.quotes, portfolio.NormalizeSymbol(symbol))
}

func (po *PriceOracle) Quote(
	ctx context.Context,
	symbol string,
) (*portfolio.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	po.quotesMutex.RLock()
	defer po.quotesMutex.RUnlock()

	quote, exists := po.quotes[portfolio.NormalizeSymbol(symbol)]
	if !exists {
		return nil, fmt.Errorf("%w: [%v]", portfolio.ErrUnknownSymbol, symbol)
	}

	return &quote, nil
}
