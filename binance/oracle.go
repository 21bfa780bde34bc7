package binance

import (
	"context"
	"errors"
	"fmt"

	"github.com/adshao/go-binance"
	"github.com/adshao/go-binance/common"
	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

const codeInvalidSymbol = -1121

// PriceOracle quotes the latest traded price of Binance symbols, e.g.
// BTCUSDT. Binance carries no display names so symbols double as names.
type PriceOracle struct {
	client *binance.Client
}

func NewPriceOracle(apiKey, secretKey string) *PriceOracle {
	return &PriceOracle{client: binance.NewClient(apiKey, secretKey)}
}

func newPriceOracleWithBaseURL(baseURL string) *PriceOracle {
	oracle := NewPriceOracle("", "")
	oracle.client.BaseURL = baseURL
	return oracle
}

func (po *PriceOracle) Quote(
	ctx context.Context,
	symbol string,
) (*portfolio.Quote, error) {
	prices, err := po.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeInvalidSymbol {
			return nil, fmt.Errorf(
				"%w: [%v]",
				portfolio.ErrUnknownSymbol,
				symbol,
			)
		}

		return nil, fmt.Errorf(
			"%w: could not list prices of [%v]: [%v]",
			portfolio.ErrPriceUnavailable,
			symbol,
			err,
		)
	}

	for _, price := range prices {
		if price.Symbol != symbol {
			continue
		}

		value, err := decimal.NewFromString(price.Price)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: malformed price [%v] of [%v]: [%v]",
				portfolio.ErrPriceUnavailable,
				price.Price,
				symbol,
				err,
			)
		}

		if !value.IsPositive() {
			return nil, fmt.Errorf(
				"%w: non-positive price [%v] of [%v]",
				portfolio.ErrPriceUnavailable,
				value,
				symbol,
			)
		}

		return &portfolio.Quote{
			Symbol: symbol,
			Name:   symbol,
			Price:  value,
		}, nil
	}

	return nil, fmt.Errorf("%w: [%v]", portfolio.ErrUnknownSymbol, symbol)
}
