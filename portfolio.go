package portfolio

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Position is a holding priced at query time.
type Position struct {
	*Holding

	Name         string
	AveragePrice decimal.Decimal
	CurrentPrice decimal.Decimal
	MarketValue  decimal.Decimal
}

type Portfolio struct {
	AccountID     ID
	Cash          decimal.Decimal
	Positions     []*Position
	HoldingsValue decimal.Decimal
	GrandTotal    decimal.Decimal
}

// CurrentPortfolio prices every holding of the account with a fresh quote.
// The call fails with ErrPriceUnavailable as soon as one of the holdings
// cannot be priced.
func (l *Ledger) CurrentPortfolio(
	ctx context.Context,
	accountID ID,
) (*Portfolio, error) {
	if accountID == nil {
		return nil, fmt.Errorf("%w: account is missing", ErrInvalidInput)
	}

	var (
		account  *Account
		holdings []*Holding
	)

	err := l.store.View(ctx, accountID, func(tx LedgerTx) error {
		var err error

		account, err = tx.Account()
		if err != nil {
			return err
		}

		holdings, err = tx.Holdings()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not read portfolio: [%w]", err)
	}

	quotes, err := l.quoteAll(ctx, holdings)
	if err != nil {
		return nil, err
	}

	portfolio := &Portfolio{
		AccountID:     accountID,
		Cash:          account.Cash,
		Positions:     make([]*Position, len(holdings)),
		HoldingsValue: decimal.Zero,
	}

	for index, holding := range holdings {
		quote := quotes[index]
		marketValue := quote.Price.Mul(decimal.NewFromInt(holding.Quantity))

		portfolio.Positions[index] = &Position{
			Holding:      holding,
			Name:         quote.Name,
			AveragePrice: holding.AveragePrice(),
			CurrentPrice: quote.Price,
			MarketValue:  marketValue,
		}

		portfolio.HoldingsValue = portfolio.HoldingsValue.Add(marketValue)
	}

	portfolio.GrandTotal = portfolio.Cash.Add(portfolio.HoldingsValue)

	return portfolio, nil
}

// quoteAll looks the holdings up concurrently. Quotes are returned in the
// order of the holdings.
func (l *Ledger) quoteAll(
	ctx context.Context,
	holdings []*Holding,
) ([]*Quote, error) {
	quotes := make([]*Quote, len(holdings))
	errs := make([]error, len(holdings))

	var waitGroup sync.WaitGroup

	for index, holding := range holdings {
		waitGroup.Add(1)

		go func(index int, symbol string) {
			defer waitGroup.Done()
			quotes[index], errs[index] = l.quote(ctx, symbol)
		}(index, holding.Symbol)
	}

	waitGroup.Wait()

	for index, err := range errs {
		if err == nil {
			continue
		}

		if KindOf(err) == KindPriceUnavailable {
			return nil, err
		}

		return nil, fmt.Errorf(
			"%w: could not price holding [%v]: [%v]",
			ErrPriceUnavailable,
			holdings[index].Symbol,
			err,
		)
	}

	return quotes, nil
}
