package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultQuoteTimeout  = 5 * time.Second
	defaultMaxTxAttempts = 3
	defaultRetryBackoff  = 50 * time.Millisecond
)

type LedgerConfig struct {
	// QuoteTimeout bounds a single price oracle lookup.
	QuoteTimeout time.Duration
	// MaxTxAttempts is the number of times a trade transaction is run when
	// the store reports write conflicts.
	MaxTxAttempts int
	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration
}

func DefaultLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		QuoteTimeout:  defaultQuoteTimeout,
		MaxTxAttempts: defaultMaxTxAttempts,
		RetryBackoff:  defaultRetryBackoff,
	}
}

// Trade is the result of an executed buy or sell.
type Trade struct {
	*HistoryEntry

	// Cash is the account balance right after the trade.
	Cash decimal.Decimal
	// Holding is the position right after the trade, nil when the trade
	// closed it.
	Holding *Holding
}

// Ledger executes trades against a LedgerStore using prices supplied by
// a PriceOracle and owns the account, holding and history invariants.
type Ledger struct {
	config    *LedgerConfig
	store     LedgerStore
	directory AccountDirectory
	oracle    PriceOracle
	idService IDService
	logger    Logger
}

func NewLedger(
	config *LedgerConfig,
	store LedgerStore,
	directory AccountDirectory,
	oracle PriceOracle,
	idService IDService,
	logger Logger,
) *Ledger {
	if config == nil {
		config = DefaultLedgerConfig()
	}

	if config.MaxTxAttempts < 1 {
		config.MaxTxAttempts = 1
	}

	return &Ledger{
		config:    config,
		store:     store,
		directory: directory,
		oracle:    oracle,
		idService: idService,
		logger:    logger,
	}
}

// OpenAccount registers a new account endowed with the given cash.
func (l *Ledger) OpenAccount(
	ctx context.Context,
	cash decimal.Decimal,
) (*Account, error) {
	if cash.IsNegative() {
		return nil, fmt.Errorf(
			"%w: starting cash must not be negative, got [%v]",
			ErrInvalidInput,
			cash.String(),
		)
	}

	account := &Account{
		ID:      l.idService.NewID(),
		Cash:    cash,
		Created: time.Now().UTC(),
	}

	if err := l.directory.OpenAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("could not open account: [%w]", err)
	}

	l.logger.WithField("account", account.ID.String()).Infof(
		"opened account with cash [%v]",
		cash.String(),
	)

	return account, nil
}

// Quote resolves the current price of the symbol.
func (l *Ledger) Quote(ctx context.Context, symbol string) (*Quote, error) {
	normalizedSymbol, err := validateSymbol(symbol)
	if err != nil {
		return nil, err
	}

	return l.quote(ctx, normalizedSymbol)
}

func (l *Ledger) ExecuteBuy(
	ctx context.Context,
	accountID ID,
	symbol string,
	quantity int64,
) (*Trade, error) {
	symbol, err := validateTrade(accountID, symbol, quantity)
	if err != nil {
		return nil, err
	}

	quote, err := l.quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var trade *Trade

	err = l.transact(ctx, accountID, func(tx LedgerTx) error {
		account, err := tx.Account()
		if err != nil {
			return err
		}

		cost := quote.Price.Mul(decimal.NewFromInt(quantity))

		cash := account.Cash.Sub(cost)
		if cash.IsNegative() {
			return fmt.Errorf(
				"%w: cost [%v] exceeds cash [%v]",
				ErrInsufficientFunds,
				cost.String(),
				account.Cash.String(),
			)
		}

		if err := tx.UpdateCash(cash); err != nil {
			return err
		}

		holding, err := tx.Holding(symbol)
		if err != nil {
			return err
		}

		if holding == nil {
			holding = &Holding{
				AccountID: accountID,
				Symbol:    symbol,
				CostBasis: decimal.Zero,
			}
		}

		if err := holding.add(quantity, cost); err != nil {
			return err
		}

		if err := tx.SaveHolding(holding); err != nil {
			return err
		}

		entry := l.newHistoryEntry(accountID, symbol, Buy, quantity, quote.Price)

		if err := tx.AppendHistory(entry); err != nil {
			return err
		}

		trade = &Trade{HistoryEntry: entry, Cash: cash, Holding: holding}

		return nil
	})
	if err != nil {
		return nil, l.tradeError(accountID, symbol, Buy, err)
	}

	l.logTrade(trade)

	return trade, nil
}

func (l *Ledger) ExecuteSell(
	ctx context.Context,
	accountID ID,
	symbol string,
	quantity int64,
) (*Trade, error) {
	symbol, err := validateTrade(accountID, symbol, quantity)
	if err != nil {
		return nil, err
	}

	// Proceeds depend on the execution price only; the acquisition price
	// just drives the reported cost basis.
	quote, err := l.quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var trade *Trade

	err = l.transact(ctx, accountID, func(tx LedgerTx) error {
		account, err := tx.Account()
		if err != nil {
			return err
		}

		holding, err := tx.Holding(symbol)
		if err != nil {
			return err
		}

		if holding == nil {
			return fmt.Errorf("%w: [%v]", ErrNoSuchHolding, symbol)
		}

		if err := holding.remove(quantity); err != nil {
			return err
		}

		proceeds := quote.Price.Mul(decimal.NewFromInt(quantity))
		cash := account.Cash.Add(proceeds)

		if err := tx.UpdateCash(cash); err != nil {
			return err
		}

		if holding.Quantity == 0 {
			if err := tx.DeleteHolding(symbol); err != nil {
				return err
			}

			holding = nil
		} else {
			if err := tx.SaveHolding(holding); err != nil {
				return err
			}
		}

		entry := l.newHistoryEntry(accountID, symbol, Sell, quantity, quote.Price)

		if err := tx.AppendHistory(entry); err != nil {
			return err
		}

		trade = &Trade{HistoryEntry: entry, Cash: cash, Holding: holding}

		return nil
	})
	if err != nil {
		return nil, l.tradeError(accountID, symbol, Sell, err)
	}

	l.logTrade(trade)

	return trade, nil
}

// Holdings returns the stored holdings of the account without pricing
// them.
func (l *Ledger) Holdings(
	ctx context.Context,
	accountID ID,
) ([]*Holding, error) {
	if accountID == nil {
		return nil, fmt.Errorf("%w: account is missing", ErrInvalidInput)
	}

	var holdings []*Holding

	err := l.store.View(ctx, accountID, func(tx LedgerTx) error {
		if _, err := tx.Account(); err != nil {
			return err
		}

		var err error
		holdings, err = tx.Holdings()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not read holdings: [%w]", err)
	}

	return holdings, nil
}

// TransactionHistory returns every history entry of the account, newest
// first.
func (l *Ledger) TransactionHistory(
	ctx context.Context,
	accountID ID,
) ([]*HistoryEntry, error) {
	if accountID == nil {
		return nil, fmt.Errorf("%w: account is missing", ErrInvalidInput)
	}

	var history []*HistoryEntry

	err := l.store.View(ctx, accountID, func(tx LedgerTx) error {
		if _, err := tx.Account(); err != nil {
			return err
		}

		var err error
		history, err = tx.History()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not read history: [%w]", err)
	}

	for left, right := 0, len(history)-1; left < right; left, right = left+1, right-1 {
		history[left], history[right] = history[right], history[left]
	}

	return history, nil
}

func (l *Ledger) transact(
	ctx context.Context,
	accountID ID,
	fn func(tx LedgerTx) error,
) error {
	var err error

	for attempt := 1; attempt <= l.config.MaxTxAttempts; attempt++ {
		err = l.store.Transact(ctx, accountID, fn)
		if !errors.Is(err, ErrTxConflict) {
			return err
		}

		l.logger.WithField("account", accountID.String()).Warningf(
			"transaction conflict on attempt [%v/%v]: [%v]",
			attempt,
			l.config.MaxTxAttempts,
			err,
		)

		if attempt == l.config.MaxTxAttempts {
			break
		}

		select {
		case <-time.After(time.Duration(attempt) * l.config.RetryBackoff):
		case <-ctx.Done():
			return fmt.Errorf(
				"%w: retry interrupted: [%v]",
				ErrStoreUnavailable,
				ctx.Err(),
			)
		}
	}

	return fmt.Errorf(
		"could not commit after [%v] attempts: [%w]",
		l.config.MaxTxAttempts,
		err,
	)
}

func (l *Ledger) quote(ctx context.Context, symbol string) (*Quote, error) {
	quoteCtx, cancelQuoteCtx := context.WithTimeout(ctx, l.config.QuoteTimeout)
	defer cancelQuoteCtx()

	type quoteResult struct {
		quote *Quote
		err   error
	}

	resultChan := make(chan quoteResult, 1)

	go func() {
		quote, err := l.oracle.Quote(quoteCtx, symbol)
		resultChan <- quoteResult{quote, err}
	}()

	select {
	case result := <-resultChan:
		if result.err != nil {
			if errors.Is(result.err, ErrUnknownSymbol) {
				return nil, fmt.Errorf(
					"could not get quote for [%v]: [%w]",
					symbol,
					result.err,
				)
			}

			return nil, fmt.Errorf(
				"%w: could not get quote for [%v]: [%v]",
				ErrPriceUnavailable,
				symbol,
				result.err,
			)
		}

		if result.quote == nil || !result.quote.Price.IsPositive() {
			return nil, fmt.Errorf(
				"%w: oracle returned no usable price for [%v]",
				ErrPriceUnavailable,
				symbol,
			)
		}

		return result.quote, nil
	case <-quoteCtx.Done():
		return nil, fmt.Errorf(
			"%w: quote for [%v] not received: [%v]",
			ErrPriceUnavailable,
			symbol,
			quoteCtx.Err(),
		)
	}
}

func (l *Ledger) newHistoryEntry(
	accountID ID,
	symbol string,
	direction Direction,
	quantity int64,
	unitPrice decimal.Decimal,
) *HistoryEntry {
	return &HistoryEntry{
		ID:        l.idService.NewID(),
		AccountID: accountID,
		Symbol:    symbol,
		Direction: direction,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Time:      time.Now().UTC(),
	}
}

func (l *Ledger) tradeError(
	accountID ID,
	symbol string,
	direction Direction,
	err error,
) error {
	tradeLogger := l.logger.WithFields(map[string]interface{}{
		"account":   accountID.String(),
		"symbol":    symbol,
		"direction": direction.String(),
	})

	switch KindOf(err) {
	case KindInsufficientFunds, KindNoSuchHolding, KindInsufficientShares,
		KindAccountNotFound, KindInvalidInput:
		tradeLogger.Debugf("trade rejected: [%v]", err)
	default:
		tradeLogger.Errorf("trade failed: [%v]", err)
	}

	return fmt.Errorf(
		"could not execute %v of [%v]: [%w]",
		direction.String(),
		symbol,
		err,
	)
}

func (l *Ledger) logTrade(trade *Trade) {
	l.logger.WithFields(map[string]interface{}{
		"account":   trade.AccountID.String(),
		"symbol":    trade.Symbol,
		"direction": trade.Direction.String(),
	}).Infof(
		"executed trade [%v], cash [%v]",
		trade.HistoryEntry.String(),
		trade.Cash.String(),
	)
}

func validateTrade(accountID ID, symbol string, quantity int64) (string, error) {
	if accountID == nil {
		return "", fmt.Errorf("%w: account is missing", ErrInvalidInput)
	}

	normalizedSymbol, err := validateSymbol(symbol)
	if err != nil {
		return "", err
	}

	if err := validateQuantity(quantity); err != nil {
		return "", err
	}

	return normalizedSymbol, nil
}
