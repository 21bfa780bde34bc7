package portfolio

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountDirectory registers new accounts. Authentication and the mapping
// of callers to accounts live outside the ledger.
type AccountDirectory interface {
	OpenAccount(ctx context.Context, account *Account) error
}

// Account is the tradable cash position of one user. Cash is never
// negative outside of a transaction.
type Account struct {
	ID      ID
	Cash    decimal.Decimal
	Created time.Time
}
