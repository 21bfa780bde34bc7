package portfolio

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerStore keeps accounts, holdings and history entries. Transact runs
// fn in one atomic read-modify-write scope for the given account: either
// every write made through the LedgerTx is committed or none is. Scopes of
// the same account are serialized; scopes of different accounts are not
// ordered. Returning an error from fn discards the scope.
//
// View runs fn in a read-only scope observing a consistent snapshot of the
// account.
type LedgerStore interface {
	Transact(ctx context.Context, accountID ID, fn func(tx LedgerTx) error) error

	View(ctx context.Context, accountID ID, fn func(tx LedgerTx) error) error
}

type LedgerTx interface {
	Account() (*Account, error)

	UpdateCash(cash decimal.Decimal) error

	// Holding returns nil and no error when the account does not hold the
	// symbol.
	Holding(symbol string) (*Holding, error)

	// Holdings are ordered by symbol.
	Holdings() ([]*Holding, error)

	// SaveHolding creates the holding or replaces the stored one with the
	// same symbol.
	SaveHolding(holding *Holding) error

	DeleteHolding(symbol string) error

	// AppendHistory stores the entry and sets its Sequence.
	AppendHistory(entry *HistoryEntry) error

	// History is ordered by Sequence, oldest first.
	History() ([]*HistoryEntry, error)
}
