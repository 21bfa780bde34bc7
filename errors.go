package portfolio

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNoSuchHolding      = errors.New("no such holding")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrPriceUnavailable   = errors.New("price unavailable")
	ErrAccountNotFound    = errors.New("account not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrTxConflict         = errors.New("transaction conflict")

	// ErrOutcomeUnknown means a commit was attempted but its result could
	// not be confirmed. The caller has to re-read the account state.
	ErrOutcomeUnknown = errors.New("transaction outcome unknown")
)

type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "invalid_input"
	KindUnknownSymbol      ErrorKind = "unknown_symbol"
	KindInsufficientFunds  ErrorKind = "insufficient_funds"
	KindNoSuchHolding      ErrorKind = "no_such_holding"
	KindInsufficientShares ErrorKind = "insufficient_shares"
	KindPriceUnavailable   ErrorKind = "price_unavailable"
	KindAccountNotFound    ErrorKind = "account_not_found"
	KindStoreUnavailable   ErrorKind = "store_unavailable"
	KindTxConflict         ErrorKind = "transaction_conflict"
	KindOutcomeUnknown     ErrorKind = "outcome_unknown"
	KindInternal           ErrorKind = "internal"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	// Ambiguous outcome wins over anything it may wrap.
	{ErrOutcomeUnknown, KindOutcomeUnknown},
	{ErrInvalidInput, KindInvalidInput},
	{ErrUnknownSymbol, KindUnknownSymbol},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrNoSuchHolding, KindNoSuchHolding},
	{ErrInsufficientShares, KindInsufficientShares},
	{ErrPriceUnavailable, KindPriceUnavailable},
	{ErrAccountNotFound, KindAccountNotFound},
	{ErrTxConflict, KindTxConflict},
	{ErrStoreUnavailable, KindStoreUnavailable},
}

// KindOf maps an error returned by the ledger to its stable kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	for _, entry := range errorKinds {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}

	return KindInternal
}
