package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/lukasz-zimnoch/dexly/portfolio"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// isConflict tells whether the error reports a transaction aborted by a
// concurrent one. Such transactions are rolled back and can be retried.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == codeSerializationFailure ||
		pgErr.Code == codeDeadlockDetected
}

func storeError(action string, err error) error {
	if isConflict(err) {
		return fmt.Errorf(
			"%w: could not %v: [%v]",
			portfolio.ErrTxConflict,
			action,
			err,
		)
	}

	return fmt.Errorf(
		"%w: could not %v: [%v]",
		portfolio.ErrStoreUnavailable,
		action,
		err,
	)
}

// commitError classifies a failed commit. Apart from conflicts, which
// PostgreSQL reports after rolling back, the outcome cannot be known.
func commitError(err error) error {
	if isConflict(err) {
		return storeError("commit transaction", err)
	}

	return fmt.Errorf(
		"%w: could not commit transaction: [%v]",
		portfolio.ErrOutcomeUnknown,
		err,
	)
}
