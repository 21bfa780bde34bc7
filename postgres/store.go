package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

// LedgerStore keeps the ledger in PostgreSQL. Every trade scope locks the
// account row with SELECT ... FOR UPDATE, so scopes of one account are
// serialized while different accounts never wait on each other.
type LedgerStore struct {
	client    *Client
	idService portfolio.IDService
}

func NewLedgerStore(
	client *Client,
	idService portfolio.IDService,
) *LedgerStore {
	return &LedgerStore{client, idService}
}

func (ls *LedgerStore) Transact(
	ctx context.Context,
	accountID portfolio.ID,
	fn func(tx portfolio.LedgerTx) error,
) error {
	return ls.run(
		ctx,
		accountID,
		&sql.TxOptions{Isolation: sql.LevelReadCommitted},
		fn,
	)
}

func (ls *LedgerStore) View(
	ctx context.Context,
	accountID portfolio.ID,
	fn func(tx portfolio.LedgerTx) error,
) error {
	return ls.run(
		ctx,
		accountID,
		&sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
		fn,
	)
}

func (ls *LedgerStore) run(
	ctx context.Context,
	accountID portfolio.ID,
	options *sql.TxOptions,
	fn func(tx portfolio.LedgerTx) error,
) error {
	dbTx, err := ls.client.instance().BeginTxx(ctx, options)
	if err != nil {
		return storeError("begin transaction", err)
	}

	tx := &ledgerTx{
		ctx:       ctx,
		tx:        dbTx,
		accountID: accountID,
		idService: ls.idService,
		readOnly:  options.ReadOnly,
	}

	if err := tx.loadAccount(); err != nil {
		ls.rollback(dbTx, accountID)
		return err
	}

	if err := fn(tx); err != nil {
		ls.rollback(dbTx, accountID)
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return commitError(err)
	}

	return nil
}

func (ls *LedgerStore) rollback(dbTx *sqlx.Tx, accountID portfolio.ID) {
	err := dbTx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		ls.client.logger.WithField("account", accountID.String()).Warningf(
			"could not roll back transaction: [%v]",
			err,
		)
	}
}

type ledgerTx struct {
	ctx       context.Context
	tx        *sqlx.Tx
	accountID portfolio.ID
	account   *portfolio.Account
	idService portfolio.IDService
	readOnly  bool
}

func (lt *ledgerTx) loadAccount() error {
	query := `SELECT id, cash, created FROM account WHERE id = $1`
	if !lt.readOnly {
		query += ` FOR UPDATE`
	}

	var row accountRow

	err := lt.tx.GetContext(lt.ctx, &row, query, lt.accountID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf(
				"%w: [%v]",
				portfolio.ErrAccountNotFound,
				lt.accountID.String(),
			)
		}

		return storeError("lock account", err)
	}

	account, err := row.unwrap(lt.idService)
	if err != nil {
		return fmt.Errorf(
			"%w: could not convert account [%v] from pg row: [%v]",
			portfolio.ErrStoreUnavailable,
			row.ID,
			err,
		)
	}

	lt.account = account

	return nil
}

func (lt *ledgerTx) Account() (*portfolio.Account, error) {
	account := *lt.account
	return &account, nil
}

func (lt *ledgerTx) UpdateCash(cash decimal.Decimal) error {
	if err := lt.checkWritable(); err != nil {
		return err
	}

	_, err := lt.tx.ExecContext(
		lt.ctx,
		`UPDATE account SET cash = $1 WHERE id = $2`,
		decimalToNumeric(cash),
		lt.accountID.String(),
	)
	if err != nil {
		return storeError("update cash", err)
	}

	lt.account.Cash = cash

	return nil
}

func (lt *ledgerTx) checkWritable() error {
	if lt.readOnly {
		return fmt.Errorf(
			"%w: write in read-only transaction",
			portfolio.ErrStoreUnavailable,
		)
	}

	return nil
}
