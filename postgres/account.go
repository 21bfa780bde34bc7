package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/lukasz-zimnoch/dexly/portfolio"
)

func (ls *LedgerStore) OpenAccount(
	ctx context.Context,
	account *portfolio.Account,
) error {
	query := `INSERT INTO account (id, cash, created) 
		VALUES (:id, :cash, :created)`

	_, err := ls.client.instance().NamedExecContext(
		ctx,
		query,
		new(accountRow).wrap(account),
	)
	if err != nil {
		return storeError(
			fmt.Sprintf("insert account [%v]", account.ID.String()),
			err,
		)
	}

	return nil
}

type accountRow struct {
	ID      string
	Cash    pgtype.Numeric
	Created time.Time
}

func (ar *accountRow) wrap(account *portfolio.Account) *accountRow {
	ar.ID = account.ID.String()
	ar.Cash = decimalToNumeric(account.Cash)
	ar.Created = account.Created

	return ar
}

func (ar *accountRow) unwrap(
	idService portfolio.IDService,
) (*portfolio.Account, error) {
	ID, err := idService.NewIDFromString(ar.ID)
	if err != nil {
		return nil, err
	}

	cash, err := numericToDecimal(ar.Cash)
	if err != nil {
		return nil, err
	}

	return &portfolio.Account{
		ID:      ID,
		Cash:    cash,
		Created: ar.Created,
	}, nil
}
