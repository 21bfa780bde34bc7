package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgtype"
	"github.com/lukasz-zimnoch/dexly/portfolio"
)

func (lt *ledgerTx) Holding(symbol string) (*portfolio.Holding, error) {
	var row holdingRow

	query := `SELECT account_id, symbol, quantity, cost_basis FROM holding 
		WHERE account_id = $1 AND symbol = $2`

	err := lt.tx.GetContext(lt.ctx, &row, query, lt.accountID.String(), symbol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, storeError(fmt.Sprintf("get holding [%v]", symbol), err)
	}

	return row.unwrap(lt.idService)
}

func (lt *ledgerTx) Holdings() ([]*portfolio.Holding, error) {
	var rows []holdingRow

	query := `SELECT account_id, symbol, quantity, cost_basis FROM holding 
		WHERE account_id = $1 
		ORDER BY symbol ASC`

	err := lt.tx.SelectContext(lt.ctx, &rows, query, lt.accountID.String())
	if err != nil {
		return nil, storeError("select holdings", err)
	}

	holdings := make([]*portfolio.Holding, len(rows))
	for index := range rows {
		holdings[index], err = rows[index].unwrap(lt.idService)
		if err != nil {
			return nil, err
		}
	}

	return holdings, nil
}

func (lt *ledgerTx) SaveHolding(holding *portfolio.Holding) error {
	if err := lt.checkWritable(); err != nil {
		return err
	}

	query := `INSERT INTO 
		holding (account_id, symbol, quantity, cost_basis) 
		VALUES (:account_id, :symbol, :quantity, :cost_basis) 
		ON CONFLICT (account_id, symbol) DO UPDATE 
		SET quantity = EXCLUDED.quantity, cost_basis = EXCLUDED.cost_basis`

	_, err := lt.tx.NamedExecContext(lt.ctx, query, new(holdingRow).wrap(holding))
	if err != nil {
		return storeError(fmt.Sprintf("save holding [%v]", holding.Symbol), err)
	}

	return nil
}

func (lt *ledgerTx) DeleteHolding(symbol string) error {
	if err := lt.checkWritable(); err != nil {
		return err
	}

	_, err := lt.tx.ExecContext(
		lt.ctx,
		`DELETE FROM holding WHERE account_id = $1 AND symbol = $2`,
		lt.accountID.String(),
		symbol,
	)
	if err != nil {
		return storeError(fmt.Sprintf("delete holding [%v]", symbol), err)
	}

	return nil
}

type holdingRow struct {
	AccountID string `db:"account_id"`
	Symbol    string
	Quantity  int64
	CostBasis pgtype.Numeric `db:"cost_basis"`
}

func (hr *holdingRow) wrap(holding *portfolio.Holding) *holdingRow {
	hr.AccountID = holding.AccountID.String()
	hr.Symbol = holding.Symbol
	hr.Quantity = holding.Quantity
	hr.CostBasis = decimalToNumeric(holding.CostBasis)

	return hr
}

func (hr *holdingRow) unwrap(
	idService portfolio.IDService,
) (*portfolio.Holding, error) {
	accountID, err := idService.NewIDFromString(hr.AccountID)
	if err != nil {
		return nil, err
	}

	costBasis, err := numericToDecimal(hr.CostBasis)
	if err != nil {
		return nil, fmt.Errorf(
			"could not convert cost basis of [%v]: [%v]",
			hr.Symbol,
			err,
		)
	}

	return &portfolio.Holding{
		AccountID: accountID,
		Symbol:    hr.Symbol,
		Quantity:  hr.Quantity,
		CostBasis: costBasis,
	}, nil
}
