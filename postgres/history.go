package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jmoiron/sqlx"
	"github.com/lukasz-zimnoch/dexly/portfolio"
)

func (lt *ledgerTx) AppendHistory(entry *portfolio.HistoryEntry) error {
	if err := lt.checkWritable(); err != nil {
		return err
	}

	query := `INSERT INTO 
		history_entry (id, account_id, symbol, direction, quantity, 
		               unit_price, time) 
		VALUES (:id, :account_id, :symbol, :direction, :quantity, 
		        :unit_price, :time) 
		RETURNING sequence`

	boundQuery, args, err := sqlx.Named(query, new(historyEntryRow).wrap(entry))
	if err != nil {
		return fmt.Errorf("could not bind history entry [%v]: [%v]", entry.ID, err)
	}

	var sequence int64

	err = lt.tx.QueryRowxContext(lt.ctx, lt.tx.Rebind(boundQuery), args...).
		Scan(&sequence)
	if err != nil {
		return storeError(
			fmt.Sprintf("insert history entry [%v]", entry.ID),
			err,
		)
	}

	entry.Sequence = sequence

	return nil
}

func (lt *ledgerTx) History() ([]*portfolio.HistoryEntry, error) {
	var rows []historyEntryRow

	query := `SELECT sequence, id, account_id, symbol, direction, quantity, 
		       unit_price, time 
		FROM history_entry 
		WHERE account_id = $1 
		ORDER BY sequence ASC`

	err := lt.tx.SelectContext(lt.ctx, &rows, query, lt.accountID.String())
	if err != nil {
		return nil, storeError("select history", err)
	}

	history := make([]*portfolio.HistoryEntry, len(rows))
	for index := range rows {
		history[index], err = rows[index].unwrap(lt.idService)
		if err != nil {
			return nil, fmt.Errorf(
				"could not convert history entry [%v] from pg row: [%v]",
				rows[index].ID,
				err,
			)
		}
	}

	return history, nil
}

type historyEntryRow struct {
	Sequence  int64
	ID        string
	AccountID string `db:"account_id"`
	Symbol    string
	Direction string
	Quantity  int64
	UnitPrice pgtype.Numeric `db:"unit_price"`
	Time      time.Time
}

func (hr *historyEntryRow) wrap(entry *portfolio.HistoryEntry) *historyEntryRow {
	hr.Sequence = entry.Sequence
	hr.ID = entry.ID.String()
	hr.AccountID = entry.AccountID.String()
	hr.Symbol = entry.Symbol
	hr.Direction = entry.Direction.String()
	hr.Quantity = entry.Quantity
	hr.UnitPrice = decimalToNumeric(entry.UnitPrice)
	hr.Time = entry.Time

	return hr
}

func (hr *historyEntryRow) unwrap(
	idService portfolio.IDService,
) (*portfolio.HistoryEntry, error) {
	ID, err := idService.NewIDFromString(hr.ID)
	if err != nil {
		return nil, err
	}

	accountID, err := idService.NewIDFromString(hr.AccountID)
	if err != nil {
		return nil, err
	}

	direction, err := portfolio.ParseDirection(hr.Direction)
	if err != nil {
		return nil, err
	}

	unitPrice, err := numericToDecimal(hr.UnitPrice)
	if err != nil {
		return nil, err
	}

	return &portfolio.HistoryEntry{
		ID:        ID,
		AccountID: accountID,
		Sequence:  hr.Sequence,
		Symbol:    hr.Symbol,
		Direction: direction,
		Quantity:  hr.Quantity,
		UnitPrice: unitPrice,
		Time:      hr.Time,
	}, nil
}
