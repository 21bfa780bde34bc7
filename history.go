package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Direction int

const (
	Buy Direction = iota
	Sell
)

func ParseDirection(value string) (Direction, error) {
	switch value {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}

	return -1, fmt.Errorf("unknown direction: [%v]", value)
}

func (d Direction) String() string {
	switch d {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		panic("unknown direction")
	}
}

// HistoryEntry records one executed trade. Entries are append-only and
// Sequence, assigned by the store on append, fixes their commit order.
type HistoryEntry struct {
	ID        ID
	AccountID ID
	Sequence  int64
	Symbol    string
	Direction Direction
	Quantity  int64
	UnitPrice decimal.Decimal
	Time      time.Time
}

// Amount is the cash moved by the trade.
func (he *HistoryEntry) Amount() decimal.Decimal {
	return he.UnitPrice.Mul(decimal.NewFromInt(he.Quantity))
}

func (he *HistoryEntry) String() string {
	return fmt.Sprintf(
		"%v %v x %v @ %v",
		he.Direction.String(),
		he.Symbol,
		he.Quantity,
		he.UnitPrice.String(),
	)
}
