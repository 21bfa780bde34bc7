package portfolio

import (
	"fmt"
	"strconv"
	"strings"
)

type TradeRequest struct {
	Symbol   string
	Quantity int64
}

// ParseTradeRequest validates raw trade fields. The symbol is normalized
// and the quantity must be a base-10 positive integer without sign.
func ParseTradeRequest(symbol, quantity string) (*TradeRequest, error) {
	normalizedSymbol, err := validateSymbol(symbol)
	if err != nil {
		return nil, err
	}

	quantity = strings.TrimSpace(quantity)
	if len(quantity) == 0 {
		return nil, fmt.Errorf("%w: quantity is missing", ErrInvalidInput)
	}

	for _, char := range quantity {
		if char < '0' || char > '9' {
			return nil, fmt.Errorf(
				"%w: quantity [%v] is not a whole number",
				ErrInvalidInput,
				quantity,
			)
		}
	}

	parsedQuantity, err := strconv.ParseInt(quantity, 10, 64)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: quantity [%v] is out of range",
			ErrInvalidInput,
			quantity,
		)
	}

	if err := validateQuantity(parsedQuantity); err != nil {
		return nil, err
	}

	return &TradeRequest{
		Symbol:   normalizedSymbol,
		Quantity: parsedQuantity,
	}, nil
}

func validateSymbol(symbol string) (string, error) {
	normalizedSymbol := NormalizeSymbol(symbol)
	if len(normalizedSymbol) == 0 {
		return "", fmt.Errorf("%w: symbol is missing", ErrInvalidInput)
	}

	return normalizedSymbol, nil
}

func validateQuantity(quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf(
			"%w: quantity must be positive, got [%v]",
			ErrInvalidInput,
			quantity,
		)
	}

	return nil
}
