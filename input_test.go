package portfolio

import (
	"errors"
	"testing"
)

func TestParseTradeRequest(t *testing.T) {
	request, err := ParseTradeRequest("  abc ", " 12 ")
	if err != nil {
		t.Fatal(err)
	}

	if request.Symbol != "ABC" || request.Quantity != 12 {
		t.Errorf(
			"unexpected request\n"+
				"expected: [%v x %v]\n"+
				"actual:   [%v x %v]",
			"ABC",
			12,
			request.Symbol,
			request.Quantity,
		)
	}
}

func TestParseTradeRequest_Invalid(t *testing.T) {
	inputs := []struct {
		symbol   string
		quantity string
	}{
		{"", "1"},
		{"   ", "1"},
		{"ABC", ""},
		{"ABC", "0"},
		{"ABC", "-1"},
		{"ABC", "+1"},
		{"ABC", "1.5"},
		{"ABC", "1e3"},
		{"ABC", "ten"},
		{"ABC", "99999999999999999999"},
	}

	for _, input := range inputs {
		_, err := ParseTradeRequest(input.symbol, input.quantity)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf(
				"unexpected error for [%q, %q]\n"+
					"expected: [%v]\n"+
					"actual:   [%v]",
				input.symbol,
				input.quantity,
				ErrInvalidInput,
				err,
			)
		}
	}
}
