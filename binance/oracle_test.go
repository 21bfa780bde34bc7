package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(
		func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/api/v3/ticker/price" {
				t.Errorf("unexpected path [%v]", request.URL.Path)
				writer.WriteHeader(http.StatusNotFound)
				return
			}

			writer.Header().Set("Content-Type", "application/json")

			switch request.URL.Query().Get("symbol") {
			case "BTCUSDT":
				_, _ = writer.Write(
					[]byte(`[{"symbol":"BTCUSDT","price":"23456.78000000"}]`),
				)
			case "ZEROUSDT":
				_, _ = writer.Write(
					[]byte(`[{"symbol":"ZEROUSDT","price":"0.00000000"}]`),
				)
			case "DOWNUSDT":
				writer.WriteHeader(http.StatusInternalServerError)
				_, _ = writer.Write([]byte(`{"code":-1001,"msg":"Internal error."}`))
			default:
				writer.WriteHeader(http.StatusBadRequest)
				_, _ = writer.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
			}
		},
	))
}

func TestPriceOracle_Quote(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	oracle := newPriceOracleWithBaseURL(server.URL)

	quote, err := oracle.Quote(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatal(err)
	}

	expectedPrice := decimal.RequireFromString("23456.78")
	if !quote.Price.Equal(expectedPrice) {
		t.Errorf(
			"unexpected price\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			expectedPrice,
			quote.Price,
		)
	}

	if quote.Symbol != "BTCUSDT" || quote.Name != "BTCUSDT" {
		t.Errorf("unexpected quote [%+v]", quote)
	}
}

func TestPriceOracle_QuoteErrors(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	oracle := newPriceOracleWithBaseURL(server.URL)

	tests := map[string]error{
		"NOPE":     portfolio.ErrUnknownSymbol,
		"ZEROUSDT": portfolio.ErrPriceUnavailable,
		"DOWNUSDT": portfolio.ErrPriceUnavailable,
	}

	for symbol, expected := range tests {
		t.Run(symbol, func(t *testing.T) {
			_, err := oracle.Quote(context.Background(), symbol)
			if !errors.Is(err, expected) {
				t.Errorf(
					"unexpected error\n"+
						"expected: [%v]\n"+
						"actual:   [%v]",
					expected,
					err,
				)
			}
		})
	}
}

func TestPriceOracle_QuoteCancelled(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPriceOracleWithBaseURL(server.URL).Quote(ctx, "BTCUSDT")
	if !errors.Is(err, portfolio.ErrPriceUnavailable) {
		t.Errorf("unexpected error [%v]", err)
	}
}
