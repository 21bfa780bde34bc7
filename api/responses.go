package api

import (
	"time"

	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

type accountResponse struct {
	ID      string          `json:"id"`
	Cash    decimal.Decimal `json:"cash"`
	Created time.Time       `json:"created"`
}

func newAccountResponse(account *portfolio.Account) *accountResponse {
	return &accountResponse{
		ID:      account.ID.String(),
		Cash:    account.Cash,
		Created: account.Created,
	}
}

type quoteResponse struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

func newQuoteResponse(quote *portfolio.Quote) *quoteResponse {
	return &quoteResponse{
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Price:  quote.Price,
	}
}

type holdingResponse struct {
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	CostBasis    decimal.Decimal `json:"costBasis"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

func newHoldingResponse(holding *portfolio.Holding) *holdingResponse {
	return &holdingResponse{
		Symbol:       holding.Symbol,
		Quantity:     holding.Quantity,
		CostBasis:    holding.CostBasis,
		AveragePrice: holding.AveragePrice(),
	}
}

type positionResponse struct {
	holdingResponse
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	MarketValue  decimal.Decimal `json:"marketValue"`
}

type portfolioResponse struct {
	AccountID     string              `json:"accountId"`
	Cash          decimal.Decimal     `json:"cash"`
	Positions     []*positionResponse `json:"positions"`
	HoldingsValue decimal.Decimal     `json:"holdingsValue"`
	GrandTotal    decimal.Decimal     `json:"grandTotal"`
}

func newPortfolioResponse(current *portfolio.Portfolio) *portfolioResponse {
	positions := make([]*positionResponse, len(current.Positions))
	for index, position := range current.Positions {
		positions[index] = &positionResponse{
			holdingResponse: *newHoldingResponse(position.Holding),
			Name:            position.Name,
			CurrentPrice:    position.CurrentPrice,
			MarketValue:     position.MarketValue,
		}
	}

	return &portfolioResponse{
		AccountID:     current.AccountID.String(),
		Cash:          current.Cash,
		Positions:     positions,
		HoldingsValue: current.HoldingsValue,
		GrandTotal:    current.GrandTotal,
	}
}

type historyEntryResponse struct {
	ID        string          `json:"id"`
	Sequence  int64           `json:"sequence"`
	Symbol    string          `json:"symbol"`
	Direction string          `json:"direction"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
	Time      time.Time       `json:"time"`
}

func newHistoryEntryResponse(
	entry *portfolio.HistoryEntry,
) *historyEntryResponse {
	return &historyEntryResponse{
		ID:        entry.ID.String(),
		Sequence:  entry.Sequence,
		Symbol:    entry.Symbol,
		Direction: entry.Direction.String(),
		Quantity:  entry.Quantity,
		UnitPrice: entry.UnitPrice,
		Amount:    entry.Amount(),
		Time:      entry.Time,
	}
}

type tradeResponse struct {
	historyEntryResponse
	Cash    decimal.Decimal  `json:"cash"`
	Holding *holdingResponse `json:"holding"`
}

func newTradeResponse(trade *portfolio.Trade) *tradeResponse {
	response := &tradeResponse{
		historyEntryResponse: *newHistoryEntryResponse(trade.HistoryEntry),
		Cash:                 trade.Cash,
	}

	if trade.Holding != nil {
		response.Holding = newHoldingResponse(trade.Holding)
	}

	return response
}
