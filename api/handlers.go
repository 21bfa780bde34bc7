package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lukasz-zimnoch/dexly/portfolio"
)

type tradeRequest struct {
	Symbol   string      `json:"symbol"`
	Quantity json.Number `json:"quantity"`
}

func (s *Server) openAccount(c *gin.Context) {
	account, err := s.ledger.OpenAccount(c.Request.Context(), s.startingCash)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAccountResponse(account))
}

func (s *Server) quote(c *gin.Context) {
	quote, err := s.ledger.Quote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newQuoteResponse(quote))
}

func (s *Server) portfolio(c *gin.Context) {
	accountID, ok := s.accountID(c)
	if !ok {
		return
	}

	currentPortfolio, err := s.ledger.CurrentPortfolio(
		c.Request.Context(),
		accountID,
	)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPortfolioResponse(currentPortfolio))
}

func (s *Server) holdings(c *gin.Context) {
	accountID, ok := s.accountID(c)
	if !ok {
		return
	}

	holdings, err := s.ledger.Holdings(c.Request.Context(), accountID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	response := make([]*holdingResponse, len(holdings))
	for index, holding := range holdings {
		response[index] = newHoldingResponse(holding)
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) history(c *gin.Context) {
	accountID, ok := s.accountID(c)
	if !ok {
		return
	}

	history, err := s.ledger.TransactionHistory(c.Request.Context(), accountID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	response := make([]*historyEntryResponse, len(history))
	for index, entry := range history {
		response[index] = newHistoryEntryResponse(entry)
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) buy(c *gin.Context) {
	s.trade(c, s.ledger.ExecuteBuy)
}

func (s *Server) sell(c *gin.Context) {
	s.trade(c, s.ledger.ExecuteSell)
}

type tradeFunc func(
	ctx context.Context,
	accountID portfolio.ID,
	symbol string,
	quantity int64,
) (*portfolio.Trade, error)

func (s *Server) trade(c *gin.Context, execute tradeFunc) {
	accountID, ok := s.accountID(c)
	if !ok {
		return
	}

	var body tradeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.abortWithError(
			c,
			fmt.Errorf("%w: malformed body: [%v]", portfolio.ErrInvalidInput, err),
		)
		return
	}

	request, err := portfolio.ParseTradeRequest(
		body.Symbol,
		body.Quantity.String(),
	)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	trade, err := execute(
		c.Request.Context(),
		accountID,
		request.Symbol,
		request.Quantity,
	)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTradeResponse(trade))
}

func (s *Server) accountID(c *gin.Context) (portfolio.ID, bool) {
	accountID, err := s.idService.NewIDFromString(c.Param("accountID"))
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}

	return accountID, true
}
