package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lukasz-zimnoch/dexly/portfolio"
)

var kindStatuses = map[portfolio.ErrorKind]int{
	portfolio.KindInvalidInput:       http.StatusBadRequest,
	portfolio.KindUnknownSymbol:      http.StatusNotFound,
	portfolio.KindAccountNotFound:    http.StatusNotFound,
	portfolio.KindInsufficientFunds:  http.StatusUnprocessableEntity,
	portfolio.KindNoSuchHolding:      http.StatusUnprocessableEntity,
	portfolio.KindInsufficientShares: http.StatusUnprocessableEntity,
	portfolio.KindTxConflict:         http.StatusConflict,
	portfolio.KindPriceUnavailable:   http.StatusServiceUnavailable,
	portfolio.KindStoreUnavailable:   http.StatusServiceUnavailable,
	portfolio.KindOutcomeUnknown:     http.StatusInternalServerError,
	portfolio.KindInternal:           http.StatusInternalServerError,
}

type errorResponse struct {
	Code    portfolio.ErrorKind `json:"code"`
	Message string              `json:"message"`
}

func statusOf(kind portfolio.ErrorKind) int {
	if status, ok := kindStatuses[kind]; ok {
		return status
	}

	return http.StatusInternalServerError
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	kind := portfolio.KindOf(err)
	status := statusOf(kind)

	message := err.Error()
	if kind == portfolio.KindInternal {
		s.logger.Errorf("internal error: [%v]", err)
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, errorResponse{Code: kind, Message: message})
}
