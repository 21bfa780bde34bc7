package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the ledger over HTTP. Account ids travel in the path and
// all amounts are rendered as decimal strings.
type Server struct {
	engine       *gin.Engine
	ledger       *portfolio.Ledger
	idService    portfolio.IDService
	startingCash decimal.Decimal
	logger       portfolio.Logger
}

func NewServer(
	ledger *portfolio.Ledger,
	idService portfolio.IDService,
	startingCash decimal.Decimal,
	logger portfolio.Logger,
) *Server {
	engine := gin.New()

	server := &Server{
		engine:       engine,
		ledger:       ledger,
		idService:    idService,
		startingCash: startingCash,
		logger:       logger,
	}

	engine.Use(server.logRequest, gin.Recovery(), disableCaching)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	engine.POST("/accounts", server.openAccount)
	engine.GET("/quotes/:symbol", server.quote)

	account := engine.Group("/accounts/:accountID")
	account.GET("/portfolio", server.portfolio)
	account.GET("/holdings", server.holdings)
	account.GET("/history", server.history)
	account.POST("/buy", server.buy)
	account.POST("/sell", server.sell)

	return server
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves requests on the given address until the context is done,
// then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	httpServer := &http.Server{
		Addr:    address,
		Handler: s.engine,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Infof("serving http on [%v]", address)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("could not serve http: [%v]", err)
	case <-ctx.Done():
		shutdownCtx, cancelShutdownCtx := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancelShutdownCtx()

		s.logger.Infof("shutting down http server")

		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()

	c.Next()

	s.logger.WithFields(map[string]interface{}{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"ip":      c.ClientIP(),
		"latency": time.Since(start).String(),
	}).Infof("handled http request")
}

// Responses reflect ledger state at the time of the request.
func disableCaching(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Expires", "0")
	c.Header("Pragma", "no-cache")
	c.Next()
}
