package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/lukasz-zimnoch/dexly/portfolio/api"
	"github.com/lukasz-zimnoch/dexly/portfolio/binance"
	"github.com/lukasz-zimnoch/dexly/portfolio/inmem"
	"github.com/lukasz-zimnoch/dexly/portfolio/logrus"
	"github.com/lukasz-zimnoch/dexly/portfolio/postgres"
	"github.com/lukasz-zimnoch/dexly/portfolio/ristretto"
	"github.com/lukasz-zimnoch/dexly/portfolio/uuid"
)

type ledgerStorage interface {
	portfolio.LedgerStore
	portfolio.AccountDirectory
}

func main() {
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals
		cancelCtx()
	}()

	config, err := readConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "could not read config: [%v]", err)
		os.Exit(1)
	}

	logger, err := logrus.ConfigureStandardLogger(
		config.Logging.Format,
		config.Logging.Level,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "could not configure logger: [%v]", err)
		os.Exit(1)
	}

	settings, err := config.ledgerSettings()
	if err != nil {
		logger.Fatalf("invalid ledger config: [%v]", err)
	}

	idService := &uuid.IDService{}

	storage, err := createStorage(ctx, logger, config, idService)
	if err != nil {
		logger.Fatalf("could not create ledger storage: [%v]", err)
	}

	oracle, err := createPriceOracle(logger, config, settings)
	if err != nil {
		logger.Fatalf("could not create price oracle: [%v]", err)
	}

	ledger := portfolio.NewLedger(
		&portfolio.LedgerConfig{
			QuoteTimeout:  settings.quoteTimeout,
			MaxTxAttempts: settings.maxTxAttempts,
			RetryBackoff:  settings.retryBackoff,
		},
		storage,
		storage,
		oracle,
		idService,
		logger,
	)

	server := api.NewServer(ledger, idService, settings.startingCash, logger)

	if err := server.Run(ctx, config.HTTP.Address); err != nil {
		logger.Fatalf("could not run http server: [%v]", err)
	}

	logger.Infof("portfolio service stopped")
}

func createStorage(
	ctx context.Context,
	logger portfolio.Logger,
	config *Config,
	idService portfolio.IDService,
) (ledgerStorage, error) {
	switch config.Ledger.Store {
	case storePostgres:
		client, err := connectPostgres(ctx, logger, &config.Database)
		if err != nil {
			return nil, err
		}

		return postgres.NewLedgerStore(client, idService), nil
	case storeInmem:
		logger.Warningf("using in-memory ledger store; state is not durable")
		return inmem.NewLedgerStore(), nil
	default:
		return nil, fmt.Errorf("unknown store [%v]", config.Ledger.Store)
	}
}

func createPriceOracle(
	logger portfolio.Logger,
	config *Config,
	settings *ledgerSettings,
) (portfolio.PriceOracle, error) {
	var oracle portfolio.PriceOracle

	switch config.Quotes.Provider {
	case providerBinance:
		oracle = binance.NewPriceOracle(
			config.Binance.ApiKey,
			config.Binance.SecretKey,
		)
	case providerStatic:
		prices, err := config.staticPrices()
		if err != nil {
			return nil, err
		}

		staticOracle := inmem.NewPriceOracle()
		for symbol, price := range prices {
			staticOracle.SetPrice(symbol, "", price)
		}

		oracle = staticOracle
	default:
		return nil, fmt.Errorf("unknown quote provider [%v]", config.Quotes.Provider)
	}

	if settings.cacheTTL <= 0 {
		return oracle, nil
	}

	logger.Infof("caching quotes for [%v]", settings.cacheTTL)

	cachingOracle, err := ristretto.NewPriceOracle(oracle, settings.cacheTTL)
	if err != nil {
		return nil, err
	}

	return cachingOracle, nil
}

func connectPostgres(
	ctx context.Context,
	logger portfolio.Logger,
	config *Database,
) (*postgres.Client, error) {
	if err := postgres.RunMigration(
		logger,
		(*postgres.Config)(config),
	); err != nil {
		return nil, fmt.Errorf(
			"could not run postgres migration: [%v]",
			err,
		)
	}

	client, err := postgres.NewClient(
		ctx,
		logger,
		(*postgres.Config)(config),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"could not create postgres client: [%v]",
			err,
		)
	}

	return client, nil
}
