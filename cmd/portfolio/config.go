package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sherifabdlnaby/configuro"
	"github.com/shopspring/decimal"
)

const (
	storePostgres = "postgres"
	storeInmem    = "inmem"

	providerBinance = "binance"
	providerStatic  = "static"
)

// Config values can be set using either environment variables with `CONFIG_`
// prefix or config.yml file placed in working directory. Variables from
// a .env file, when present, are exported before the config is read.
// See https://github.com/sherifabdlnaby/configuro.
type Config struct {
	Logging  Logging
	Database Database
	Ledger   Ledger
	Quotes   Quotes
	Binance  Binance
	HTTP     HTTP
}

type Logging struct {
	Level  string
	Format string
}

type Database struct {
	Address      string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MigrationDir string
}

type Ledger struct {
	Store         string
	StartingCash  string
	QuoteTimeout  string
	MaxTxAttempts int
	RetryBackoff  string
}

type Quotes struct {
	Provider string
	CacheTTL string
	// Static maps symbols to prices served by the static provider.
	Static map[string]string
}

type Binance struct {
	ApiKey    string
	SecretKey string
}

type HTTP struct {
	Address string
}

func readConfig() (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	loader, err := configuro.NewConfig()
	if err != nil {
		return nil, err
	}

	// Default config values.
	config := &Config{
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Database: Database{
			Address:      "localhost:5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "postgres",
			SSLMode:      "disable",
			MigrationDir: "database/migrations",
		},
		Ledger: Ledger{
			Store:         storePostgres,
			StartingCash:  "10000.00",
			QuoteTimeout:  "5s",
			MaxTxAttempts: 3,
			RetryBackoff:  "50ms",
		},
		Quotes: Quotes{
			Provider: providerBinance,
			CacheTTL: "0s",
		},
		HTTP: HTTP{
			Address: ":8080",
		},
	}

	err = loader.Load(config)
	if err != nil {
		return nil, err
	}

	err = loader.Validate(config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

type ledgerSettings struct {
	startingCash  decimal.Decimal
	quoteTimeout  time.Duration
	maxTxAttempts int
	retryBackoff  time.Duration
	cacheTTL      time.Duration
}

func (c *Config) ledgerSettings() (*ledgerSettings, error) {
	startingCash, err := decimal.NewFromString(c.Ledger.StartingCash)
	if err != nil {
		return nil, fmt.Errorf("could not parse starting cash: [%v]", err)
	}

	if startingCash.IsNegative() {
		return nil, fmt.Errorf("starting cash must not be negative")
	}

	quoteTimeout, err := time.ParseDuration(c.Ledger.QuoteTimeout)
	if err != nil {
		return nil, fmt.Errorf("could not parse quote timeout: [%v]", err)
	}

	retryBackoff, err := time.ParseDuration(c.Ledger.RetryBackoff)
	if err != nil {
		return nil, fmt.Errorf("could not parse retry backoff: [%v]", err)
	}

	cacheTTL, err := time.ParseDuration(c.Quotes.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("could not parse quote cache ttl: [%v]", err)
	}

	if c.Ledger.MaxTxAttempts < 1 {
		return nil, fmt.Errorf("max transaction attempts must be positive")
	}

	return &ledgerSettings{
		startingCash:  startingCash,
		quoteTimeout:  quoteTimeout,
		maxTxAttempts: c.Ledger.MaxTxAttempts,
		retryBackoff:  retryBackoff,
		cacheTTL:      cacheTTL,
	}, nil
}

func (c *Config) staticPrices() (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(c.Quotes.Static))

	for symbol, price := range c.Quotes.Static {
		value, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf(
				"could not parse static price of [%v]: [%v]",
				symbol,
				err,
			)
		}

		prices[symbol] = value
	}

	return prices, nil
}
