package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgtype"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

const databaseModeCheckInterval = 1 * time.Minute

type Config struct {
	Address      string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MigrationDir string
}

func (c *Config) address() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Address,
		c.Name,
		c.SSLMode,
	)
}

type Client struct {
	mutex    sync.RWMutex
	database *sqlx.DB
	logger   portfolio.Logger
}

func NewClient(
	ctx context.Context,
	logger portfolio.Logger,
	config *Config,
) (*Client, error) {
	database, err := connectDatabase(config)
	if err != nil {
		return nil, err
	}

	client := &Client{database: database, logger: logger}

	go client.monitorDatabaseMode(ctx, config)

	return client, nil
}

func connectDatabase(config *Config) (*sqlx.DB, error) {
	database, err := sqlx.Connect("pgx", config.address())
	if err != nil {
		return nil, fmt.Errorf("could not connect database: [%v]", err)
	}

	return database, nil
}

// monitorDatabaseMode reconnects when the current instance has been
// demoted to a read-only replica, e.g. after a failover.
func (c *Client) monitorDatabaseMode(ctx context.Context, config *Config) {
	ticker := time.NewTicker(databaseModeCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var isReadonly bool
			err := c.instance().GetContext(ctx, &isReadonly, "SELECT pg_is_in_recovery()")
			if err != nil {
				c.logger.Errorf(
					"could not determine database mode: [%v]",
					err,
				)
				continue
			}

			if isReadonly {
				c.logger.Infof(
					"database instance demoted to read-only mode; " +
						"reconnecting master database",
				)

				newDatabase, err := connectDatabase(config)
				if err != nil {
					c.logger.Errorf(
						"could not reconnect master database: [%v]",
						err,
					)
					continue
				}

				c.mutex.Lock()
				_ = c.database.Close()
				c.database = newDatabase
				c.mutex.Unlock()

				c.logger.Infof("reconnected master database")
			}
		case <-ctx.Done():
			c.mutex.Lock()
			_ = c.database.Close()
			c.mutex.Unlock()
			return
		}
	}
}

func (c *Client) instance() *sqlx.DB {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.database
}

func RunMigration(
	logger portfolio.Logger,
	config *Config,
) error {
	if len(config.MigrationDir) == 0 {
		logger.Infof("postgres migration disabled")
		return nil
	}

	logger.Infof("starting postgres migration")

	migration, err := migrate.New("file://"+config.MigrationDir, config.address())
	if err != nil {
		return err
	}

	defer func() {
		_, _ = migration.Close()
	}()

	err = migration.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Infof("postgres migration skipped as there are no changes")
			return nil
		}

		return err
	}

	logger.Infof("postgres migration performed successfully")

	return nil
}

func decimalToNumeric(value decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:    value.Coefficient(),
		Exp:    value.Exponent(),
		Status: pgtype.Present,
	}
}

func numericToDecimal(value pgtype.Numeric) (decimal.Decimal, error) {
	if value.Status != pgtype.Present {
		return decimal.Zero, fmt.Errorf("numeric value is not present")
	}

	if value.NaN {
		return decimal.Zero, fmt.Errorf("numeric value is NaN")
	}

	if value.Int == nil {
		return decimal.Zero, nil
	}

	return decimal.NewFromBigInt(value.Int, value.Exp), nil
}
