package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/db/sqldb"
)

const DBType = "pgsql"

const DefaultPlaceholderPrefix = '$'

func init() {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf, store: sqldb.NewRawStore()}, nil
	})
}

type Client struct {
	Handle // [Embedded] for Promoted Methods
	Conf   *sqldb.Conf

	dsn   string
	store *sqldb.RawSQLStore
}

// Ensure pgsql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

// DSN builds a libpq-style DSN from Conf unless Conf.DSN overrides it
func DSN(conf *sqldb.Conf) string {
	if conf.DSN != "" {
		return conf.DSN
	}
	tz := conf.TZ
	if tz == "" {
		tz = "UTC"
	}
	// NOTE: sslmode=disable is often used for local dev, adjust as needed.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		conf.Host,
		conf.Port,
		conf.User,
		conf.PW,
		conf.DB,
		tz,
	)
}

func (c *Client) Init(ctx context.Context) error {
	c.dsn = DSN(c.Conf)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		return fmt.Errorf("failed to parse pgx config: %w", err)
	}
	config.MaxConns = int32(c.Conf.MaxOpenConnsOr(10))
	config.MinConns = 1
	config.MaxConnLifetime = c.Conf.ConnMaxLifetimeOr(3 * time.Minute)
	if c.Pool, err = pgxpool.NewWithConfig(ctx, config); err != nil {
		return fmt.Errorf("failed to connect pgx Pool: %w", err)
	}
	if err = c.Ping(ctx); err != nil {
		c.Pool.Close()
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	if err = sqldb.LoadRawStmtsToStore(c.store, DBType, DefaultPlaceholderPrefix); err != nil {
		c.Pool.Close()
		return err
	}
	zap.L().Info("sql client initialized", zap.String("component", "sqldb"), zap.String("dbtype", DBType))
	return nil
}

func (c *Client) Close() error {
	if c.Pool == nil {
		return nil
	}
	zap.L().Info("closing sql client", zap.String("component", "sqldb"), zap.String("dbtype", DBType))
	c.Pool.Close()
	return nil
}

func (c *Client) GetHandle() sqldb.Handle {
	return &Handle{Pool: c.Pool}
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) GetDSN() string {
	return c.dsn
}

func (c *Client) DBType() string {
	return DBType
}

func (c *Client) Ping(ctx context.Context) error {
	if c.Pool == nil {
		return fmt.Errorf("pgsql client not initialized")
	}
	return c.Pool.Ping(ctx)
}

func (c *Client) BeginTx(ctx context.Context) (sqldb.Tx, error) {
	if c.Pool == nil {
		return nil, fmt.Errorf("pgsql client not initialized")
	}
	tx, err := c.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction failed: %w", err)
	}
	return &Tx{tx: tx}, nil
}

func (c *Client) TableColumns(ctx context.Context, table string) ([]string, error) {
	return sqldb.QueryStrings(ctx, c,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position`,
		table)
}

func (c *Client) Placeholders(length int, start ...int) string {
	return sqldb.JoinedPlaceholders(DefaultPlaceholderPrefix, length, start...)
}

func (c *Client) RawStore() *sqldb.RawSQLStore {
	return c.store
}
