package stdsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/db/sqldb"
)

// Base carries what every database/sql backed client shares. Embed it and supply Init and TableColumns.
type Base struct {
	Handle // [Embedded] for Promoted Methods

	Conf *sqldb.Conf

	dsn    string
	dbType string
	prefix byte
	store  *sqldb.RawSQLStore
}

func NewBase(dbType string, conf *sqldb.Conf) Base {
	return Base{
		Conf:   conf,
		dbType: dbType,
		prefix: sqldb.PlaceholderPrefixForDBType[dbType],
		store:  sqldb.NewRawStore(),
	}
}

// Open connects with the driver, tunes the pool, pings and loads the raw statements
func (b *Base) Open(ctx context.Context, driver string, dsn string, maxOpen int, lifetime time.Duration) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(lifetime)
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%s ping failed: %w", b.dbType, err)
	}
	b.DB = db
	b.dsn = dsn
	if err = sqldb.LoadRawStmtsToStore(b.store, b.dbType, b.prefix); err != nil {
		_ = db.Close()
		return err
	}
	zap.L().Info("sql client initialized", zap.String("component", "sqldb"), zap.String("dbtype", b.dbType))
	return nil
}

func (b *Base) Close() error {
	if b.DB == nil {
		return nil
	}
	zap.L().Info("closing sql client", zap.String("component", "sqldb"), zap.String("dbtype", b.dbType))
	return b.DB.Close()
}

func (b *Base) GetHandle() sqldb.Handle {
	return &b.Handle
}

func (b *Base) GetConf() *sqldb.Conf {
	return b.Conf
}

func (b *Base) GetDSN() string {
	return b.dsn
}

func (b *Base) DBType() string {
	return b.dbType
}

func (b *Base) Ping(ctx context.Context) error {
	if b.DB == nil {
		return fmt.Errorf("%s client not initialized", b.dbType)
	}
	return b.DB.PingContext(ctx)
}

func (b *Base) BeginTx(ctx context.Context) (sqldb.Tx, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("%s client not initialized", b.dbType)
	}
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

func (b *Base) Placeholders(length int, start ...int) string {
	return sqldb.JoinedPlaceholders(b.prefix, length, start...)
}

func (b *Base) RawStore() *sqldb.RawSQLStore {
	return b.store
}
