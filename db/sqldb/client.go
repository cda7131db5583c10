package sqldb

import (
	"context"
)

type Client interface {
	Handle // Methods required for Handle are also required, so, promote it
	Init(ctx context.Context) error
	Close() error
	GetHandle() Handle
	GetConf() *Conf
	GetDSN() string
	DBType() string
	Ping(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)

	// TableColumns lists the column names of a table in ordinal order. Unknown table: empty slice.
	TableColumns(ctx context.Context, table string) ([]string, error)
	// Placeholders returns "?, ?, ?" or "$1, $2, $3" depending on dialect
	Placeholders(length int, start ...int) string
	RawStore() *RawSQLStore
}
