package sqlite

import (
	"context"
	"net/url"
	"strings"

	_ "modernc.org/sqlite" // side-effect: registers the pure-Go "sqlite" driver

	"github.com/zeptools/jewel-docs/db/sqldb"
	"github.com/zeptools/jewel-docs/db/sqldb/impls/stdsql"
)

const DBType = "sqlite"

const MemoryDB = ":memory:"

func init() {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Base: stdsql.NewBase(DBType, conf)}, nil
	})
}

type Client struct {
	stdsql.Base // [Embedded] for Promoted Methods
}

// Ensure sqlite.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

// DSN builds a modernc.org/sqlite DSN with a busy timeout and WAL for file databases
func DSN(conf *sqldb.Conf) string {
	if conf.DSN != "" {
		return conf.DSN
	}
	if conf.DB == "" || conf.DB == MemoryDB {
		return MemoryDB
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + conf.DB + "?" + q.Encode()
}

func (c *Client) Init(ctx context.Context) error {
	dsn := DSN(c.Conf)
	maxOpen := c.Conf.MaxOpenConnsOr(4)
	if strings.Contains(dsn, MemoryDB) {
		maxOpen = 1 // every connection would get its own in-memory database
	}
	return c.Open(ctx, "sqlite", dsn, maxOpen, c.Conf.ConnMaxLifetimeOr(0))
}

func (c *Client) TableColumns(ctx context.Context, table string) ([]string, error) {
	return sqldb.QueryStrings(ctx, c, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
}
