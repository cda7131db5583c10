package mysql

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql" // side-effect

	"github.com/zeptools/jewel-docs/db/sqldb"
	"github.com/zeptools/jewel-docs/db/sqldb/impls/stdsql"
)

const DBType = "mysql"

func init() {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Base: stdsql.NewBase(DBType, conf)}, nil
	})
}

type Client struct {
	stdsql.Base // [Embedded] for Promoted Methods
}

// Ensure mysql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

// DSN builds the driver DSN from Conf unless Conf.DSN overrides it
func DSN(conf *sqldb.Conf) string {
	if conf.DSN != "" {
		return conf.DSN
	}
	tz := conf.TZ
	if tz == "" {
		tz = "UTC"
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=%s&sql_mode=ANSI_QUOTES",
		conf.User,
		conf.PW,
		conf.Host,
		conf.Port,
		conf.DB,
		url.QueryEscape(tz),
	)
}

func (c *Client) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.Open(ctx, "mysql", DSN(c.Conf), c.Conf.MaxOpenConnsOr(10), c.Conf.ConnMaxLifetimeOr(3*time.Minute))
}

func (c *Client) TableColumns(ctx context.Context, table string) ([]string, error) {
	return sqldb.QueryStrings(ctx, c,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position`,
		table)
}
