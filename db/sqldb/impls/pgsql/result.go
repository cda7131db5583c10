package pgsql

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zeptools/jewel-docs/db/sqldb"
)

type Result struct {
	tag          pgconn.CommandTag
	lastInsertID int64 // from `RETURNING id`
	rowsAffected int64 // set when tag is empty
}

// Ensure pgsql.Result implements sqldb.Result
var _ sqldb.Result = (*Result)(nil)

func (r *Result) RowsAffected() (int64, error) {
	if r.rowsAffected != 0 {
		return r.rowsAffected, nil
	}
	return r.tag.RowsAffected(), nil
}

// LastInsertId - PostgreSQL has no LastInsertId; only InsertStmt results carry one
func (r *Result) LastInsertId() (int64, error) {
	if r.lastInsertID != 0 {
		return r.lastInsertID, nil
	}
	return 0, fmt.Errorf("LastInsertId not supported; use InsertStmt or `RETURNING id`")
}
