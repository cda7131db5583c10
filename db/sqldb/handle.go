package sqldb

import (
	"context"
	"errors"
)

var ErrNoRows = errors.New("sqldb: no rows in result set")

type Handle interface {
	// Exec executes SQL statement like INSERT, UPDATE, DELETE.
	Exec(ctx context.Context, query string, args ...any) (Result, error) // Executes General SQL Statement(s)

	QueryRows(ctx context.Context, query string, args ...any) (Rows, error) // Eager. Fail upfront on statement execution
	QueryRow(ctx context.Context, query string, args ...any) Row            // Lazy. only fails at Scan()

	Prepare(ctx context.Context, query string) (PreparedStmt, error)

	// InsertStmt - Single INSERT statement, placeholders only
	// to guarantee Result.LastInsertId() works for auto-increment `id`
	InsertStmt(ctx context.Context, query string, args ...any) (Result, error)
}
