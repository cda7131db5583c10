// Package records keeps one row per generated document in the invoices table.
// The table is migrated in place: columns added by later releases are appended
// to an existing table, and inserts only name columns the table actually has.
package records

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/db/sqldb"
)

//go:embed sql/*
var sqlFS embed.FS

const (
	Group = "records"
	Table = "invoices"
)

func init() {
	sqldb.RegisterGroup(sqlFS, Group)
}

var ErrNotFound = errors.New("record not found")

// BaseColumns exist since the first release
var BaseColumns = []string{"id", "customer_name", "jewellery_details", "gross_weight", "net_weight", "gold_purity", "pdf_path", "created_at"}

// AddedColumns are migrated in this order, each by its add_<column> statement
var AddedColumns = []string{"customer_id", "customer_signature", "customer_image", "document_type", "checksum"}

// insertOrder is the column order of an INSERT on a fully migrated table
var insertOrder = []string{
	"customer_name", "customer_id", "jewellery_details", "gross_weight", "net_weight",
	"gold_purity", "customer_signature", "customer_image", "pdf_path", "document_type",
	"checksum", "created_at",
}

var newestFirst = []sqldb.OrderBy{
	{Column: sqldb.NewColumnOrPanic("created_at"), Desc: true},
	{Column: sqldb.NewColumnOrPanic("id"), Desc: true},
}

type Store struct {
	client sqldb.Client
	Now    func() time.Time
}

// Open creates the table when missing and adds the columns it lacks
func Open(ctx context.Context, client sqldb.Client) (*Store, error) {
	s := &Store{client: client, Now: time.Now}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Client() sqldb.Client {
	return s.client
}

func (s *Store) stmt(name string) (string, error) {
	return s.client.RawStore().Stmt(Group, name)
}

func (s *Store) migrate(ctx context.Context) error {
	create, err := s.stmt("create_table")
	if err != nil {
		return err
	}
	if _, err = s.client.Exec(ctx, create); err != nil {
		return fmt.Errorf("create table %s: %w", Table, err)
	}
	existing, err := s.client.TableColumns(ctx, Table)
	if err != nil {
		return fmt.Errorf("probe columns of %s: %w", Table, err)
	}
	for _, col := range AddedColumns {
		if slices.Contains(existing, col) {
			continue
		}
		alter, err := s.stmt("add_" + col)
		if err != nil {
			return err
		}
		if _, err = s.client.Exec(ctx, alter); err != nil {
			return fmt.Errorf("add column %s: %w", col, err)
		}
		zap.L().Info("column added", zap.String("component", "records"), zap.String("table", Table), zap.String("column", col))
	}
	return nil
}

// insertColumns keeps the columns of insertOrder that exist
func insertColumns(existing []string) []string {
	cols := make([]string, 0, len(insertOrder))
	for _, c := range insertOrder {
		if slices.Contains(existing, c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Insert appends rec and returns its id. CreatedAt is stamped when empty.
func (s *Store) Insert(ctx context.Context, rec Record) (int64, error) {
	if rec.CreatedAt == "" {
		rec.CreatedAt = s.Now().UTC().Format(TimeLayout)
	}
	existing, err := s.client.TableColumns(ctx, Table)
	if err != nil {
		return 0, fmt.Errorf("probe columns of %s: %w", Table, err)
	}
	cols := insertColumns(existing)
	values := rec.values()
	args := make([]any, len(cols))
	for i, c := range cols {
		if _, err = sqldb.NewColumn(c); err != nil {
			return 0, err
		}
		args[i] = values[c]
	}

	tmpl, err := s.stmt("insert")
	if err != nil {
		return 0, err
	}
	query, err := sqldb.ExpandDynamicPlaceholders(
		fmt.Sprintf(tmpl, strings.Join(cols, ", ")),
		sqldb.PlaceholderPrefixForDBType[s.client.DBType()],
		[]int{len(cols)},
		1,
	)
	if err != nil {
		return 0, err
	}
	result, err := s.client.InsertStmt(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	zap.L().Debug("record inserted", zap.String("component", "records"), zap.Int64("id", id), zap.String("pdf_path", rec.PDFPath))
	return id, nil
}

// All lists every record, newest first
func (s *Store) All(ctx context.Context) ([]*Record, error) {
	query, err := s.stmt("select_all")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItems[Record, *Record](ctx, s.client, strings.TrimSpace(query)+sqldb.OrderByClause(newestFirst))
}

func (s *Store) ByID(ctx context.Context, id int64) (*Record, error) {
	query, err := s.stmt("select_by_id")
	if err != nil {
		return nil, err
	}
	rec, err := sqldb.QueryItem[Record, *Record](ctx, s.client, query, id)
	if errors.Is(err, sqldb.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return rec, err
}

// ByPath lists the records pointing at one artifact path, newest first
func (s *Store) ByPath(ctx context.Context, path string) ([]*Record, error) {
	query, err := s.stmt("select_by_path")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItems[Record, *Record](ctx, s.client, strings.TrimSpace(query)+sqldb.OrderByClause(newestFirst), path)
}

// Delete removes one record. ErrNotFound when no row has that id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	query, err := s.stmt("delete_by_id")
	if err != nil {
		return err
	}
	result, err := s.client.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// DeleteByPath removes every record of an artifact and returns how many went
func (s *Store) DeleteByPath(ctx context.Context, path string) (int64, error) {
	query, err := s.stmt("delete_by_path")
	if err != nil {
		return 0, err
	}
	result, err := s.client.Exec(ctx, query, path)
	if err != nil {
		return 0, fmt.Errorf("delete records of %s: %w", path, err)
	}
	return result.RowsAffected()
}

// Orphans lists records whose artifact is gone according to exists
func (s *Store) Orphans(ctx context.Context, exists func(path string) bool) ([]*Record, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	orphans := make([]*Record, 0)
	for _, r := range all {
		if !exists(r.PDFPath) {
			orphans = append(orphans, r)
		}
	}
	return orphans, nil
}

// Prune deletes the orphans and returns how many records were removed
func (s *Store) Prune(ctx context.Context, exists func(path string) bool) (int, error) {
	orphans, err := s.Orphans(ctx, exists)
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, r := range orphans {
		if err = s.Delete(ctx, r.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return pruned, err
		}
		pruned++
	}
	if pruned > 0 {
		zap.L().Info("orphan records pruned", zap.String("component", "records"), zap.Int("count", pruned))
	}
	return pruned, nil
}
