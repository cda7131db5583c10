package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/zeptools/jewel-docs/db/sqldb"
)

// scanBoolsAsInt16 lets `bool` destinations read smallint flag columns
func scanBoolsAsInt16(scan func(...any) error, dest []any) error {
	raw := make([]any, len(dest))
	for i, d := range dest {
		switch d.(type) {
		case *bool:
			raw[i] = new(int16)
		default:
			raw[i] = d
		}
	}
	if err := scan(raw...); err != nil {
		return err
	}
	for i, d := range dest {
		if v, ok := d.(*bool); ok {
			*v = *(raw[i].(*int16)) != 0
		}
	}
	return nil
}

type Rows struct {
	current pgx.Rows
}

// Ensure pgsql.Rows implements sqldb.Rows
var _ sqldb.Rows = (*Rows)(nil)

func (r *Rows) Next() bool { return r.current.Next() }

func (r *Rows) Scan(dest ...any) error {
	return scanBoolsAsInt16(r.current.Scan, dest)
}

func (r *Rows) Close() error {
	r.current.Close()
	return nil
}

func (r *Rows) Err() error { return r.current.Err() }

// NextResultSet - pgx returns one result set per query
func (r *Rows) NextResultSet() bool { return false }

type Row struct {
	row pgx.Row
}

// Ensure pgsql.Row implements sqldb.Row interface
var _ sqldb.Row = (*Row)(nil)

func (r *Row) Scan(dest ...any) error {
	err := scanBoolsAsInt16(r.row.Scan, dest)
	if errors.Is(err, pgx.ErrNoRows) {
		return sqldb.ErrNoRows
	}
	return err
}
