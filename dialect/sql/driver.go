package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/schema/field"
)

// validSpaceRe validates graph space names.
var validSpaceRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidSpace checks if the string is a valid space name.
func isValidSpace(s string) bool {
	return s != "" && len(s) <= 128 && validSpaceRe.MatchString(s)
}

// Driver is a dialect.Executor over a database/sql connection pool whose
// driver speaks nGQL.
type Driver struct {
	Conn
}

// NewDriver creates a new Driver with the given Conn.
func NewDriver(c Conn) *Driver {
	return &Driver{Conn: c}
}

// Open wraps the database/sql.Open method and returns a Driver.
func Open(driverName, source string) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return NewDriver(Conn{db}), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(db *sql.DB) *Driver {
	return NewDriver(Conn{db})
}

// DB returns the underlying *sql.DB instance.
func (d Driver) DB() *sql.DB {
	return d.Querier.(*sql.DB)
}

// Close closes the underlying connection pool.
func (d *Driver) Close() error { return d.DB().Close() }

// Querier wraps the standard Exec and Query methods.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn implements dialect.Executor given a Querier.
type Conn struct {
	Querier
}

// Execute implements the dialect.Executor method. When the context carries
// a space (dialect.WithSpace), the statement runs on a dedicated
// connection after USE space.
func (c Conn) Execute(ctx context.Context, stmt string) (dialect.Rows, error) {
	q, cf, err := c.maySetSpace(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: execute: use space: %w", err)
	}
	rows, err := q.QueryContext(ctx, stmt)
	if err != nil {
		if cf != nil {
			err = errors.Join(err, cf())
		}
		return nil, fmt.Errorf("dialect/sql: execute: %w", err)
	}
	cols, err := rows.Columns()
	if err != nil {
		err = errors.Join(err, rows.Close())
		if cf != nil {
			err = errors.Join(err, cf())
		}
		return nil, fmt.Errorf("dialect/sql: execute: columns: %w", err)
	}
	var scanner ColumnScanner = rows
	if cf != nil {
		scanner = rowsWithCloser{rows, cf}
	}
	return &Rows{ColumnScanner: scanner, columns: cols}, nil
}

// maySetSpace switches to the context space before executing a statement.
func (c Conn) maySetSpace(ctx context.Context) (Querier, func() error, error) {
	space, ok := dialect.SpaceFromContext(ctx)
	if !ok {
		return c, nil, nil
	}
	if !isValidSpace(space) {
		return nil, nil, fmt.Errorf("invalid space name: %q", space)
	}
	var (
		q  Querier
		cf func() error
	)
	switch e := c.Querier.(type) {
	case *sql.Conn:
		q = e
	case *sql.DB:
		conn, err := e.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		q, cf = conn, conn.Close
	default:
		return nil, nil, fmt.Errorf("unsupported Querier type: %T", c.Querier)
	}
	if _, err := q.ExecContext(ctx, "USE "+field.QuoteIdent(space)); err != nil {
		if cf != nil {
			err = errors.Join(err, cf())
		}
		return nil, nil, err
	}
	return q, cf, nil
}

// Rows adapts database/sql rows to dialect.Rows. Each row is scanned into
// a dialect.Row keyed by column name; []byte values become strings.
type Rows struct {
	ColumnScanner
	columns []string
	row     dialect.Row
	err     error
}

// Next advances to the next row and scans it.
func (r *Rows) Next() bool {
	if r.err != nil || !r.ColumnScanner.Next() {
		return false
	}
	vals := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := r.Scan(ptrs...); err != nil {
		r.err = fmt.Errorf("dialect/sql: scan: %w", err)
		return false
	}
	row := make(dialect.Row, len(r.columns))
	for i, c := range r.columns {
		if b, ok := vals[i].([]byte); ok {
			row[c] = string(b)
			continue
		}
		row[c] = vals[i]
	}
	r.row = row
	return true
}

// Row returns the current row.
func (r *Rows) Row() dialect.Row { return r.row }

// Err returns the scan or iteration error.
func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.ColumnScanner.Err()
}

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Close() error
	Columns() ([]string, error)
	Err() error
	Next() bool
	Scan(dest ...any) error
}

// rowsWithCloser wraps the ColumnScanner interface with a custom Close hook.
type rowsWithCloser struct {
	ColumnScanner
	closer func() error
}

// Close closes the underlying ColumnScanner and calls the custom closer.
func (r rowsWithCloser) Close() error {
	err := r.ColumnScanner.Close()
	return errors.Join(err, r.closer())
}

var (
	_ dialect.Executor = (*Driver)(nil)
	_ dialect.Rows     = (*Rows)(nil)
)
