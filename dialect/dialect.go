package dialect

import (
	"context"
	"errors"
	"sync"
)

// Executor runs one nGQL statement and returns its rows. Implementations
// own connection pooling, sessions and timeouts; callers never retry.
type Executor interface {
	Execute(ctx context.Context, stmt string) (Rows, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, stmt string) (Rows, error)

// Execute calls f(ctx, stmt).
func (f ExecutorFunc) Execute(ctx context.Context, stmt string) (Rows, error) {
	return f(ctx, stmt)
}

// Rows is a forward-only stream of result rows.
//
//	rows, err := ex.Execute(ctx, stmt)
//	if err != nil { ... }
//	defer rows.Close()
//	for rows.Next() {
//	    row := rows.Row()
//	}
//	if err := rows.Err(); err != nil { ... }
type Rows interface {
	// Next advances to the next row. It returns false at the end of the
	// stream or on error.
	Next() bool
	// Row returns the current row.
	Row() Row
	// Err returns the error, if any, that stopped the iteration.
	Err() error
	// Close releases the stream. It is safe to call more than once.
	Close() error
}

// Row maps yielded column names to values. Values are scalars, time.Time,
// *Node, *Relationship, or nil.
type Row map[string]any

// Node is a vertex as reported by the server.
type Node struct {
	VID  string
	Tags map[string]map[string]any // tag name -> property name -> value
}

// Relationship is an edge as reported by the server.
type Relationship struct {
	Src   string
	Dst   string
	Name  string // edge type
	Rank  int64
	Props map[string]any
}

// NewRows returns Rows over the given rows.
func NewRows(rows ...Row) Rows {
	return &sliceRows{rows: rows, pos: -1}
}

type sliceRows struct {
	mu     sync.Mutex
	rows   []Row
	pos    int
	closed bool
}

func (r *sliceRows) Next() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.pos+1 >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *sliceRows) Row() Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pos < 0 || r.pos >= len(r.rows) {
		return nil
	}
	return r.rows[r.pos]
}

func (r *sliceRows) Err() error { return nil }

func (r *sliceRows) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Collect reads and closes rows.
func Collect(rows Rows) (_ []Row, err error) {
	defer func() { err = errors.Join(err, rows.Close()) }()
	var out []Row
	for rows.Next() {
		out = append(out, rows.Row())
	}
	return out, rows.Err()
}

// Exec runs stmt and discards its rows.
func Exec(ctx context.Context, ex Executor, stmt string) error {
	rows, err := ex.Execute(ctx, stmt)
	if err != nil {
		return err
	}
	_, err = Collect(rows)
	return err
}

type spaceKey struct{}

// WithSpace returns a context that selects the graph space statements run
// in. Executors that hold sessions switch to it before the statement.
func WithSpace(ctx context.Context, space string) context.Context {
	return context.WithValue(ctx, spaceKey{}, space)
}

// SpaceFromContext returns the space set by WithSpace.
func SpaceFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(spaceKey{}).(string)
	return s, ok && s != ""
}
