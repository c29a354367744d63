package model

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/schema"
)

// Persistable is implemented by entities that can be written in a single
// statement.
type Persistable interface {
	// InsertStatement renders the insert, conditional when ifNotExists.
	InsertStatement(ifNotExists bool) string
	// UpsertStatement renders the upsert.
	UpsertStatement() string
	// Save writes the entity: a conditional insert when ifNotExists, an
	// upsert otherwise.
	Save(ctx context.Context, ex dialect.Executor, ifNotExists bool) error
}

var (
	_ Persistable = (*Vertex)(nil)
	_ Persistable = (*Edge)(nil)
)

// SaveAll saves entities in order and stops at the first failure.
func SaveAll(ctx context.Context, ex dialect.Executor, ifNotExists bool, entities ...Persistable) error {
	for _, e := range entities {
		if err := e.Save(ctx, ex, ifNotExists); err != nil {
			return err
		}
	}
	return nil
}

// Option configures traversals and materialization.
type Option func(*options)

type options struct {
	over  []string
	steps int
	limit int
	loc   *time.Location
	as    *schema.VertexType
}

// OverEdge restricts a traversal to the given edge types. Without it every
// edge type is walked.
func OverEdge(edgeTypes ...schema.Schema) Option {
	return func(o *options) {
		for _, et := range edgeTypes {
			o.over = append(o.over, schema.DBName(et))
		}
	}
}

// Steps sets the number of hops of a traversal.
func Steps(n int) Option {
	return func(o *options) { o.steps = n }
}

// Limit caps the number of results of a traversal or listing.
func Limit(n int) Option {
	return func(o *options) { o.limit = n }
}

// InLocation converts datetime values into loc while materializing.
func InLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// As materializes the far end vertices of Destinations and Sources with
// the given vertex type instead of the origin's.
func As(vt *schema.VertexType) Option {
	return func(o *options) { o.as = vt }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) props() []schema.PropsOption {
	if o.loc == nil {
		return nil
	}
	return []schema.PropsOption{schema.InLocation(o.loc)}
}

type opKey struct{}

type opInfo struct {
	op, target string
}

// withOp records the operation and target of the statements run with ctx,
// so executors can report them on failure.
func withOp(ctx context.Context, op, target string) context.Context {
	return context.WithValue(ctx, opKey{}, opInfo{op: op, target: target})
}

// execError wraps an executor failure in an ExecutionError, unless it
// already is one.
func execError(ctx context.Context, stmt string, err error) error {
	if err == nil || carina.IsExecutionError(err) {
		return err
	}
	info, ok := ctx.Value(opKey{}).(opInfo)
	if !ok {
		info.op = strings.ToLower(dialect.Operation(stmt))
	}
	return carina.NewExecutionError(info.op, info.target, stmt, err)
}

// run executes a write statement tagged with op and target.
func run(ctx context.Context, ex dialect.Executor, op, target, stmt string) error {
	ctx = withOp(ctx, op, target)
	rows, err := ex.Execute(ctx, stmt)
	if err != nil {
		return execError(ctx, stmt, err)
	}
	_, err = dialect.Collect(rows)
	return execError(ctx, stmt, err)
}

// query executes a read statement and returns all rows.
func query(ctx context.Context, ex dialect.Executor, op, target, stmt string) ([]dialect.Row, error) {
	ctx = withOp(ctx, op, target)
	rows, err := ex.Execute(ctx, stmt)
	if err != nil {
		return nil, execError(ctx, stmt, err)
	}
	all, err := dialect.Collect(rows)
	if err != nil {
		return nil, execError(ctx, stmt, err)
	}
	return all, nil
}

var errConsumed = errors.New("model: traversal already consumed")
