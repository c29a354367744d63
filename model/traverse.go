package model

import (
	"context"
	"iter"
	"slices"
	"sync/atomic"

	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/ngql"
)

// OutEdges walks the outgoing edges of the vertex.
func (v *Vertex) OutEdges(ctx context.Context, ex dialect.Executor, opts ...Option) iter.Seq2[*Edge, error] {
	return v.edges(ctx, ex, "out_edges", false, opts)
}

// ReverseEdges walks the incoming edges of the vertex.
func (v *Vertex) ReverseEdges(ctx context.Context, ex dialect.Executor, opts ...Option) iter.Seq2[*Edge, error] {
	return v.edges(ctx, ex, "reverse_edges", true, opts)
}

// Destinations walks to the vertices at the far end of the outgoing edges.
func (v *Vertex) Destinations(ctx context.Context, ex dialect.Executor, opts ...Option) iter.Seq2[*Vertex, error] {
	return v.vertices(ctx, ex, "destinations", false, opts)
}

// Sources walks to the vertices at the near end of the incoming edges.
func (v *Vertex) Sources(ctx context.Context, ex dialect.Executor, opts ...Option) iter.Seq2[*Vertex, error] {
	return v.vertices(ctx, ex, "sources", true, opts)
}

func (v *Vertex) traversal(reversely bool, o options) *ngql.GoBuilder {
	g := ngql.Go(v.vid).Over(o.over...).Steps(o.steps).Limit(o.limit)
	if reversely {
		g.Reversely()
	}
	return g
}

// clientLocation defaults datetime conversion to the time zone of ex when
// it is a Client and no InLocation option is given.
func clientLocation(ex dialect.Executor, o options, opts []Option) []Option {
	if c, ok := ex.(*Client); ok && o.loc == nil {
		return append(slices.Clip(opts), InLocation(c.loc))
	}
	return opts
}

func (v *Vertex) edges(ctx context.Context, ex dialect.Executor, op string, reversely bool, opts []Option) iter.Seq2[*Edge, error] {
	o := buildOptions(opts)
	opts = clientLocation(ex, o, opts)
	stmt := v.traversal(reversely, o).YieldEdges().String()
	reg := v.vt.Registry()
	return stream(ctx, ex, op, v.vid, stmt, func(row dialect.Row) (*Edge, error) {
		return EdgeFromRow(reg, row, ngql.ColumnEdge, opts...)
	})
}

func (v *Vertex) vertices(ctx context.Context, ex dialect.Executor, op string, reversely bool, opts []Option) iter.Seq2[*Vertex, error] {
	o := buildOptions(opts)
	opts = clientLocation(ex, o, opts)
	stmt := v.traversal(reversely, o).YieldVertices().String()
	vt := v.vt
	if o.as != nil {
		vt = o.as
	}
	return stream(ctx, ex, op, v.vid, stmt, func(row dialect.Row) (*Vertex, error) {
		return FromRow(vt, row, ngql.ColumnVertex, opts...)
	})
}

// stream runs stmt when iteration starts and decodes rows lazily. The rows
// are closed when the consumer stops, on the first error and when ctx is
// done. A second iteration yields an error.
func stream[T any](ctx context.Context, ex dialect.Executor, op, target, stmt string, decode func(dialect.Row) (T, error)) iter.Seq2[T, error] {
	var used atomic.Bool
	return func(yield func(T, error) bool) {
		var zero T
		if used.Swap(true) {
			yield(zero, errConsumed)
			return
		}
		ctx := withOp(ctx, op, target)
		rows, err := ex.Execute(ctx, stmt)
		if err != nil {
			yield(zero, execError(ctx, stmt, err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}
			t, err := decode(rows.Row())
			if !yield(t, err) || err != nil {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, execError(ctx, stmt, err))
		}
	}
}
