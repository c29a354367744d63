package model

import (
	"context"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/ngql"
	"github.com/owl-K/nebula-carina/schema"
)

// Edge is a directed edge between two vertex ids, carrying the properties
// of one edge type.
type Edge struct {
	Src  string
	Dst  string
	Rank int64
	// Props holds the edge type instance.
	Props *schema.Instance
}

// NewEdge builds an edge. props must be an edge type instance.
func NewEdge(src, dst string, rank int64, props *schema.Instance) (*Edge, error) {
	if props == nil {
		return nil, carina.NewMissingRequiredFieldError("edge", "props")
	}
	name := props.Type().DBName()
	if props.Type().Kind() != schema.KindEdgeType {
		return nil, carina.NewConfigError(name, "edge props must be an edge type instance", nil)
	}
	switch {
	case src == "":
		return nil, carina.NewMissingRequiredFieldError(name, "src")
	case dst == "":
		return nil, carina.NewMissingRequiredFieldError(name, "dst")
	}
	return &Edge{Src: src, Dst: dst, Rank: rank, Props: props}, nil
}

// Name returns the edge type name.
func (e *Edge) Name() string { return e.Props.Type().DBName() }

// ID returns the "src->dst@rank" identity of the edge.
func (e *Edge) ID() string { return carina.EdgeID(e.Src, e.Dst, e.Rank) }

// EdgeTypeAndModel returns the edge type name and its registered schema.
func (e *Edge) EdgeTypeAndModel(reg *schema.Registry) (string, *schema.Type, error) {
	name := e.Name()
	t, ok := reg.EdgeType(name)
	if !ok {
		return "", nil, carina.NewUnresolvedEdgeTypeError(name)
	}
	return name, t, nil
}

func (e *Edge) statement(op ngql.Op, ifNotExists bool) *ngql.EdgeStatement {
	return &ngql.EdgeStatement{
		Op:          op,
		IfNotExists: ifNotExists,
		Src:         e.Src,
		Dst:         e.Dst,
		Rank:        e.Rank,
		Edge:        ngql.Entity{Name: e.Name(), Props: e.Props.WireNames(), Values: e.Props.Literals()},
	}
}

// InsertStatement renders an insert of the edge.
func (e *Edge) InsertStatement(ifNotExists bool) string {
	return e.statement(ngql.OpInsert, ifNotExists).String()
}

// UpsertStatement renders an upsert of the edge.
func (e *Edge) UpsertStatement() string {
	return e.statement(ngql.OpUpsert, false).String()
}

// Insert inserts the edge. When ex is a Client its cached copy is dropped.
func (e *Edge) Insert(ctx context.Context, ex dialect.Executor, ifNotExists bool) error {
	return e.write(ctx, ex, "insert", e.InsertStatement(ifNotExists))
}

// Upsert upserts the edge. When ex is a Client its cached copy is dropped.
func (e *Edge) Upsert(ctx context.Context, ex dialect.Executor) error {
	return e.write(ctx, ex, "upsert", e.UpsertStatement())
}

// Save inserts the edge if it does not exist when ifNotExists is set, and
// upserts it otherwise.
func (e *Edge) Save(ctx context.Context, ex dialect.Executor, ifNotExists bool) error {
	if ifNotExists {
		return e.Insert(ctx, ex, true)
	}
	return e.Upsert(ctx, ex)
}

// Delete removes the edge. When ex is a Client its cached copy is dropped.
func (e *Edge) Delete(ctx context.Context, ex dialect.Executor) error {
	stmt := ngql.DeleteEdges(e.Name(), ngql.EdgeAddr{Src: e.Src, Dst: e.Dst, Rank: e.Rank})
	return e.write(ctx, ex, "delete", stmt)
}

func (e *Edge) write(ctx context.Context, ex dialect.Executor, op, stmt string) error {
	if err := run(ctx, ex, op, e.ID(), stmt); err != nil {
		return err
	}
	if c, ok := ex.(*Client); ok {
		c.evict(ctx, c.edgeKey(ctx, e.Name(), e.ID()))
	}
	return nil
}
