package model

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/ngql"
	"github.com/owl-K/nebula-carina/schema"

	"github.com/google/uuid"
)

// Vertex is a vertex id plus one instance per present tag slot.
type Vertex struct {
	vt   *schema.VertexType
	vid  string
	tags map[string]*schema.Instance // slot name -> instance
}

// NewVertex builds a vertex of type vt. An empty vid is replaced by a
// random UUID. Keys of tags are slot names; at least one slot must be set
// and each instance must be of the tag bound to its slot.
func NewVertex(vt *schema.VertexType, vid string, tags map[string]*schema.Instance) (*Vertex, error) {
	if len(tags) == 0 {
		return nil, carina.NewConfigError(vt.Name(), "vertex needs at least one tag", nil)
	}
	v := &Vertex{vt: vt, vid: vid, tags: make(map[string]*schema.Instance, len(tags))}
	if v.vid == "" {
		v.vid = uuid.NewString()
	}
	for _, slot := range slices.Sorted(maps.Keys(tags)) {
		if err := v.SetTag(slot, tags[slot]); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// VID returns the vertex id.
func (v *Vertex) VID() string { return v.vid }

// Type returns the vertex type.
func (v *Vertex) Type() *schema.VertexType { return v.vt }

// Tag returns the instance in the named slot.
func (v *Vertex) Tag(slot string) (*schema.Instance, bool) {
	inst, ok := v.tags[slot]
	return inst, ok
}

// SetTag sets the instance of the named slot.
func (v *Vertex) SetTag(slot string, inst *schema.Instance) error {
	tag, ok := v.vt.Slot(slot)
	if !ok {
		return carina.NewUnknownFieldError(v.vt.Name(), slot)
	}
	if inst == nil {
		return carina.NewMissingRequiredFieldError(v.vt.Name(), slot)
	}
	if inst.Type().DBName() != tag.DBName() {
		return carina.NewConfigError(v.vt.Name(),
			fmt.Sprintf("slot %q holds tag %s, got %s", slot, tag.DBName(), inst.Type().DBName()), nil)
	}
	v.tags[slot] = inst
	return nil
}

// Tags returns the present slot names in declaration order.
func (v *Vertex) Tags() []string {
	var slots []string
	for slot := range v.vt.IterateTagModels() {
		if _, ok := v.tags[slot]; ok {
			slots = append(slots, slot)
		}
	}
	return slots
}

func (v *Vertex) statement(op ngql.Op, ifNotExists bool) *ngql.VertexStatement {
	s := &ngql.VertexStatement{Op: op, IfNotExists: ifNotExists, VID: v.vid}
	for slot, tag := range v.vt.IterateTagModels() {
		inst, ok := v.tags[slot]
		if !ok {
			continue
		}
		s.Tags = append(s.Tags, ngql.Entity{Name: tag.DBName(), Props: inst.WireNames(), Values: inst.Literals()})
	}
	return s
}

// InsertStatement renders an insert of every present tag.
func (v *Vertex) InsertStatement(ifNotExists bool) string {
	return v.statement(ngql.OpInsert, ifNotExists).String()
}

// UpsertStatement renders an upsert of every present tag. nGQL upserts
// one tag per statement, so a vertex with several tags renders as several
// statements joined by semicolons and is not atomic across tags.
func (v *Vertex) UpsertStatement() string {
	return v.statement(ngql.OpUpsert, false).String()
}

// Insert inserts the vertex. When ex is a Client its cached copy is dropped.
func (v *Vertex) Insert(ctx context.Context, ex dialect.Executor, ifNotExists bool) error {
	return v.write(ctx, ex, "insert", v.InsertStatement(ifNotExists))
}

// Upsert upserts the vertex. When ex is a Client its cached copy is dropped.
func (v *Vertex) Upsert(ctx context.Context, ex dialect.Executor) error {
	return v.write(ctx, ex, "upsert", v.UpsertStatement())
}

func (v *Vertex) write(ctx context.Context, ex dialect.Executor, op, stmt string) error {
	if err := run(ctx, ex, op, v.vid, stmt); err != nil {
		return err
	}
	if c, ok := ex.(*Client); ok {
		c.evict(ctx, c.vertexKey(ctx, v.vt, v.vid))
	}
	return nil
}

// Save inserts the vertex if it does not exist when ifNotExists is set, and
// upserts it otherwise.
func (v *Vertex) Save(ctx context.Context, ex dialect.Executor, ifNotExists bool) error {
	if ifNotExists {
		return v.Insert(ctx, ex, true)
	}
	return v.Upsert(ctx, ex)
}
