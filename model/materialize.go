package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/schema"
	"github.com/owl-K/nebula-carina/schema/field"
)

// Keys of flattened rows.
const (
	KeyID   = "id"
	KeySrc  = "src"
	KeyDst  = "dst"
	KeyRank = "rank"
	KeyType = "type"
	// KeyEdge prefixes edge properties in flattened rows, as in edge.weight.
	KeyEdge = "edge"
)

// FromVertex materializes a vertex of type vt from a *dialect.Node or a
// flattened row holding an id key and tag.prop keys. Every tag reported
// must be slotted on vt.
func FromVertex(vt *schema.VertexType, raw any, opts ...Option) (*Vertex, error) {
	o := buildOptions(opts)
	switch r := raw.(type) {
	case *dialect.Node:
		if r == nil {
			return nil, carina.NewMaterializationError(vt.Name(), "", errors.New("nil node"))
		}
		return vertexFromTags(vt, r.VID, r.Tags, o)
	case dialect.Row:
		return flatVertex(vt, r, o)
	case map[string]any:
		return flatVertex(vt, r, o)
	default:
		return nil, carina.NewMaterializationError(vt.Name(), "", fmt.Errorf("unsupported vertex value %T", raw))
	}
}

// FromRow materializes the vertex in the named column of row. An empty
// column reads row itself as a flattened vertex.
func FromRow(vt *schema.VertexType, row dialect.Row, column string, opts ...Option) (*Vertex, error) {
	if column == "" {
		return FromVertex(vt, row, opts...)
	}
	raw, ok := row[column]
	if !ok {
		return nil, carina.NewMaterializationError(vt.Name(), column, errors.New("column missing"))
	}
	return FromVertex(vt, raw, opts...)
}

func flatVertex(vt *schema.VertexType, row map[string]any, o options) (*Vertex, error) {
	vid, err := stringKey(vt.Name(), row, KeyID)
	if err != nil {
		return nil, err
	}
	tags := make(map[string]map[string]any)
	for k, v := range row {
		tag, prop, ok := strings.Cut(k, ".")
		if !ok {
			continue
		}
		if tags[tag] == nil {
			tags[tag] = make(map[string]any)
		}
		tags[tag][prop] = v
	}
	return vertexFromTags(vt, vid, tags, o)
}

func vertexFromTags(vt *schema.VertexType, vid string, tags map[string]map[string]any, o options) (*Vertex, error) {
	if vid == "" {
		return nil, carina.NewMaterializationError(vt.Name(), KeyID, errors.New("empty vertex id"))
	}
	if len(tags) == 0 {
		return nil, carina.NewMaterializationError(vt.Name(), "", fmt.Errorf("vertex %q has no tags", vid))
	}
	v := &Vertex{vt: vt, vid: vid, tags: make(map[string]*schema.Instance, len(tags))}
	for _, name := range slices.Sorted(maps.Keys(tags)) {
		tag, err := vt.ResolveTag(name)
		if err != nil {
			return nil, err
		}
		inst, err := tag.FromProps(tags[name], o.props()...)
		if err != nil {
			return nil, err
		}
		slot, _ := vt.SlotForTag(name)
		v.tags[slot] = inst
	}
	return v, nil
}

// FromEdge materializes an edge from a *dialect.Relationship or a flattened
// row holding src, dst, rank, type and edge.prop keys. The edge type must
// be registered in reg.
func FromEdge(reg *schema.Registry, raw any, opts ...Option) (*Edge, error) {
	o := buildOptions(opts)
	switch r := raw.(type) {
	case *dialect.Relationship:
		if r == nil {
			return nil, carina.NewMaterializationError(KeyEdge, "", errors.New("nil relationship"))
		}
		return edgeFromProps(reg, r.Name, r.Src, r.Dst, r.Rank, r.Props, o)
	case dialect.Row:
		return flatEdge(reg, r, o)
	case map[string]any:
		return flatEdge(reg, r, o)
	default:
		return nil, carina.NewMaterializationError(KeyEdge, "", fmt.Errorf("unsupported edge value %T", raw))
	}
}

// EdgeFromRow materializes the edge in the named column of row. An empty
// column reads row itself as a flattened edge.
func EdgeFromRow(reg *schema.Registry, row dialect.Row, column string, opts ...Option) (*Edge, error) {
	if column == "" {
		return FromEdge(reg, row, opts...)
	}
	raw, ok := row[column]
	if !ok {
		return nil, carina.NewMaterializationError(KeyEdge, column, errors.New("column missing"))
	}
	return FromEdge(reg, raw, opts...)
}

func flatEdge(reg *schema.Registry, row map[string]any, o options) (*Edge, error) {
	name, err := stringKey(KeyEdge, row, KeyType)
	if err != nil {
		return nil, err
	}
	src, err := stringKey(name, row, KeySrc)
	if err != nil {
		return nil, err
	}
	dst, err := stringKey(name, row, KeyDst)
	if err != nil {
		return nil, err
	}
	rank, err := toRank(row[KeyRank])
	if err != nil {
		return nil, carina.NewMaterializationError(name, KeyRank, err)
	}
	props := make(map[string]any)
	for k, v := range row {
		if p, ok := strings.CutPrefix(k, KeyEdge+"."); ok {
			props[p] = v
		} else if p, ok := strings.CutPrefix(k, name+"."); ok {
			props[p] = v
		}
	}
	return edgeFromProps(reg, name, src, dst, rank, props, o)
}

func edgeFromProps(reg *schema.Registry, name, src, dst string, rank int64, props map[string]any, o options) (*Edge, error) {
	t, ok := reg.EdgeType(name)
	if !ok {
		return nil, carina.NewUnresolvedEdgeTypeError(name)
	}
	inst, err := t.FromProps(props, o.props()...)
	if err != nil {
		return nil, err
	}
	return &Edge{Src: src, Dst: dst, Rank: rank, Props: inst}, nil
}

func stringKey(schemaName string, row map[string]any, key string) (string, error) {
	raw, ok := row[key]
	if !ok {
		return "", carina.NewMaterializationError(schemaName, key, errors.New("key missing"))
	}
	s, ok := raw.(string)
	if !ok {
		return "", carina.NewMaterializationError(schemaName, key, fmt.Errorf("want string, got %T", raw))
	}
	return s, nil
}

func toRank(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return field.ToInt64(v)
	}
}
