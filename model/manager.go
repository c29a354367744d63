package model

import (
	"context"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/ngql"
	"github.com/owl-K/nebula-carina/schema"
)

// VertexManager reads and deletes vertices of one vertex type.
type VertexManager struct {
	c  *Client
	vt *schema.VertexType
}

// Type returns the managed vertex type.
func (m *VertexManager) Type() *schema.VertexType { return m.vt }

// Get fetches the vertex with the given id. It returns a NotFoundError
// when the vertex does not exist.
func (m *VertexManager) Get(ctx context.Context, vid string) (*Vertex, error) {
	key := m.key(ctx, vid)
	if v, ok := m.cached(ctx, key); ok {
		return v, nil
	}
	stmt := ngql.FetchVertices(vid)
	rows, err := query(ctx, m.c, "get", vid, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, carina.NewNotFoundError(m.vt.Name(), vid)
	}
	v, err := FromRow(m.vt, rows[0], ngql.ColumnVertex, InLocation(m.c.loc))
	if err != nil {
		return nil, err
	}
	m.c.store(ctx, key, encodeVertex(v))
	return v, nil
}

// GetMany fetches vertices in one statement. Results are ordered like
// vids; missing vertices are nil with a NotFoundError at the same index.
func (m *VertexManager) GetMany(ctx context.Context, vids ...string) ([]*Vertex, []error) {
	if len(vids) == 0 {
		return nil, nil
	}
	stmt := ngql.FetchVertices(vids...)
	rows, err := query(ctx, m.c, "get_many", "", stmt)
	if err != nil {
		return nil, fill(len(vids), err)
	}
	found := make([]*Vertex, 0, len(rows))
	for _, row := range rows {
		v, err := FromRow(m.vt, row, ngql.ColumnVertex, InLocation(m.c.loc))
		if err != nil {
			return nil, fill(len(vids), err)
		}
		found = append(found, v)
	}
	return orderByKeys(m.vt.Name(), vids, found, (*Vertex).VID)
}

// List returns vertices carrying the first tag of the vertex type. A Limit
// option caps the result.
func (m *VertexManager) List(ctx context.Context, opts ...Option) ([]*Vertex, error) {
	o := buildOptions(opts)
	slots := m.vt.Slots()
	stmt := ngql.MatchTag(slots[0].Tag.DBName(), o.limit)
	rows, err := query(ctx, m.c, "list", m.vt.Name(), stmt)
	if err != nil {
		return nil, err
	}
	if o.loc == nil {
		opts = append(opts, InLocation(m.c.loc))
	}
	vs := make([]*Vertex, 0, len(rows))
	for _, row := range rows {
		v, err := FromRow(m.vt, row, ngql.ColumnVertex, opts...)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// Delete removes the vertices and their edges, and drops them from the
// cache.
func (m *VertexManager) Delete(ctx context.Context, vids ...string) error {
	if len(vids) == 0 {
		return nil
	}
	target := vids[0]
	if len(vids) > 1 {
		target = ""
	}
	if err := run(ctx, m.c, "delete", target, ngql.DeleteVertices(true, vids...)); err != nil {
		return err
	}
	for _, vid := range vids {
		m.c.evict(ctx, m.key(ctx, vid))
	}
	return nil
}

func (m *VertexManager) key(ctx context.Context, vid string) carina.CacheKey {
	return m.c.vertexKey(ctx, m.vt, vid)
}

func (m *VertexManager) cached(ctx context.Context, key carina.CacheKey) (*Vertex, bool) {
	b, ok := m.c.load(ctx, key)
	if !ok {
		return nil, false
	}
	v, err := decodeVertex(m.vt, b)
	if err != nil {
		m.c.logger.WarnContext(ctx, "cache decode failed", "key", key.String(), "error", err)
		return nil, false
	}
	return v, true
}

// EdgeManager reads and deletes edges.
type EdgeManager struct {
	c *Client
}

// Get fetches one edge of the given type. It returns a NotFoundError when
// the edge does not exist.
func (m *EdgeManager) Get(ctx context.Context, et schema.Schema, src, dst string, rank int64) (*Edge, error) {
	t, err := m.c.reg.Lookup(et)
	if err != nil {
		return nil, err
	}
	if t.Kind() != schema.KindEdgeType {
		return nil, carina.NewUnresolvedEdgeTypeError(t.DBName())
	}
	id := carina.EdgeID(src, dst, rank)
	key := m.c.edgeKey(ctx, t.DBName(), id)
	if b, ok := m.c.load(ctx, key); ok {
		e, err := decodeEdge(t, b)
		if err == nil {
			return e, nil
		}
		m.c.logger.WarnContext(ctx, "cache decode failed", "key", key.String(), "error", err)
	}
	stmt := ngql.FetchEdges(t.DBName(), ngql.EdgeAddr{Src: src, Dst: dst, Rank: rank})
	rows, err := query(ctx, m.c, "get", id, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, carina.NewNotFoundError(t.DBName(), id)
	}
	e, err := EdgeFromRow(m.c.reg, rows[0], ngql.ColumnEdge, InLocation(m.c.loc))
	if err != nil {
		return nil, err
	}
	m.c.store(ctx, key, encodeEdge(e))
	return e, nil
}

// Delete removes the edge and drops it from the cache.
func (m *EdgeManager) Delete(ctx context.Context, e *Edge) error {
	return e.Delete(ctx, m.c)
}

// orderByKeys orders values like keys. A key without a value gets a nil
// value and a NotFoundError.
func orderByKeys[V any](label string, keys []string, values []*V, keyFn func(*V) string) ([]*V, []error) {
	lookup := make(map[string]*V, len(values))
	for _, v := range values {
		lookup[keyFn(v)] = v
	}
	result := make([]*V, len(keys))
	errs := make([]error, len(keys))
	for i, key := range keys {
		if v, ok := lookup[key]; ok {
			result[i] = v
		} else {
			errs[i] = carina.NewNotFoundError(label, key)
		}
	}
	return result, errs
}

func fill(n int, err error) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = err
	}
	return errs
}
