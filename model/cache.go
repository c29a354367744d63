package model

import (
	"context"
	"fmt"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/schema"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache entries hold literals rather than Go values so that decoding goes
// through the data types and yields the same canonical values.
type (
	cachedProps map[string]*string // wire name -> literal, nil for NULL

	cachedVertex struct {
		VID  string                 `msgpack:"vid"`
		Tags map[string]cachedProps `msgpack:"tags"`
	}

	cachedEdge struct {
		Src   string      `msgpack:"src"`
		Dst   string      `msgpack:"dst"`
		Rank  int64       `msgpack:"rank"`
		Type  string      `msgpack:"type"`
		Props cachedProps `msgpack:"props"`
	}
)

func encodeProps(inst *schema.Instance) cachedProps {
	p := make(cachedProps)
	for _, fd := range inst.Type().Fields() {
		fv, err := inst.Value(fd.Name)
		if err != nil || fv.Value == nil {
			p[fd.WireName()] = nil
			continue
		}
		lit := fv.Literal
		p[fd.WireName()] = &lit
	}
	return p
}

func decodeProps(t *schema.Type, p cachedProps) (map[string]any, error) {
	raw := make(map[string]any, len(p))
	for _, fd := range t.Fields() {
		lit, ok := p[fd.WireName()]
		if !ok {
			continue
		}
		if lit == nil {
			raw[fd.WireName()] = nil
			continue
		}
		v, err := fd.Type.Parse(*lit)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.DBName(), fd.WireName(), err)
		}
		raw[fd.WireName()] = v
	}
	return raw, nil
}

func encodeVertex(v *Vertex) []byte {
	cv := cachedVertex{VID: v.vid, Tags: make(map[string]cachedProps, len(v.tags))}
	for _, inst := range v.tags {
		cv.Tags[inst.Type().DBName()] = encodeProps(inst)
	}
	b, err := msgpack.Marshal(&cv)
	if err != nil {
		return nil
	}
	return b
}

func decodeVertex(vt *schema.VertexType, b []byte) (*Vertex, error) {
	var cv cachedVertex
	if err := msgpack.Unmarshal(b, &cv); err != nil {
		return nil, err
	}
	tags := make(map[string]map[string]any, len(cv.Tags))
	for name, p := range cv.Tags {
		tag, err := vt.ResolveTag(name)
		if err != nil {
			return nil, err
		}
		raw, err := decodeProps(tag, p)
		if err != nil {
			return nil, err
		}
		tags[name] = raw
	}
	return vertexFromTags(vt, cv.VID, tags, options{})
}

func encodeEdge(e *Edge) []byte {
	b, err := msgpack.Marshal(&cachedEdge{
		Src:   e.Src,
		Dst:   e.Dst,
		Rank:  e.Rank,
		Type:  e.Name(),
		Props: encodeProps(e.Props),
	})
	if err != nil {
		return nil
	}
	return b
}

func decodeEdge(t *schema.Type, b []byte) (*Edge, error) {
	var ce cachedEdge
	if err := msgpack.Unmarshal(b, &ce); err != nil {
		return nil, err
	}
	if ce.Type != t.DBName() {
		return nil, fmt.Errorf("cached edge type %q, want %q", ce.Type, t.DBName())
	}
	raw, err := decodeProps(t, ce.Props)
	if err != nil {
		return nil, err
	}
	inst, err := t.FromProps(raw)
	if err != nil {
		return nil, err
	}
	return &Edge{Src: ce.Src, Dst: ce.Dst, Rank: ce.Rank, Props: inst}, nil
}

func (c *Client) vertexKey(ctx context.Context, vt *schema.VertexType, vid string) carina.CacheKey {
	return carina.CacheKey{Space: c.space(ctx), Schema: vt.Name(), ID: vid}
}

func (c *Client) edgeKey(ctx context.Context, edgeType, id string) carina.CacheKey {
	return carina.CacheKey{Space: c.space(ctx), Schema: edgeType, ID: id}
}

// load returns the cached entry for key. Cache failures count as misses.
func (c *Client) load(ctx context.Context, key carina.CacheKey) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	b, err := c.cache.Get(ctx, key.String())
	if err != nil {
		c.logger.WarnContext(ctx, "cache get failed", "key", key.String(), "error", err)
		return nil, false
	}
	return b, b != nil
}

func (c *Client) store(ctx context.Context, key carina.CacheKey, b []byte) {
	if c.cache == nil || b == nil {
		return
	}
	if err := c.cache.Set(ctx, key.String(), b, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", "key", key.String(), "error", err)
	}
}

func (c *Client) evict(ctx context.Context, key carina.CacheKey) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, key.String()); err != nil {
		c.logger.WarnContext(ctx, "cache delete failed", "key", key.String(), "error", err)
	}
}
