package ngql

import (
	"strconv"
	"strings"

	"github.com/owl-K/nebula-carina/schema/field"
)

// Op is the write operation a statement performs.
type Op uint8

// Write operations.
const (
	OpInsert Op = iota
	OpUpsert
)

// String returns the nGQL keyword of the operation.
func (o Op) String() string {
	if o == OpUpsert {
		return "UPSERT"
	}
	return "INSERT"
}

// Entity is one tag or edge type with its property names and literals,
// index-aligned.
type Entity struct {
	Name   string
	Props  []string
	Values []string
}

// VertexStatement writes all tags of one vertex. An insert is a single
// statement; an upsert is one UPSERT per tag joined by semicolons.
type VertexStatement struct {
	Op          Op
	IfNotExists bool
	VID         string
	Tags        []Entity
}

// String renders the statement.
//
//	INSERT VERTEX IF NOT EXISTS t1(p1, p2), t2() VALUES "vid":(l1, l2)
//	UPSERT VERTEX ON t1 "vid" SET p1 = l1, p2 = l2; UPSERT VERTEX ON t2 ...
//
// Upsert renders a tag without properties as an insert of that tag, since
// UPSERT needs at least one assignment. The upserts of a multi-tag vertex
// are not atomic: a failure can leave earlier tags written.
func (s *VertexStatement) String() string {
	vid := field.Quote(s.VID)
	if s.Op == OpInsert {
		return insertVertex(s.IfNotExists, vid, s.Tags)
	}
	parts := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		if len(t.Props) == 0 {
			parts = append(parts, insertVertex(false, vid, []Entity{t}))
			continue
		}
		parts = append(parts, "UPSERT VERTEX ON "+field.QuoteIdent(t.Name)+" "+vid+" SET "+assignments(t))
	}
	return strings.Join(parts, "; ")
}

func insertVertex(ifNotExists bool, vid string, tags []Entity) string {
	var b strings.Builder
	b.WriteString("INSERT VERTEX ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	var values []string
	for i, t := range tags {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(field.QuoteIdent(t.Name))
		b.WriteString(propList(t.Props))
		values = append(values, t.Values...)
	}
	b.WriteString(" VALUES ")
	b.WriteString(vid)
	b.WriteString(":(")
	b.WriteString(strings.Join(values, ", "))
	b.WriteByte(')')
	return b.String()
}

// EdgeStatement writes one directed edge.
type EdgeStatement struct {
	Op          Op
	IfNotExists bool
	Src, Dst    string
	Rank        int64
	Edge        Entity
}

// String renders the statement.
//
//	INSERT EDGE IF NOT EXISTS e(p1) VALUES "src"->"dst"@0:(l1)
//	UPSERT EDGE ON e "src"->"dst"@0 SET p1 = l1
func (s *EdgeStatement) String() string {
	key := EdgeKey(s.Src, s.Dst, s.Rank)
	if s.Op == OpUpsert && len(s.Edge.Props) > 0 {
		return "UPSERT EDGE ON " + field.QuoteIdent(s.Edge.Name) + " " + key + " SET " + assignments(s.Edge)
	}
	var b strings.Builder
	b.WriteString("INSERT EDGE ")
	if s.IfNotExists && s.Op == OpInsert {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(field.QuoteIdent(s.Edge.Name))
	b.WriteString(propList(s.Edge.Props))
	b.WriteString(" VALUES ")
	b.WriteString(key)
	b.WriteString(":(")
	b.WriteString(strings.Join(s.Edge.Values, ", "))
	b.WriteByte(')')
	return b.String()
}

// EdgeKey renders the "src"->"dst"@rank edge address.
func EdgeKey(src, dst string, rank int64) string {
	return field.Quote(src) + "->" + field.Quote(dst) + "@" + strconv.FormatInt(rank, 10)
}

func propList(props []string) string {
	idents := make([]string, len(props))
	for i, p := range props {
		idents[i] = field.QuoteIdent(p)
	}
	return "(" + strings.Join(idents, ", ") + ")"
}

func assignments(e Entity) string {
	sets := make([]string, len(e.Props))
	for i, p := range e.Props {
		sets[i] = field.QuoteIdent(p) + " = " + e.Values[i]
	}
	return strings.Join(sets, ", ")
}

// DeleteVertices renders DELETE VERTEX. With withEdge the edges attached
// to the vertices are removed too.
func DeleteVertices(withEdge bool, vids ...string) string {
	s := "DELETE VERTEX " + vidList(vids)
	if withEdge {
		s += " WITH EDGE"
	}
	return s
}

// EdgeAddr identifies one edge of a known type.
type EdgeAddr struct {
	Src, Dst string
	Rank     int64
}

// DeleteEdges renders DELETE EDGE for edges of one type.
func DeleteEdges(edgeType string, edges ...EdgeAddr) string {
	keys := make([]string, len(edges))
	for i, e := range edges {
		keys[i] = EdgeKey(e.Src, e.Dst, e.Rank)
	}
	return "DELETE EDGE " + field.QuoteIdent(edgeType) + " " + strings.Join(keys, ", ")
}

func vidList(vids []string) string {
	quoted := make([]string, len(vids))
	for i, v := range vids {
		quoted[i] = field.Quote(v)
	}
	return strings.Join(quoted, ", ")
}
