package ngql

import (
	"strconv"
	"strings"

	"github.com/owl-K/nebula-carina/schema/field"
)

// Column names the statements of this package yield.
const (
	ColumnVertex = "v"
	ColumnEdge   = "e"
)

// GoBuilder builds a GO traversal.
type GoBuilder struct {
	from      []string
	over      []string
	reversely bool
	steps     int
	yield     string
	limit     int
}

// Go starts a traversal from the given vertices.
//
//	ngql.Go("a").Over("follow").Reversely().YieldEdges().Limit(10).String()
//	// GO FROM "a" OVER follow REVERSELY YIELD edge AS e | LIMIT 10
func Go(vids ...string) *GoBuilder {
	return &GoBuilder{from: vids, yield: "edge AS " + ColumnEdge}
}

// Over restricts the traversal to the given edge types. No edge types
// means all of them.
func (g *GoBuilder) Over(edgeTypes ...string) *GoBuilder {
	g.over = append(g.over, edgeTypes...)
	return g
}

// Reversely walks incoming edges.
func (g *GoBuilder) Reversely() *GoBuilder {
	g.reversely = true
	return g
}

// Steps sets the number of hops. Values below 2 mean a single hop.
func (g *GoBuilder) Steps(n int) *GoBuilder {
	g.steps = n
	return g
}

// YieldEdges yields the traversed edges in column e.
func (g *GoBuilder) YieldEdges() *GoBuilder {
	g.yield = "edge AS " + ColumnEdge
	return g
}

// YieldVertices yields the vertices at the far end in column v.
func (g *GoBuilder) YieldVertices() *GoBuilder {
	g.yield = "$$ AS " + ColumnVertex
	return g
}

// Limit caps the number of rows. Zero means no limit.
func (g *GoBuilder) Limit(n int) *GoBuilder {
	g.limit = n
	return g
}

// String renders the traversal.
func (g *GoBuilder) String() string {
	var b strings.Builder
	b.WriteString("GO ")
	if g.steps > 1 {
		b.WriteString(strconv.Itoa(g.steps))
		b.WriteString(" STEPS ")
	}
	b.WriteString("FROM ")
	b.WriteString(vidList(g.from))
	b.WriteString(" OVER ")
	if len(g.over) == 0 {
		b.WriteByte('*')
	} else {
		idents := make([]string, len(g.over))
		for i, e := range g.over {
			idents[i] = field.QuoteIdent(e)
		}
		b.WriteString(strings.Join(idents, ", "))
	}
	if g.reversely {
		b.WriteString(" REVERSELY")
	}
	b.WriteString(" YIELD ")
	b.WriteString(g.yield)
	if g.limit > 0 {
		b.WriteString(" | LIMIT ")
		b.WriteString(strconv.Itoa(g.limit))
	}
	return b.String()
}

// FetchVertices renders a fetch of whole vertices, yielded in column v.
func FetchVertices(vids ...string) string {
	return "FETCH PROP ON * " + vidList(vids) + " YIELD vertex AS " + ColumnVertex
}

// FetchEdges renders a fetch of edges of one type, yielded in column e.
func FetchEdges(edgeType string, edges ...EdgeAddr) string {
	keys := make([]string, len(edges))
	for i, e := range edges {
		keys[i] = EdgeKey(e.Src, e.Dst, e.Rank)
	}
	return "FETCH PROP ON " + field.QuoteIdent(edgeType) + " " + strings.Join(keys, ", ") + " YIELD edge AS " + ColumnEdge
}

// MatchTag renders a MATCH returning vertices carrying tag in column v.
// Zero limit means no limit.
func MatchTag(tag string, limit int) string {
	s := "MATCH (" + ColumnVertex + ":" + field.QuoteIdent(tag) + ") RETURN " + ColumnVertex
	if limit > 0 {
		s += " LIMIT " + strconv.Itoa(limit)
	}
	return s
}
