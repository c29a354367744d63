// Package model provides vertex and edge models over registered schemas.
//
// A Vertex is a vertex id with one tag instance per slot of its vertex
// type; an Edge links two vertex ids through one edge type instance. Both
// compile into a single insert or upsert statement and run through any
// dialect.Executor:
//
//	vt := reg.MustVertex(Player{})
//	person, err := reg.MustLookup(Person{}).New(schema.Values{"name": "a", "age": 42})
//	if err != nil {
//	    return err
//	}
//	v, err := model.NewVertex(vt, "v1", map[string]*schema.Instance{"person": person})
//	if err != nil {
//	    return err
//	}
//	if err := v.Save(ctx, client, true); err != nil {
//	    return err
//	}
//
// Traversals are lazy. Rows are read as the sequence is consumed and
// released when the loop ends:
//
//	for e, err := range v.OutEdges(ctx, client, model.OverEdge(Follow{}), model.Limit(10)) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(e.Dst)
//	}
//
// FromVertex, FromRow, FromEdge and EdgeFromRow turn raw rows back into
// models. A Client adds the default space, logging and caching on top of an
// executor, and hands out VertexManager and EdgeManager values for reads.
package model
