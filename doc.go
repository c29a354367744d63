// Package carina maps typed Go schema definitions onto NebulaGraph.
//
// Schemas are declared as Go types embedding a kind marker, registered once
// in an explicit registry, and compiled into nGQL statements:
//
//	type Person struct{ schema.Tag }
//
//	func (Person) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.FixedString("name", 30),
//	        field.Int16("age"),
//	        field.Bool("is_active").Default(true),
//	    }
//	}
//
//	type Player struct{ schema.Vertex }
//
//	func (Player) Tags() []schema.Slot {
//	    return []schema.Slot{schema.TagSlot("person", Person{})}
//	}
//
//	reg := schema.NewRegistry()
//	if err := reg.RegisterVertex(Player{}); err != nil {
//	    log.Fatal(err)
//	}
//
// The model package builds vertices and edges from registered schemas and
// runs them through a dialect.Executor:
//
//	vt, _ := reg.Vertex(Player{})
//	person, _ := reg.MustLookup(Person{}).New(schema.Values{"name": "a", "age": 42})
//	v, _ := model.NewVertex(vt, "v1", map[string]*schema.Instance{"person": person})
//	err := v.Save(ctx, client, false)
//
// # Sub-packages
//
//   - schema/field: data types, literal rendering and field descriptors
//   - schema: tag, edge type and vertex schemas plus the registry
//   - ngql: statement compiler
//   - model: vertex and edge models, materialization, client and managers
//   - dialect: the executor capability and executor decorators
//   - config: connection settings
//   - migrate: schema diff and DDL plans
//   - cache/rediscache: a Redis-backed Cache
//
// This package holds the error taxonomy and the Cache interface shared by
// the sub-packages.
package carina
