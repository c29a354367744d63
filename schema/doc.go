// Package schema defines tags, edge types and vertices, and compiles them
// into a Registry.
//
// A tag or edge type is a named Go struct embedding Tag or EdgeType that
// overrides Fields:
//
//	type Person struct{ schema.Tag }
//
//	func (Person) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.FixedString("name", 30),
//	        field.Int16("age").Default(0),
//	        field.Bool("is_active").Default(true),
//	    }
//	}
//
//	type Follow struct{ schema.EdgeType }
//
//	func (Follow) Fields() []schema.Field {
//	    return []schema.Field{field.Double("degree").Default(1.0)}
//	}
//
// A vertex schema names the tags it carries:
//
//	type Player struct{ schema.Vertex }
//
//	func (Player) Tags() []schema.Slot {
//	    return []schema.Slot{schema.TagSlot("person", Person{})}
//	}
//
// Schemas are compiled explicitly, once, at startup:
//
//	reg := schema.NewRegistry()
//	if err := reg.Register(Follow{}); err != nil { ... }
//	if err := reg.RegisterVertex(Player{}); err != nil { ... }
//
// The database name of a schema is its Go type name in snake_case
// (Person -> person, TestTagModel -> test_tag_model) unless Config
// returns a Name.
//
// Field declaration order is kept: mixin fields first, then the schema's
// own fields. Statements list properties and literals in that order.
package schema
