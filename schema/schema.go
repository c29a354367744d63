package schema

import (
	"reflect"
	"sync"

	"github.com/go-openapi/inflect"

	"github.com/owl-K/nebula-carina/schema/field"
)

// Field is implemented by the field builders.
type Field interface {
	Descriptor() *field.Descriptor
}

// Kind tells tags and edge types apart.
type Kind uint8

// Schema kinds.
const (
	KindTag Kind = iota + 1
	KindEdgeType
)

// String returns the nGQL keyword of the kind.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "TAG"
	case KindEdgeType:
		return "EDGE"
	default:
		return "INVALID"
	}
}

// Config overrides the derived schema settings.
type Config struct {
	// Name replaces the snake_case name derived from the Go type.
	Name string
	// Comment is emitted as the COMMENT of the created tag or edge type.
	Comment string
}

// Mixin is a reusable list of fields. Mixin fields come before the
// schema's own fields.
type Mixin interface {
	Fields() []Field
}

// Schema is a tag or an edge type definition. Embed Tag or EdgeType in a
// named struct and override Fields:
//
//	type Person struct{ schema.Tag }
//
//	func (Person) Fields() []schema.Field {
//	    return []schema.Field{field.FixedString("name", 30), field.Int16("age")}
//	}
type Schema interface {
	Kind() Kind
	Fields() []Field
	Mixin() []Mixin
	Config() Config
}

// Tag is the base for tag definitions.
type Tag struct{}

// Kind implements the Schema interface.
func (Tag) Kind() Kind { return KindTag }

// Fields of the tag.
func (Tag) Fields() []Field { return nil }

// Mixin of the tag.
func (Tag) Mixin() []Mixin { return nil }

// Config of the tag.
func (Tag) Config() Config { return Config{} }

// EdgeType is the base for edge type definitions.
type EdgeType struct{}

// Kind implements the Schema interface.
func (EdgeType) Kind() Kind { return KindEdgeType }

// Fields of the edge type.
func (EdgeType) Fields() []Field { return nil }

// Mixin of the edge type.
func (EdgeType) Mixin() []Mixin { return nil }

// Config of the edge type.
func (EdgeType) Config() Config { return Config{} }

// VertexSchema declares the tag slots a vertex carries.
type VertexSchema interface {
	Tags() []Slot
	Config() Config
}

// Vertex is the base for vertex definitions.
//
//	type Player struct{ schema.Vertex }
//
//	func (Player) Tags() []schema.Slot {
//	    return []schema.Slot{schema.TagSlot("person", Person{})}
//	}
type Vertex struct{}

// Tags of the vertex.
func (Vertex) Tags() []Slot { return nil }

// Config of the vertex.
func (Vertex) Config() Config { return Config{} }

// Slot is a named tag attachment point on a vertex schema.
type Slot struct {
	Name   string
	Schema Schema
}

// TagSlot returns a slot named name holding the tag s.
func TagSlot(name string, s Schema) Slot {
	return Slot{Name: name, Schema: s}
}

// Values maps attribute names to Go values.
type Values map[string]any

var names sync.Map // reflect.Type -> string

// DBName returns the database-visible name of a schema: Config().Name when
// set, otherwise the Go type name in snake_case (TestTagModel ->
// test_tag_model). The derived name is computed once per type.
func DBName(s interface{ Config() Config }) string {
	if n := s.Config().Name; n != "" {
		return n
	}
	key := reflect.TypeOf(s)
	if n, ok := names.Load(key); ok {
		return n.(string)
	}
	t := key
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	n, _ := names.LoadOrStore(key, inflect.Underscore(t.Name()))
	return n.(string)
}
