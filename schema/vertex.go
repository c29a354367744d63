package schema

import (
	"iter"
	"reflect"
	"slices"

	"github.com/owl-K/nebula-carina"
)

// VertexType is a compiled vertex schema: an ordered list of named tag
// slots, each bound to a registered tag.
type VertexType struct {
	name   string
	goType reflect.Type
	reg    *Registry
	slots  []VertexSlot
	bySlot map[string]int
	byTag  map[string]int
}

// VertexSlot is a compiled Slot.
type VertexSlot struct {
	Name string
	Tag  *Type
}

// Name returns the vertex schema name.
func (v *VertexType) Name() string { return v.name }

// GoType returns the Go type the vertex schema was declared with.
func (v *VertexType) GoType() reflect.Type { return v.goType }

// Registry returns the registry the vertex schema was compiled against.
func (v *VertexType) Registry() *Registry { return v.reg }

// Slots returns the tag slots in declaration order.
func (v *VertexType) Slots() []VertexSlot { return slices.Clone(v.slots) }

// Slot returns the tag bound to the named slot.
func (v *VertexType) Slot(name string) (*Type, bool) {
	i, ok := v.bySlot[name]
	if !ok {
		return nil, false
	}
	return v.slots[i].Tag, true
}

// SlotForTag returns the slot name holding the tag with the given
// database name.
func (v *VertexType) SlotForTag(tag string) (string, bool) {
	i, ok := v.byTag[tag]
	if !ok {
		return "", false
	}
	return v.slots[i].Name, true
}

// IterateTagModels yields (slot name, tag) pairs in declaration order.
func (v *VertexType) IterateTagModels() iter.Seq2[string, *Type] {
	return func(yield func(string, *Type) bool) {
		for _, s := range v.slots {
			if !yield(s.Name, s.Tag) {
				return
			}
		}
	}
}

// TagName2Model maps the database name of every slotted tag to its type.
func (v *VertexType) TagName2Model() map[string]*Type {
	m := make(map[string]*Type, len(v.slots))
	for _, s := range v.slots {
		m[s.Tag.DBName()] = s.Tag
	}
	return m
}

// ResolveTag returns the slotted tag with the given database name, or an
// UnresolvedTagError when the vertex schema does not carry it.
func (v *VertexType) ResolveTag(tag string) (*Type, error) {
	i, ok := v.byTag[tag]
	if !ok {
		return nil, carina.NewUnresolvedTagError(v.name, tag)
	}
	return v.slots[i].Tag, nil
}
