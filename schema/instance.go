package schema

import (
	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/schema/field"
)

// Instance is a validated set of property values for one tag or edge type.
type Instance struct {
	typ    *Type
	values []field.Value // in declaration order
}

// Type returns the schema of the instance.
func (i *Instance) Type() *Type { return i.typ }

// Value returns the validated value of the named attribute.
func (i *Instance) Value(name string) (field.Value, error) {
	idx, ok := i.typ.byName[name]
	if !ok {
		return field.Value{}, carina.NewUnknownFieldError(i.typ.name, name)
	}
	return i.values[idx], nil
}

// Get returns the canonical Go value of the named attribute.
func (i *Instance) Get(name string) (any, error) {
	v, err := i.Value(name)
	if err != nil {
		return nil, err
	}
	return v.Value, nil
}

// FieldValue returns the literal form of the named attribute.
func (i *Instance) FieldValue(name string) (string, error) {
	v, err := i.Value(name)
	if err != nil {
		return "", err
	}
	return v.Literal, nil
}

// FieldDict maps every attribute name to its literal form.
func (i *Instance) FieldDict() map[string]string {
	m := make(map[string]string, len(i.values))
	for _, v := range i.values {
		m[v.Field.Name] = v.Literal
	}
	return m
}

// Values maps every attribute name to its canonical Go value.
func (i *Instance) Values() Values {
	m := make(Values, len(i.values))
	for _, v := range i.values {
		m[v.Field.Name] = v.Value
	}
	return m
}

// WireNames returns the property names in declaration order.
func (i *Instance) WireNames() []string {
	names := make([]string, len(i.values))
	for j, v := range i.values {
		names[j] = v.Field.WireName()
	}
	return names
}

// Literals returns the literal forms in declaration order.
func (i *Instance) Literals() []string {
	lits := make([]string, len(i.values))
	for j, v := range i.values {
		lits[j] = v.Literal
	}
	return lits
}

// Set validates v and replaces the value of the named attribute.
func (i *Instance) Set(name string, v any) error {
	idx, ok := i.typ.byName[name]
	if !ok {
		return carina.NewUnknownFieldError(i.typ.name, name)
	}
	fv, err := i.typ.fields[idx].CreateDBField(v, true)
	if err != nil {
		return err
	}
	i.values[idx] = fv
	return nil
}
