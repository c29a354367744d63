package schema

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"time"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/schema/field"
)

// Type is a compiled tag or edge type: its database name and its fields in
// declaration order.
type Type struct {
	name    string
	comment string
	kind    Kind
	goType  reflect.Type
	fields  []*field.Descriptor
	byName  map[string]int
	byWire  map[string]int
}

func compile(s Schema) (*Type, error) {
	if s == nil {
		return nil, carina.NewConfigError("<nil>", "nil schema", nil)
	}
	name := DBName(s)
	if name == "" {
		return nil, carina.NewConfigError(fmt.Sprintf("%T", s), "cannot derive a name from an unnamed type", nil)
	}
	if k := s.Kind(); k != KindTag && k != KindEdgeType {
		return nil, carina.NewConfigError(name, fmt.Sprintf("invalid kind %d", k), nil)
	}
	t := &Type{
		name:    name,
		comment: s.Config().Comment,
		kind:    s.Kind(),
		goType:  reflect.TypeOf(s),
		byName:  make(map[string]int),
		byWire:  make(map[string]int),
	}
	var fields []Field
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, s.Fields()...)
	var errs []error
	for _, f := range fields {
		fd := f.Descriptor()
		if fd.Err != nil {
			errs = append(errs, fd.Err)
			continue
		}
		if _, ok := t.byName[fd.Name]; ok {
			errs = append(errs, fmt.Errorf("duplicate field %q", fd.Name))
			continue
		}
		if _, ok := t.byWire[fd.WireName()]; ok {
			errs = append(errs, fmt.Errorf("duplicate property name %q", fd.WireName()))
			continue
		}
		t.byName[fd.Name] = len(t.fields)
		t.byWire[fd.WireName()] = len(t.fields)
		t.fields = append(t.fields, fd)
	}
	if err := carina.NewAggregateError(errs...); err != nil {
		return nil, carina.NewConfigError(name, "invalid fields", err)
	}
	return t, nil
}

// DBName returns the database-visible name.
func (t *Type) DBName() string { return t.name }

// Kind returns the schema kind.
func (t *Type) Kind() Kind { return t.kind }

// Comment returns the schema comment.
func (t *Type) Comment() string { return t.comment }

// GoType returns the Go type the schema was declared with.
func (t *Type) GoType() reflect.Type { return t.goType }

// Fields returns the field descriptors in declaration order.
func (t *Type) Fields() []*field.Descriptor { return slices.Clone(t.fields) }

// FieldNames returns the attribute names in declaration order.
func (t *Type) FieldNames() []string {
	names := make([]string, len(t.fields))
	for i, fd := range t.fields {
		names[i] = fd.Name
	}
	return names
}

// Field returns the descriptor of the named attribute.
func (t *Type) Field(name string) (*field.Descriptor, error) {
	i, ok := t.byName[name]
	if !ok {
		return nil, carina.NewUnknownFieldError(t.name, name)
	}
	return t.fields[i], nil
}

// Definitions returns the property definitions used by CREATE TAG/EDGE.
func (t *Type) Definitions() []string {
	defs := make([]string, len(t.fields))
	for i, fd := range t.fields {
		defs[i] = fd.Definition()
	}
	return defs
}

// New constructs an instance. Keys of values are attribute names; absent
// fields take their default.
func (t *Type) New(values Values) (*Instance, error) {
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if _, ok := t.byName[k]; !ok {
			return nil, carina.NewUnknownFieldError(t.name, k)
		}
	}
	inst := &Instance{typ: t, values: make([]field.Value, len(t.fields))}
	for i, fd := range t.fields {
		v, ok := values[fd.Name]
		fv, err := fd.CreateDBField(v, ok)
		if err != nil {
			return nil, t.fieldError(err)
		}
		inst.values[i] = fv
	}
	return inst, nil
}

// PropsOption configures FromProps.
type PropsOption func(*propsOptions)

type propsOptions struct {
	loc *time.Location
}

// InLocation converts datetime values reported by the server into loc
// before they are stored on the instance.
func InLocation(loc *time.Location) PropsOption {
	return func(o *propsOptions) { o.loc = loc }
}

// FromProps constructs an instance from a raw property map keyed by wire
// names. Unknown keys are ignored.
func (t *Type) FromProps(raw map[string]any, opts ...PropsOption) (*Instance, error) {
	var o propsOptions
	for _, opt := range opts {
		opt(&o)
	}
	inst := &Instance{typ: t, values: make([]field.Value, len(t.fields))}
	for i, fd := range t.fields {
		v, ok := raw[fd.WireName()]
		if !ok && fd.IsRequired() {
			return nil, carina.NewMaterializationError(t.name, fd.WireName(), carina.NewMissingRequiredFieldError(t.name, fd.Name))
		}
		if tm, isTime := v.(time.Time); isTime && o.loc != nil && fd.Type == field.TypeDatetime {
			v = tm.In(o.loc)
		}
		fv, err := fd.CreateDBField(v, ok)
		if err != nil {
			return nil, carina.NewMaterializationError(t.name, fd.WireName(), err)
		}
		inst.values[i] = fv
	}
	return inst, nil
}

func (t *Type) fieldError(err error) error {
	var missing *carina.MissingRequiredFieldError
	if errors.As(err, &missing) && missing.Schema == "" {
		missing.Schema = t.name
	}
	return err
}

// sameFields reports whether u declares the same properties as t.
func (t *Type) sameFields(u *Type) bool {
	if t.kind != u.kind || len(t.fields) != len(u.fields) {
		return false
	}
	for i, a := range t.fields {
		b := u.fields[i]
		if a.Name != b.Name || a.WireName() != b.WireName() || a.Type.Name() != b.Type.Name() ||
			a.Nullable != b.Nullable || !reflect.DeepEqual(a.Requirement, b.Requirement) {
			return false
		}
	}
	return true
}
