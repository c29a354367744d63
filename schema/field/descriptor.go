package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/owl-K/nebula-carina"
)

// Requirement tells whether a field must be supplied at construction.
// It is either Required or Defaulted.
type Requirement interface {
	requirement()
}

// Required marks a field that has no default.
type Required struct{}

// Defaulted marks a field whose Value is used when none is supplied.
// A nil Value means NULL and is only valid on nullable fields.
type Defaulted struct {
	Value any
}

func (Required) requirement()  {}
func (Defaulted) requirement() {}

// Descriptor binds a data type, a requirement and metadata to a named
// attribute of a tag or edge type.
type Descriptor struct {
	Name        string      // Attribute name, the local identifier
	Type        DataType    // Bound data type
	Requirement Requirement // Required or Defaulted
	Nullable    bool        // Property accepts NULL
	Alias       string      // Property name on the wire, if different from Name
	Comment     string      // Human description, emitted as COMMENT in DDL
	Err         error       // Definition error, reported at registration
}

// WireName returns the property name used in statements and rows.
func (d *Descriptor) WireName() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.Name
}

// Default returns the default value and whether the field has one.
func (d *Descriptor) Default() (any, bool) {
	if def, ok := d.Requirement.(Defaulted); ok {
		return def.Value, true
	}
	return nil, false
}

// IsRequired reports whether the field has no default.
func (d *Descriptor) IsRequired() bool {
	_, ok := d.Requirement.(Required)
	return ok
}

// Value is a validated field value together with its literal form.
type Value struct {
	Field   *Descriptor
	Value   any    // Canonical Go value
	Literal string // nGQL literal
}

// CreateDBField validates v against the bound data type, or substitutes the
// default when present is false.
func (d *Descriptor) CreateDBField(v any, present bool) (Value, error) {
	if !present {
		def, ok := d.Default()
		if !ok {
			return Value{}, carina.NewMissingRequiredFieldError("", d.Name)
		}
		v = def
	}
	if v == nil && !d.Nullable {
		return Value{}, fmt.Errorf("field %q: %w", d.Name, carina.NewTypeConstraintError(d.Type.Name(), "NOT NULL", v))
	}
	c, err := d.Type.Coerce(v)
	if err != nil {
		return Value{}, fmt.Errorf("field %q: %w", d.Name, err)
	}
	lit, err := d.Type.Literal(c)
	if err != nil {
		return Value{}, fmt.Errorf("field %q: %w", d.Name, err)
	}
	return Value{Field: d, Value: c, Literal: lit}, nil
}

// Definition renders the property definition used by CREATE and ALTER.
func (d *Descriptor) Definition() string {
	var b strings.Builder
	b.WriteString(QuoteIdent(d.WireName()))
	b.WriteByte(' ')
	b.WriteString(d.Type.Name())
	if d.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if def, ok := d.Default(); ok && def != nil {
		if lit, err := d.Type.Literal(def); err == nil {
			b.WriteString(" DEFAULT ")
			b.WriteString(lit)
		}
	}
	if d.Comment != "" {
		b.WriteString(" COMMENT ")
		b.WriteString(Quote(d.Comment))
	}
	return b.String()
}

// Builder is the fluent builder returned by the field constructors.
type Builder struct {
	desc    *Descriptor
	checked bool
}

// Of returns a builder for a field of the given data type.
func Of(name string, t DataType) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Type: t, Requirement: Required{}}}
}

// String returns a builder for a string field.
func String(name string) *Builder { return Of(name, TypeString) }

// FixedString returns a builder for a fixed_string(size) field.
func FixedString(name string, size int) *Builder {
	b := Of(name, FixedStringType(size))
	if size <= 0 {
		b.desc.Err = fmt.Errorf("field %q: fixed_string size must be positive, got %d", name, size)
	}
	return b
}

// Int returns a builder for an int64 field.
func Int(name string) *Builder { return Int64(name) }

// Int64 returns a builder for an int64 field.
func Int64(name string) *Builder { return Of(name, TypeInt64) }

// Int32 returns a builder for an int32 field.
func Int32(name string) *Builder { return Of(name, TypeInt32) }

// Int16 returns a builder for an int16 field.
func Int16(name string) *Builder { return Of(name, TypeInt16) }

// Int8 returns a builder for an int8 field.
func Int8(name string) *Builder { return Of(name, TypeInt8) }

// Float returns a builder for a float field.
func Float(name string) *Builder { return Of(name, TypeFloat) }

// Double returns a builder for a double field.
func Double(name string) *Builder { return Of(name, TypeDouble) }

// Bool returns a builder for a bool field.
func Bool(name string) *Builder { return Of(name, TypeBool) }

// Date returns a builder for a date field.
func Date(name string) *Builder { return Of(name, TypeDate) }

// Time returns a builder for a time field.
func Time(name string) *Builder { return Of(name, TypeTime) }

// Datetime returns a builder for a datetime field.
func Datetime(name string) *Builder { return Of(name, TypeDatetime) }

// Timestamp returns a builder for a timestamp field.
func Timestamp(name string) *Builder { return Of(name, TypeTimestamp) }

// Default sets the value used when none is supplied. Use Auto on temporal
// fields for a server-side default.
func (b *Builder) Default(v any) *Builder {
	if v == nil {
		b.desc.Requirement = Defaulted{}
		return b
	}
	c, err := b.desc.Type.Coerce(v)
	if err != nil {
		b.desc.Err = errors.Join(b.desc.Err, fmt.Errorf("field %q: invalid default: %w", b.desc.Name, err))
		return b
	}
	b.desc.Requirement = Defaulted{Value: c}
	return b
}

// Nullable allows NULL. A nullable field without an explicit default
// defaults to NULL.
func (b *Builder) Nullable() *Builder {
	b.desc.Nullable = true
	if b.desc.IsRequired() {
		b.desc.Requirement = Defaulted{}
	}
	return b
}

// Alias sets the property name used on the wire.
func (b *Builder) Alias(name string) *Builder {
	b.desc.Alias = name
	return b
}

// Comment sets the field description.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the schema.Field interface.
func (b *Builder) Descriptor() *Descriptor {
	d := b.desc
	if b.checked {
		return d
	}
	b.checked = true
	if d.Name == "" {
		d.Err = errors.Join(d.Err, errors.New("field: missing name"))
	}
	if def, ok := d.Default(); ok && def == nil && !d.Nullable {
		d.Err = errors.Join(d.Err, fmt.Errorf("field %q: NULL default on a NOT NULL field", d.Name))
	}
	return d
}
