package mixin

import (
	"github.com/owl-K/nebula-carina/schema"
	"github.com/owl-K/nebula-carina/schema/field"
)

// Schema is the default implementation for the schema.Mixin interface.
// It should be embedded in all custom mixin definitions.
//
//	type Audit struct {
//	    mixin.Schema
//	}
//
//	func (Audit) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.String("created_by").Nullable(),
//	    }
//	}
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []schema.Field { return nil }

var _ schema.Mixin = (*Schema)(nil)

// Time adds created_on and updated_on datetime fields, both filled in by
// the server with datetime() when the caller leaves them out.
type Time struct {
	Schema
}

// Fields returns the time tracking fields.
func (Time) Fields() []schema.Field {
	return []schema.Field{
		field.Datetime("created_on").
			Default(field.Auto).
			Comment("Time the entity was created"),
		field.Datetime("updated_on").
			Default(field.Auto).
			Comment("Time the entity was last written"),
	}
}

// CreateTime adds only the created_on field.
type CreateTime struct {
	Schema
}

// Fields returns the creation time field.
func (CreateTime) Fields() []schema.Field {
	return Time{}.Fields()[:1]
}

// UpdateTime adds only the updated_on field.
type UpdateTime struct {
	Schema
}

// Fields returns the update time field.
func (UpdateTime) Fields() []schema.Field {
	return Time{}.Fields()[1:]
}

// SoftDelete adds a nullable deleted_on datetime. Readers treat a
// non-NULL value as a tombstone.
type SoftDelete struct {
	Schema
}

// Fields returns the soft delete field.
func (SoftDelete) Fields() []schema.Field {
	return []schema.Field{
		field.Datetime("deleted_on").
			Nullable().
			Comment("Time the entity was soft deleted"),
	}
}

// TimeSoftDelete combines Time and SoftDelete.
type TimeSoftDelete struct {
	Schema
}

// Fields returns the time and soft delete fields.
func (TimeSoftDelete) Fields() []schema.Field {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// Comment returns a mixin that sets comment on every field of m that
// has none.
func Comment(m schema.Mixin, comment string) schema.Mixin {
	return commenter{Mixin: m, comment: comment}
}

type commenter struct {
	schema.Mixin
	comment string
}

func (c commenter) Fields() []schema.Field {
	fields := c.Mixin.Fields()
	for _, f := range fields {
		if d := f.Descriptor(); d.Comment == "" {
			d.Comment = c.comment
		}
	}
	return fields
}
