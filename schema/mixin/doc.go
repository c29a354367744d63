// Package mixin provides reusable field sets for tags and edge types.
//
// Mixins are applied through the Mixin method of a schema. Their fields
// come first, in the order the mixins are listed:
//
//	type Person struct{ schema.Tag }
//
//	func (Person) Mixin() []schema.Mixin {
//	    return []schema.Mixin{mixin.Time{}}
//	}
//
//	func (Person) Fields() []schema.Field {
//	    return []schema.Field{field.FixedString("name", 30)}
//	}
//
// Person then has created_on, updated_on and name, in that order.
//
// Built-in mixins:
//
//	mixin.Time{}           // created_on, updated_on defaulting to datetime()
//	mixin.CreateTime{}     // created_on
//	mixin.UpdateTime{}     // updated_on
//	mixin.SoftDelete{}     // nullable deleted_on
//	mixin.TimeSoftDelete{} // Time and SoftDelete
package mixin
