// Package field provides the nGQL data types and the fluent builders used to
// declare tag and edge type properties.
//
// # Data Types
//
// Every property is bound to one DataType from a fixed catalog. A DataType
// validates Go values and renders them as nGQL literals; it is the only
// place in the module where literal syntax is produced:
//
//	field.TypeString.Literal(`say "hi"`)   // "say \"hi\""
//	field.TypeInt16.Literal(42)            // 42
//	field.TypeInt16.Literal(70000)         // TypeConstraintError, bound [-32768, 32767]
//	field.TypeBool.Literal(true)           // true
//	field.TypeDate.Literal(day)            // date("2023-01-01")
//	field.TypeDatetime.Literal(field.Auto) // datetime()
//
// Parse is the inverse of Literal.
//
// # Field Builders
//
//	field.String("name")
//	field.FixedString("code", 30)
//	field.Int16("age")
//	field.Double("score").Default(0)
//	field.Datetime("created_on").Default(field.Auto)
//	field.String("nickname").Nullable()
//	field.String("title").Alias("job_title").Comment("Job title")
//
// A field without Default is Required: constructing an entity without it
// fails with carina.MissingRequiredFieldError. Nullable fields default to NULL.
//
// # Aliases
//
// The attribute name passed to the builder is the local identifier. When an
// alias is set it is the property name used in statements and result rows.
package field
