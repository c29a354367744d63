package carina

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors. Every typed error below reports true for
// errors.Is against its sentinel.
var (
	// ErrNotFound is returned when a requested vertex or edge does not exist.
	ErrNotFound = errors.New("carina: entity not found")

	// ErrTypeConstraint is returned when a value is outside a data type's domain.
	ErrTypeConstraint = errors.New("carina: type constraint violated")

	// ErrMissingRequiredField is returned when a required field has no value and no default.
	ErrMissingRequiredField = errors.New("carina: missing required field")

	// ErrUnknownField is returned when a field name is not declared on a schema.
	ErrUnknownField = errors.New("carina: unknown field")

	// ErrUnresolved is returned when a database-reported tag or edge type
	// name has no registered schema.
	ErrUnresolved = errors.New("carina: unresolved schema name")

	// ErrMaterialization is returned when a raw row cannot be turned into an entity.
	ErrMaterialization = errors.New("carina: materialization failed")
)

// TypeConstraintError reports a value outside a data type's valid domain.
type TypeConstraintError struct {
	Type  string // Data type name, e.g. "int16"
	Bound string // Violated bound, e.g. "[-32768, 32767]"
	Value any    // Offending value
}

// Error returns the error string.
func (e *TypeConstraintError) Error() string {
	return fmt.Sprintf("carina: value %v (%T) violates %s constraint %s", e.Value, e.Value, e.Type, e.Bound)
}

// Is reports whether the target error matches ErrTypeConstraint.
func (e *TypeConstraintError) Is(err error) bool {
	return err == ErrTypeConstraint
}

// NewTypeConstraintError returns a new TypeConstraintError.
func NewTypeConstraintError(typ, bound string, value any) *TypeConstraintError {
	return &TypeConstraintError{Type: typ, Bound: bound, Value: value}
}

// IsTypeConstraintError returns true if the error is a TypeConstraintError.
func IsTypeConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeConstraintError
	return errors.As(err, &e)
}

// MissingRequiredFieldError reports a required field that was not supplied.
type MissingRequiredFieldError struct {
	Schema string // Schema db name, empty when unknown
	Field  string
}

// Error returns the error string.
func (e *MissingRequiredFieldError) Error() string {
	if e.Schema != "" {
		return fmt.Sprintf("carina: %s: missing required field %q", e.Schema, e.Field)
	}
	return fmt.Sprintf("carina: missing required field %q", e.Field)
}

// Is reports whether the target error matches ErrMissingRequiredField.
func (e *MissingRequiredFieldError) Is(err error) bool {
	return err == ErrMissingRequiredField
}

// NewMissingRequiredFieldError returns a new MissingRequiredFieldError.
func NewMissingRequiredFieldError(schema, field string) *MissingRequiredFieldError {
	return &MissingRequiredFieldError{Schema: schema, Field: field}
}

// IsMissingRequiredField returns true if the error is a MissingRequiredFieldError.
func IsMissingRequiredField(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingRequiredFieldError
	return errors.As(err, &e)
}

// UnknownFieldError reports a field name that is not declared on a schema.
type UnknownFieldError struct {
	Schema string
	Field  string
}

// Error returns the error string.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("carina: %s has no field %q", e.Schema, e.Field)
}

// Is reports whether the target error matches ErrUnknownField.
func (e *UnknownFieldError) Is(err error) bool {
	return err == ErrUnknownField
}

// NewUnknownFieldError returns a new UnknownFieldError.
func NewUnknownFieldError(schema, field string) *UnknownFieldError {
	return &UnknownFieldError{Schema: schema, Field: field}
}

// IsUnknownField returns true if the error is an UnknownFieldError.
func IsUnknownField(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownFieldError
	return errors.As(err, &e)
}

// UnresolvedTagError reports a tag name found on a row that the vertex
// schema does not declare.
type UnresolvedTagError struct {
	Vertex string // Vertex schema name
	Tag    string // Database-reported tag name
}

// Error returns the error string.
func (e *UnresolvedTagError) Error() string {
	return fmt.Sprintf("carina: vertex %s has no tag slot for %q", e.Vertex, e.Tag)
}

// Is reports whether the target error matches ErrUnresolved.
func (e *UnresolvedTagError) Is(err error) bool {
	return err == ErrUnresolved
}

// NewUnresolvedTagError returns a new UnresolvedTagError.
func NewUnresolvedTagError(vertex, tag string) *UnresolvedTagError {
	return &UnresolvedTagError{Vertex: vertex, Tag: tag}
}

// UnresolvedEdgeTypeError reports an edge type name with no registered schema.
type UnresolvedEdgeTypeError struct {
	EdgeType string
}

// Error returns the error string.
func (e *UnresolvedEdgeTypeError) Error() string {
	return fmt.Sprintf("carina: edge type %q is not registered", e.EdgeType)
}

// Is reports whether the target error matches ErrUnresolved.
func (e *UnresolvedEdgeTypeError) Is(err error) bool {
	return err == ErrUnresolved
}

// NewUnresolvedEdgeTypeError returns a new UnresolvedEdgeTypeError.
func NewUnresolvedEdgeTypeError(name string) *UnresolvedEdgeTypeError {
	return &UnresolvedEdgeTypeError{EdgeType: name}
}

// IsUnresolved returns true if the error is an UnresolvedTagError or an
// UnresolvedEdgeTypeError.
func IsUnresolved(err error) bool {
	return err != nil && errors.Is(err, ErrUnresolved)
}

// MaterializationError reports a raw row that cannot be turned into an entity.
type MaterializationError struct {
	Schema string // Schema being materialized
	Key    string // Offending row key, if any
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *MaterializationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("carina: materializing %s: key %q: %v", e.Schema, e.Key, e.Err)
	}
	return fmt.Sprintf("carina: materializing %s: %v", e.Schema, e.Err)
}

// Unwrap returns the underlying error.
func (e *MaterializationError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches ErrMaterialization.
func (e *MaterializationError) Is(err error) bool {
	return err == ErrMaterialization
}

// NewMaterializationError returns a new MaterializationError.
func NewMaterializationError(schema, key string, err error) *MaterializationError {
	return &MaterializationError{Schema: schema, Key: key, Err: err}
}

// IsMaterializationError returns true if the error is a MaterializationError.
func IsMaterializationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MaterializationError
	return errors.As(err, &e)
}

// ExecutionError wraps an executor failure with the attempted operation
// and target entity. The executor error is kept unchanged.
type ExecutionError struct {
	Op        string // Operation, e.g. "insert", "upsert", "out_edges"
	Target    string // Target entity, e.g. a vid or "src->dst@rank"
	Statement string // Statement that was sent
	Err       error  // Executor error
}

// Error returns the error string.
func (e *ExecutionError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("carina: %s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("carina: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError returns a new ExecutionError.
func NewExecutionError(op, target, stmt string, err error) *ExecutionError {
	return &ExecutionError{Op: op, Target: target, Statement: stmt, Err: err}
}

// IsExecutionError returns true if the error is an ExecutionError.
func IsExecutionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ExecutionError
	return errors.As(err, &e)
}

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
	id    any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("carina: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("carina: %s not found", e.label)
}

// Is reports whether the target error matches ErrNotFound.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the ID that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given entity label.
func NewNotFoundError(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ConfigError reports an invalid schema definition or connection setting,
// such as two different schemas registered under one name.
type ConfigError struct {
	Name string // Schema or setting name
	Msg  string
	Err  error
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("carina: config %s: %s: %v", e.Name, e.Msg, e.Err)
	}
	return fmt.Sprintf("carina: config %s: %s", e.Name, e.Msg)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError returns a new ConfigError.
func NewConfigError(name, msg string, err error) *ConfigError {
	return &ConfigError{Name: name, Msg: msg, Err: err}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "carina: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("carina: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors so errors.Is and errors.As see them.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
