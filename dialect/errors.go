package dialect

import (
	"errors"
	"strings"
)

// Server error codes, as reported by graphd.
const (
	CodeSpaceNotFound  = -5
	CodeTagNotFound    = -6
	CodeEdgeNotFound   = -7
	CodeSyntaxError    = -1004
	CodeExecutionError = -1005
	CodeSemanticError  = -1009
	CodeExisted        = -2002
)

// errorCoder is implemented by client errors that carry a server code.
type errorCoder interface {
	ErrorCode() int
}

// ServerError is a failed statement as reported by the server.
type ServerError struct {
	Code int
	Msg  string
}

// Error returns the error string.
func (e *ServerError) Error() string {
	return e.Msg
}

// ErrorCode returns the server code.
func (e *ServerError) ErrorCode() int {
	return e.Code
}

// IsExistedError reports whether err says the schema or space already exists.
func IsExistedError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[errorCoder](err); ok && e.ErrorCode() == CodeExisted {
		return true
	}
	msg := err.Error()
	return containsAny(msg, "Existed", "existed") && !containsAny(msg, "not existed", "Not existed")
}

// IsSchemaNotFoundError reports whether err says a space, tag or edge type
// does not exist.
func IsSchemaNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[errorCoder](err); ok {
		switch e.ErrorCode() {
		case CodeSpaceNotFound, CodeTagNotFound, CodeEdgeNotFound:
			return true
		}
	}
	return containsAny(err.Error(),
		"SpaceNotFound", "TagNotFound", "EdgeNotFound",
		"Tag not existed", "Edge not existed", "not found",
	)
}

// IsSyntaxError reports whether err is a statement syntax error.
func IsSyntaxError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[errorCoder](err); ok && e.ErrorCode() == CodeSyntaxError {
		return true
	}
	return containsAny(err.Error(), "SyntaxError")
}

// IsSemanticError reports whether err is a semantic error, such as a
// property that does not exist.
func IsSemanticError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[errorCoder](err); ok && e.ErrorCode() == CodeSemanticError {
		return true
	}
	return containsAny(err.Error(), "SemanticError")
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
