package migrate

import (
	"fmt"
	"strings"
)

// ValidationError describes a single issue found while planning.
type ValidationError struct {
	Schema   string
	Prop     string
	Message  string
	Breaking bool // May lose data or fail on existing data
}

func (e ValidationError) Error() string {
	if e.Prop != "" {
		return fmt.Sprintf("%s.%s: %s", e.Schema, e.Prop, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Schema, e.Message)
}

// ValidationResult collects the issues of a plan.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors reports whether the plan must not be applied.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges reports whether any issue is breaking.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String formats the result for display.
func (r *ValidationResult) String() string {
	if !r.HasErrors() && !r.HasWarnings() {
		return "No issues found"
	}
	var b strings.Builder
	write := func(title string, issues []ValidationError) {
		if len(issues) == 0 {
			return
		}
		b.WriteString(title)
		b.WriteString(":\n")
		for _, e := range issues {
			b.WriteString("  - ")
			b.WriteString(e.Error())
			if e.Breaking {
				b.WriteString(" [BREAKING]")
			}
			b.WriteByte('\n')
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	return b.String()
}

func (r *ValidationResult) warn(schema, prop, msg string, breaking bool) {
	r.Warnings = append(r.Warnings, ValidationError{Schema: schema, Prop: prop, Message: msg, Breaking: breaking})
}

func (r *ValidationResult) fail(schema, prop, msg string, breaking bool) {
	r.Errors = append(r.Errors, ValidationError{Schema: schema, Prop: prop, Message: msg, Breaking: breaking})
}
