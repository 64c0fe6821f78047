// Package validator checks creation inputs against the field constraints of
// the persisted entities. Server-assigned fields (ids, grievance numbers,
// timestamps, status defaults) are not part of any input shape.
package validator

import (
	"fmt"
	"strings"
)

// FieldViolation describes a single broken constraint.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one entry per violated field constraint.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

func (e *ValidationError) add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
