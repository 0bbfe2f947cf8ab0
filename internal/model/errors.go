package model

import "strings"

// FieldError names one violated field and why it is invalid.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field of a request into a
// single structured failure.  Validation never fails fast on the
// first violation: callers get the full list so clients can surface
// all problems at once.  It is a plain error value, not an exception
// used for control flow.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Add appends one field violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Empty reports whether no violations were recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// ErrOrNil returns the error itself when violations were recorded and
// nil otherwise, so validators can end with `return v.ErrOrNil()`.
func (e *ValidationError) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
