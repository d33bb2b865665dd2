package sanitizer

import (
	"errors"
	"fmt"
)

var (
	ErrParse        = errors.New("malformed json input")
	ErrUnknownType  = errors.New("unknown target type")
	ErrInvalidField = errors.New("invalid field")
	ErrConstruction = errors.New("cannot construct target type")
	ErrValidation   = errors.New("struct validation failed")
	ErrInput        = errors.New("unsupported input")
)

// InvalidFieldError names the first field that sanitized to nil under
// FailHard.
type InvalidFieldError struct {
	Field string
	// Index is the record position for list input, -1 for a single record.
	Index int
	// Element is the position inside an int[] value, -1 for scalars.
	Element int
	Value   any
}

func (e *InvalidFieldError) Error() string {
	msg := fmt.Sprintf("invalid field %s", e.Field)
	if e.Element >= 0 {
		msg += fmt.Sprintf("[%d]", e.Element)
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf(" in record %d", e.Index)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(": %v", e.Value)
	}
	return msg
}

func (e *InvalidFieldError) Unwrap() error {
	return ErrInvalidField
}

// FieldError describes a value that could not be assigned to a struct field.
type FieldError struct {
	Type  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrConstruction, e.Err}
}
