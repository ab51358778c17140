package models

import (
	"errors"
	"fmt"
)

// InputError collects per-field validation failures so a caller can report
// every problem at once instead of failing on the first.
type InputError struct {
	fields map[string][]string
}

// NewInputError creates an empty InputError.
func NewInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

// IsInputError unwraps err to an *InputError, or returns nil.
func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError
	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

// Add records a validation message for a field.
func (ie *InputError) Add(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

// Addf records a formatted validation message for a field.
func (ie *InputError) Addf(field, format string, args ...interface{}) {
	ie.Add(field, fmt.Sprintf(format, args...))
}

// Count returns the number of fields with at least one failure.
func (ie *InputError) Count() int {
	return len(ie.fields)
}

// Fields returns the recorded failures keyed by field name.
func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("%+v", ie.fields)
}
