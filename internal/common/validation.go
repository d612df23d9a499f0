package common

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError is a single problem found on one form field.
type FieldError struct {
	Field   string
	Message string
}

// Validator provides validation utilities
type Validator struct {
	errors []FieldError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// Field validates a field and collects errors. Only the first failing rule per call is kept.
func (v *Validator) Field(fieldName string, value string, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			v.Add(fieldName, msg)
			break
		}
	}
	return v
}

// Add records a problem for fieldName unless one is already recorded.
func (v *Validator) Add(fieldName, message string) {
	for _, e := range v.errors {
		if e.Field == fieldName {
			return
		}
	}
	v.errors = append(v.errors, FieldError{Field: fieldName, Message: message})
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors in the order they were found.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Err returns a *ValidationError, or nil when nothing failed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	fields := make(map[string]string, len(v.errors))
	for _, e := range v.errors {
		fields[e.Field] = e.Message
	}
	return &ValidationError{Message: v.errors[0].Message, Fields: fields}
}

// ValidationRule returns a non-empty message when value is invalid.
type ValidationRule func(value string) string

// Required - Common validation rules
func Required(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Este campo es obligatorio."
	}
	return ""
}

// MaxLength rejects values longer than max characters.
func MaxLength(max int) ValidationRule {
	return func(value string) string {
		if utf8.RuneCountInString(value) > max {
			return fmt.Sprintf("No debe exceder %d caracteres.", max)
		}
		return ""
	}
}
