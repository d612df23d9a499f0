package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrConstraint        = errors.New("constraint violation")
	ErrDatabase          = errors.New("database error")
	ErrValidation        = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ValidationError carries user-correctable, field-level problems with a submission.
// Fields maps the form field name to its message; Message is the first problem found.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UnsupportedFormatError is returned when an uploaded receipt has a disallowed extension.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported receipt format %q", e.Ext)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// UnauthenticatedError is returned when no principal id can be resolved for a write.
type UnauthenticatedError struct{}

func (UnauthenticatedError) Error() string { return "no authenticated principal" }

func (UnauthenticatedError) Is(target error) bool { return target == ErrUnauthenticated }

// ForbiddenError is returned when the principal lacks a permission.
type ForbiddenError struct {
	Module string
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("permission denied: %s:%s", e.Module, e.Action)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// NotFoundError is returned when the target record of an edit/delete does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConstraintViolation is a storage-layer rejection of a unique, foreign-key,
// not-null or check constraint.
type ConstraintViolation struct {
	Code       string
	Constraint string
	Detail     string
	Cause      error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation %s (%s): %s", e.Constraint, e.Code, e.Detail)
}

func (e *ConstraintViolation) Unwrap() error { return e.Cause }

func (e *ConstraintViolation) Is(target error) bool { return target == ErrConstraint }

// PersistenceError is any other storage failure.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

func (e *PersistenceError) Is(target error) bool { return target == ErrDatabase }
