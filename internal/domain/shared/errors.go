// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyValue   = errors.New("value cannot be empty")

	// Persistence errors
	ErrPersistence = errors.New("persistence failure")

	// External service errors
	ErrExternalService = errors.New("external service error")
	ErrTimeout         = errors.New("operation timeout")
	ErrRateLimited     = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "gradebook", "export"
	Op      string // Operation that failed, e.g., "AddCourse"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Gradebook domain errors
var (
	ErrCourseNotFound       = NewDomainError("gradebook", "FindCourse", ErrNotFound, "course not found")
	ErrCourseAlreadyExists  = NewDomainError("gradebook", "AddCourse", ErrAlreadyExists, "course code already registered")
	ErrStudentNotFound      = NewDomainError("gradebook", "FindStudent", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("gradebook", "AddStudent", ErrAlreadyExists, "student number already registered")
	ErrInvalidCourseCode    = NewDomainError("gradebook", "Validate", ErrInvalidID, "invalid course code")
	ErrInvalidStudentID     = NewDomainError("gradebook", "Validate", ErrInvalidID, "invalid student number")
	ErrInvalidCredit        = NewDomainError("gradebook", "Validate", ErrInvalidInput, "credit must be a positive integer")
)

// Storage errors
var (
	ErrStoreWriteFailed = NewDomainError("storage", "Save", ErrPersistence, "failed to write gradebook document")
	ErrStoreCorrupted   = NewDomainError("storage", "Load", ErrInvalidEntity, "gradebook document is not valid JSON")
)

// External service errors
var (
	ErrTelegramAPIFailed = NewDomainError("telegram", "Send", ErrExternalService, "Telegram API request failed")
	ErrExportFailed      = NewDomainError("export", "Build", ErrExternalService, "failed to build gradebook workbook")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue)
}

// IsPersistence checks if the error came from the persistence layer.
// A mutating operation must never report success when one of these is
// returned: the in-memory state may be ahead of the file on disk.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
