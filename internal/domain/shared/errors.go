// Package shared contains common domain types, errors and value objects
// that are used across all domain packages.
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

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// History errors
	ErrHistoryBoundary = errors.New("history boundary reached")

	// Storage errors
	ErrPersistence = errors.New("persistence failure")
	ErrCorruptData = errors.New("corrupt data")
	ErrNoData      = errors.New("no stored data")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "moduleclass", "attendance"
	Op      string // Operation that failed, e.g., "Add", "Set"
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

// Student domain errors
var (
	ErrStudentNotFound    = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrDuplicateStudent   = NewDomainError("student", "Add", ErrAlreadyExists, "this student already exists in the roster")
	ErrInvalidStudentID   = NewDomainError("student", "Validate", ErrInvalidID, "invalid student ID")
	ErrInvalidName        = NewDomainError("student", "Validate", ErrEmptyValue, "name must not be blank")
	ErrInvalidPhone       = NewDomainError("student", "Validate", ErrInvalidFormat, "phone must contain at least 3 digits and nothing else")
	ErrInvalidEmail       = NewDomainError("student", "Validate", ErrInvalidFormat, "email must be of the form local@domain")
	ErrInvalidTag         = NewDomainError("student", "Validate", ErrInvalidFormat, "tags must be alphanumeric")
	ErrStudentNotEnrolled = NewDomainError("student", "CheckEnrolment", ErrNotFound, "student is not enrolled in this class")
)

// Module class domain errors
var (
	ErrModuleClassNotFound  = NewDomainError("moduleclass", "Find", ErrNotFound, "module class not found")
	ErrDuplicateModuleClass = NewDomainError("moduleclass", "Add", ErrAlreadyExists, "a module class with this name already exists")
	ErrInvalidClassName     = NewDomainError("moduleclass", "Validate", ErrEmptyValue, "module class name must not be blank")
	ErrUnknownStudentRef    = NewDomainError("moduleclass", "Validate", ErrValidation, "module class refers to a student that is not in the roster")
)

// Lesson domain errors
var (
	ErrLessonNotFound     = NewDomainError("lesson", "Find", ErrNotFound, "lesson not found")
	ErrDuplicateLesson    = NewDomainError("lesson", "Add", ErrAlreadyExists, "this lesson already exists in the module class")
	ErrInvalidVenue       = NewDomainError("lesson", "Validate", ErrEmptyValue, "venue must not be blank")
	ErrInvalidTimeRange   = NewDomainError("lesson", "Validate", ErrValueOutOfRange, "start time must be before end time")
	ErrInvalidClock       = NewDomainError("lesson", "Validate", ErrInvalidFormat, "time must be in HH:MM format")
	ErrInvalidDay         = NewDomainError("lesson", "Validate", ErrInvalidFormat, "day must be a day of the week")
	ErrInvalidOccurrences = NewDomainError("lesson", "Validate", ErrValueOutOfRange, "number of occurrences must be between 1 and 52")
)

// Attendance domain errors
var (
	ErrInvalidWeek         = NewDomainError("attendance", "Validate", ErrValueOutOfRange, "week is outside the lesson's occurrences")
	ErrInvalidAttendance   = NewDomainError("attendance", "Validate", ErrValueOutOfRange, "attendance score must be between 0 and 100")
	ErrDuplicateAttendance = NewDomainError("attendance", "Add", ErrAlreadyExists, "attendance already recorded for this student in this week")
	ErrAttendanceNotFound  = NewDomainError("attendance", "Find", ErrNotFound, "no attendance recorded for this student in this week")
)

// History errors
var (
	ErrNothingToUndo = NewDomainError("history", "Undo", ErrHistoryBoundary, "nothing to undo")
	ErrNothingToRedo = NewDomainError("history", "Redo", ErrHistoryBoundary, "nothing to redo")
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
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsHistoryBoundary checks if the error comes from undo/redo past either end of history.
func IsHistoryBoundary(err error) bool {
	return errors.Is(err, ErrHistoryBoundary)
}

// IsPersistence checks if the error is a storage failure.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
