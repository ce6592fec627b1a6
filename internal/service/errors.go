package service

import (
	"errors"
	"strings"

	"employee-directory/internal/validation"
)

var (
	// ErrInvalidCredentials covers both unknown identifiers and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("username or email already exists")
	// ErrEmployeeNotFound is returned when no employee has the requested id.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrEmployeeEmailExists is returned by Add when the email is already registered.
	ErrEmployeeEmailExists = errors.New("employee email already exists")
	// ErrEmailInUse is returned by Update when another employee holds the new email.
	ErrEmailInUse = errors.New("email already in use")
	// ErrPhotoUpload wraps every media store or stream failure.
	ErrPhotoUpload = errors.New("photo upload failed")
	// ErrSearchFilterRequired is returned when a search names no filter.
	ErrSearchFilterRequired = errors.New("designation or department is required")
	// ErrNotImage is returned when an uploaded photo is not an image.
	ErrNotImage = errors.New("uploaded file is not an image")
)

// ValidationFailedMessage headlines rule set failures.
const ValidationFailedMessage = "Validation failed"

// ValidationError reports input rule violations.
type ValidationError struct {
	Message string
	Errors  []validation.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	if len(parts) == 0 {
		return e.Message
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func newValidationError(errs []validation.FieldError) *ValidationError {
	return &ValidationError{Message: ValidationFailedMessage, Errors: errs}
}

// fieldError reports a single rule failure using the rule message as the headline.
func fieldError(fe validation.FieldError) *ValidationError {
	return &ValidationError{Message: fe.Message, Errors: []validation.FieldError{fe}}
}
