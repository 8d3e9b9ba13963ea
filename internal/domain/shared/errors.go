package shared

import (
	"errors"
	"fmt"
)

// Error codes used across the domain
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeUpload       = "UPLOAD_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Err is the underlying cause, if any. It is never exposed to API clients.
	Err error `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
// This lets errors.Is(err, shared.ErrNotFound) match any not-found error.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an error for bad or missing input
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates an error for a referenced entity that does not exist
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewConflictError creates an error for a uniqueness violation
func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// NewUnauthorizedError creates an error for rejected credentials
func NewUnauthorizedError(message string) *DomainError {
	return NewDomainError(CodeUnauthorized, message)
}

// NewUploadError wraps a blob store failure
func NewUploadError(message string, err error) *DomainError {
	return &DomainError{Code: CodeUpload, Message: message, Err: err}
}

// NewInternalError wraps an unclassified failure
func NewInternalError(message string, err error) *DomainError {
	return &DomainError{Code: CodeInternal, Message: message, Err: err}
}

// Common domain errors
var (
	ErrNotFound     = NewNotFoundError("Resource not found")
	ErrConflict     = NewConflictError("Resource already exists")
	ErrInvalidInput = NewValidationError("Invalid input provided")
	ErrUpload       = NewUploadError("Failed to upload file", nil)
	ErrInternal     = NewInternalError("Internal error", nil)
)

// KindOf returns the domain error code carried by err, or CodeInternal
// when err is not a DomainError.
func KindOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a conflict domain error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation reports whether err is a validation domain error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
