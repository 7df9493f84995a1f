package shared

import (
	"errors"
	"fmt"
)

// Error codes for the payroll ledger core
const (
	CodeNotFound              = "NOT_FOUND"
	CodeInvariantViolation    = "INVARIANT_VIOLATION"
	CodeApprovalStateConflict = "APPROVAL_STATE_CONFLICT"
	CodeValidation            = "VALIDATION_ERROR"
	CodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	CodeInvalidState          = "INVALID_STATE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped sentinels compare equal
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError reports a missing referenced record
func NewNotFoundError(kind string, ref any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", kind, ref))
}

// NewInvariantError reports a broken ledger or wallet invariant
func NewInvariantError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvariantViolation, fmt.Sprintf(format, args...))
}

// NewValidationError reports missing or malformed input
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewApprovalConflictError reports a transition not valid from the current state
func NewApprovalConflictError(from, to string) *DomainError {
	return NewDomainError(CodeApprovalStateConflict, fmt.Sprintf("cannot move approval from %s to %s", from, to))
}

// Common domain errors
var (
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists         = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict   = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized          = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden             = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState          = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInvariantViolation    = NewDomainError(CodeInvariantViolation, "Ledger invariant violated")
	ErrApprovalStateConflict = NewDomainError(CodeApprovalStateConflict, "Approval transition not allowed")
	ErrValidation            = NewDomainError(CodeValidation, "Validation failed")
	ErrRecordLocked          = NewDomainError("RECORD_LOCKED", "Record is being processed by another request")
)

// IsCode reports whether err is a DomainError carrying code
func IsCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
