package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a DomainError so handlers can map it to a transport
// status without string matching.
type ErrorCode string

const (
	ErrNotFound           ErrorCode = "not_found"
	ErrConflict           ErrorCode = "conflict"
	ErrStaleVersion       ErrorCode = "stale_version"
	ErrDuplicateEmail     ErrorCode = "duplicate_email"
	ErrInvalidCredentials ErrorCode = "invalid_credentials"
	ErrAccountPending     ErrorCode = "account_pending"
	ErrAccountRejected    ErrorCode = "account_rejected"
	ErrAssetUnavailable   ErrorCode = "asset_unavailable"
	ErrValidation         ErrorCode = "validation"
	ErrUnauthorized       ErrorCode = "unauthorized"
	ErrInternal           ErrorCode = "internal"
)

// DomainError is the tagged result type used by all services in place of the
// legacy string-or-object convention.
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDomainError builds a DomainError with a formatted message.
func NewDomainError(code ErrorCode, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from err, or ErrInternal when err is not a
// DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrInternal
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
