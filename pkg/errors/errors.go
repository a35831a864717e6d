package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenNotYetValid     = fmt.Errorf("token is not active yet")
	ErrTokenIsNotAccess     = fmt.Errorf("token is not an access token")

	// Authorization
	ErrEmptyAuthHeader   = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader = fmt.Errorf("invalid authorization header format")
	ErrUnauthorized      = fmt.Errorf("unauthorized")
	ErrForbidden         = fmt.Errorf("access denied")

	// Request context
	ErrUserIDNotFoundInContext = fmt.Errorf("user id not found in request context")
	ErrUserRoleNotFound        = fmt.Errorf("user role not found in request context")

	// Common
	ErrNotFound    = fmt.Errorf("record not found")
	ErrBadRequest  = fmt.Errorf("bad request")
	ErrPersistence = fmt.Errorf("internal server error")
)

// ValidationError is a missing or malformed required field. Nothing is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ReferentialError is raised when a batch references rows outside its aggregate.
type ReferentialError struct {
	Entity string
	IDs    []uint64
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s does not belong to this work order: %v", e.Entity, e.IDs)
}

func NewReferentialError(entity string, ids []uint64) error {
	return &ReferentialError{Entity: entity, IDs: ids}
}

// NotFound wraps ErrNotFound with the entity that did not resolve.
func NotFound(entity string, id uint64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// AccessDenied wraps ErrForbidden with a reason for server-side logs.
func AccessDenied(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsReferential(err error) bool {
	var r *ReferentialError
	return errors.As(err, &r)
}

// HttpError carries an explicit status code and the message shown to the caller.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}
