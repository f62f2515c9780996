package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error kinds returned to clients in the response envelope.
const (
	KindRateLimited          = "RATE_LIMITED"
	KindAuthenticationFailed = "AUTHENTICATION_FAILED"
	KindRegistrationFailed   = "REGISTRATION_FAILED"
	KindTokenInvalid         = "TOKEN_INVALID"
	KindRouteLookupFailed    = "ROUTE_LOOKUP_FAILED"
	KindMenuLookupFailed     = "MENU_LOOKUP_FAILED"
	KindPermissionLookup     = "PERMISSION_LOOKUP_FAILED"
	KindUserInfoFailed       = "USER_INFO_FAILED"
	KindNotFound             = "NOT_FOUND"
	KindValidationFailed     = "VALIDATION_FAILED"
	KindSystemError          = "SYSTEM_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

// NewRateLimited signals too many attempts within the window.
func NewRateLimited(message string) error {
	return NewDomainError(KindRateLimited, message, http.StatusTooManyRequests)
}

// NewAuthenticationFailed signals bad credentials or a disabled account.
func NewAuthenticationFailed(message string) error {
	return NewDomainError(KindAuthenticationFailed, message, http.StatusUnauthorized)
}

// NewRegistrationFailed signals a duplicate or invalid registration.
func NewRegistrationFailed(message string) error {
	return NewDomainError(KindRegistrationFailed, message, http.StatusBadRequest)
}

// NewTokenInvalid signals a malformed, expired or wrong-type token.
func NewTokenInvalid(message string) error {
	return NewDomainError(KindTokenInvalid, message, http.StatusUnauthorized)
}

// NewRouteLookupFailed signals a route resolution failure after authentication.
func NewRouteLookupFailed(err error) error {
	return &DomainError{Code: KindRouteLookupFailed, Message: "failed to resolve routes", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// NewMenuLookupFailed signals a menu resolution failure after authentication.
func NewMenuLookupFailed(err error) error {
	return &DomainError{Code: KindMenuLookupFailed, Message: "failed to resolve menus", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// NewPermissionLookupFailed signals a permission resolution failure.
func NewPermissionLookupFailed(err error) error {
	return &DomainError{Code: KindPermissionLookup, Message: "failed to resolve permissions", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// NewUserInfoFailed signals a user lookup failure after authentication.
func NewUserInfoFailed(err error) error {
	return &DomainError{Code: KindUserInfoFailed, Message: "failed to load user info", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// NewNotFound reports a missing resource.
func NewNotFound(resource string) error {
	return NewDomainError(KindNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewValidationFailed reports rejected input.
func NewValidationFailed(message string) error {
	return NewDomainError(KindValidationFailed, message, http.StatusBadRequest)
}

// NewSystemError wraps an unexpected failure. The original error is kept
// for server-side logging; clients only ever see the generic message.
func NewSystemError(err error) error {
	return &DomainError{
		Code:       KindSystemError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainError{
			Code:       KindNotFound,
			Message:    "resource not found",
			HTTPStatus: http.StatusNotFound,
			Err:        err,
		}
	}
	return &DomainError{
		Code:       KindSystemError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to the domain error type.
func MapError(err error) error {
	return ToDomainError(err)
}
