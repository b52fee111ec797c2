package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on the domain code so wrapped instances still satisfy
// errors.Is against their sentinel.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// User errors
	ErrUserNotFound    = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrChannelNotFound = NewDomainError("CHANNEL_NOT_FOUND", "channel does not exist")
	ErrUserExists      = NewDomainError("USER_EXISTS", "user with email or username already exists")

	// Authentication errors
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "invalid user credentials")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "unauthorized request")
	ErrInvalidToken        = NewDomainError("INVALID_TOKEN", "invalid or expired access token")
	ErrInvalidRefreshToken = NewDomainError("INVALID_REFRESH_TOKEN", "invalid refresh token")
	ErrRefreshTokenReused  = NewDomainError("REFRESH_TOKEN_REUSED", "refresh token is expired or already used")
	ErrIncorrectPassword   = NewDomainError("INCORRECT_PASSWORD", "old password is incorrect")

	// Validation errors
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "all required fields must be provided")
	ErrMissingAvatar = NewDomainError("MISSING_AVATAR", "avatar file is required")
	ErrMissingFile   = NewDomainError("MISSING_FILE", "file is required")

	// External service errors
	ErrUploadFailed = NewDomainError("UPLOAD_FAILED", "failed to upload file to media host")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "MISSING_AVATAR", "MISSING_FILE", "UPLOAD_FAILED":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"INVALID_REFRESH_TOKEN", "REFRESH_TOKEN_REUSED", "INCORRECT_PASSWORD":
		return http.StatusUnauthorized

	// 404 Not Found
	case "USER_NOT_FOUND", "CHANNEL_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "USER_EXISTS":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
