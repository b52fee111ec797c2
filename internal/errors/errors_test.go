package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainError_WrappingKeepsSentinelIdentity(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	wrapped := WrapError(ErrInternal, cause)

	if !errors.Is(wrapped, ErrInternal) {
		t.Error("wrapped error should match its sentinel")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should expose its cause")
	}
	if errors.Is(wrapped, ErrUserNotFound) {
		t.Error("wrapped error must not match a different sentinel")
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{nil, http.StatusOK},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrMissingAvatar, http.StatusBadRequest},
		{ErrUploadFailed, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrInvalidRefreshToken, http.StatusUnauthorized},
		{ErrRefreshTokenReused, http.StatusUnauthorized},
		{ErrIncorrectPassword, http.StatusUnauthorized},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrChannelNotFound, http.StatusNotFound},
		{ErrUserExists, http.StatusConflict},
		{ErrServiceUnavailable, http.StatusServiceUnavailable},
		{ErrInternal, http.StatusInternalServerError},
		{fmt.Errorf("some plain error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ToHTTPStatus(tt.err); got != tt.expected {
			t.Errorf("ToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.expected)
		}
	}
}

func TestToHTTPStatus_WrappedError(t *testing.T) {
	wrapped := WrapError(ErrUploadFailed, fmt.Errorf("circuit breaker is open"))

	if got := ToHTTPStatus(wrapped); got != http.StatusBadRequest {
		t.Errorf("ToHTTPStatus(wrapped) = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestGetErrorMessage(t *testing.T) {
	if got := GetErrorMessage(nil); got != "" {
		t.Errorf("GetErrorMessage(nil) = %q, want empty", got)
	}

	wrapped := WrapError(ErrUserExists, fmt.Errorf("duplicate key value"))
	if got := GetErrorMessage(wrapped); got != ErrUserExists.Message {
		t.Errorf("GetErrorMessage(wrapped) = %q, want %q", got, ErrUserExists.Message)
	}

	plain := fmt.Errorf("boom")
	if got := GetErrorMessage(plain); got != "boom" {
		t.Errorf("GetErrorMessage(plain) = %q, want %q", got, "boom")
	}
}

func TestGetDomainError(t *testing.T) {
	if GetDomainError(fmt.Errorf("plain")) != nil {
		t.Error("plain errors have no domain error")
	}

	wrapped := fmt.Errorf("outer: %w", ErrInvalidToken)
	de := GetDomainError(wrapped)
	if de == nil || de.Code != ErrInvalidToken.Code {
		t.Errorf("expected %s domain error, got %v", ErrInvalidToken.Code, de)
	}
}
