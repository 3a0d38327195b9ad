package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("New creates error correctly", func(t *testing.T) {
		err := New(ErrorTypeValidation, "Invalid input", http.StatusBadRequest)

		assert.Equal(t, ErrorTypeValidation, err.Type)
		assert.Equal(t, "Invalid input", err.Message)
		assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
		assert.Equal(t, "VALIDATION_ERROR: Invalid input", err.Error())
	})

	t.Run("Wrap keeps the cause", func(t *testing.T) {
		cause := errors.New("redis down")
		err := Wrap(cause, ErrorTypeServiceDown, "announcer unavailable", http.StatusServiceUnavailable)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "redis down")
	})

	t.Run("WithDetails and WithCode", func(t *testing.T) {
		details := map[string]interface{}{"token": "z"}
		err := NewValidationError("bad").WithDetails(details).WithCode("ERR_001")

		assert.Equal(t, details, err.Details)
		assert.Equal(t, "ERR_001", err.Code)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("mode"), ErrorTypeNotFound, http.StatusNotFound},
		{"internal", NewInternalError("oops"), ErrorTypeInternal, http.StatusInternalServerError},
		{"wrap internal", WrapInternalError(errors.New("x"), "oops"), ErrorTypeInternal, http.StatusInternalServerError},
		{"service down", NewServiceDownError("redis"), ErrorTypeServiceDown, http.StatusServiceUnavailable},
		{"unrecognized token", NewUnrecognizedTokenError("z", nil), ErrorTypeValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
		})
	}

	assert.Equal(t, "mode not found", NewNotFoundError("mode").Message)
	assert.Equal(t, "redis service is currently unavailable", NewServiceDownError("redis").Message)
}

func TestNewUnrecognizedTokenError(t *testing.T) {
	cause := errors.New("unrecognized command")
	err := NewUnrecognizedTokenError("zz", cause)

	assert.Equal(t, CodeUnrecognizedToken, err.Code)
	assert.Contains(t, err.Message, `"zz"`)
	assert.True(t, errors.Is(err, cause))
}

func TestGetAppError(t *testing.T) {
	appErr := NewValidationError("bad")

	got, ok := GetAppError(appErr)
	require.True(t, ok)
	assert.Same(t, appErr, got)

	wrapped := fmt.Errorf("handler: %w", appErr)
	got, ok = GetAppError(wrapped)
	require.True(t, ok)
	assert.Same(t, appErr, got)
	assert.True(t, IsAppError(wrapped))

	_, ok = GetAppError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsAppError(nil))
}
