package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsiec/tint/internal/logger"
)

func TestHandleError(t *testing.T) {
	handler := NewErrorHandler(logger.NewNullLogger())

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedType   ErrorType
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "validation",
			err:            NewValidationError("invalid input"),
			expectedStatus: http.StatusBadRequest,
			expectedType:   ErrorTypeValidation,
			expectedMsg:    "invalid input",
		},
		{
			name:           "plain error is hidden",
			err:            errors.New("secret detail"),
			expectedStatus: http.StatusInternalServerError,
			expectedType:   ErrorTypeInternal,
			expectedMsg:    "An unexpected error occurred",
		},
		{
			name:           "unrecognized token",
			err:            NewUnrecognizedTokenError("q", nil),
			expectedStatus: http.StatusBadRequest,
			expectedType:   ErrorTypeValidation,
			expectedCode:   CodeUnrecognizedToken,
			expectedMsg:    `unrecognized command token "q"`,
		},
		{
			name:           "service down",
			err:            NewServiceDownError("redis"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedType:   ErrorTypeServiceDown,
			expectedMsg:    "redis service is currently unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/mode", nil)
			req.Header.Set(logger.RequestIDHeader, "trace-1")
			w := httptest.NewRecorder()

			handler.HandleError(w, req, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedType, resp.Error.Type)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, tt.expectedMsg, resp.Error.Message)
			assert.Equal(t, "trace-1", resp.TraceID)
		})
	}
}

func TestHandleNotFoundAndMethodNotAllowed(t *testing.T) {
	handler := NewErrorHandler(logger.NewNullLogger())

	w := httptest.NewRecorder()
	handler.HandleNotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.HandleMethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/v1/mode", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMiddlewareRecoversPanic(t *testing.T) {
	handler := NewErrorHandler(logger.NewNullLogger())
	panicking := handler.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		panicking.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorTypeInternal, resp.Error.Type)
}

func TestMiddlewarePassesThrough(t *testing.T) {
	handler := NewErrorHandler(logger.NewNullLogger())
	ok := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	ok.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
