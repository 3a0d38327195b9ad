package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogger(t *testing.T) {
	_, l := bufferLogger(logrus.InfoLevel)

	ctx := WithLogger(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))

	assert.NotNil(t, FromContext(context.Background()))
}

func TestContextRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestRequestLoggerMiddleware(t *testing.T) {
	buf, l := bufferLogger(logrus.DebugLevel)

	var gotID string
	var gotLogger Logger
	handler := RequestLoggerMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetRequestID(r.Context())
		gotLogger = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("generates request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/mode", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.NotEmpty(t, gotID)
		assert.Equal(t, gotID, req.Header.Get(RequestIDHeader))
		require.NotNil(t, gotLogger)
		assert.Contains(t, buf.String(), "/api/v1/mode")
	})

	t.Run("keeps incoming request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "fixed-id")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "fixed-id", gotID)
	})
}

func TestRemoteIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{name: "forwarded", headers: map[string]string{"X-Forwarded-For": "10.0.0.1"}, remote: "1.1.1.1:1", expected: "10.0.0.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "10.0.0.2"}, remote: "1.1.1.1:1", expected: "10.0.0.2"},
		{name: "remote addr", remote: "1.1.1.1:1", expected: "1.1.1.1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, remoteIP(req))
		})
	}
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)
	assert.Equal(t, http.StatusOK, rw.StatusCode())

	rw.WriteHeader(http.StatusBadRequest)
	rw.WriteHeader(http.StatusInternalServerError)
	n, err := rw.Write([]byte("bad"))
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusBadRequest, rw.StatusCode())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 3, rw.BytesWritten())
}

func TestResponseWriter_ImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)
	_, _ = rw.Write([]byte("ok"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
