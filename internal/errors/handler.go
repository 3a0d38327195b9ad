package errors

import (
	"encoding/json"
	"net/http"

	"github.com/zsiec/tint/internal/logger"
)

// ErrorResponse represents the error response structure.
type ErrorResponse struct {
	Error   ErrorDetails `json:"error"`
	TraceID string       `json:"trace_id,omitempty"`
}

// ErrorDetails contains the error details.
type ErrorDetails struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorHandler writes AppErrors as JSON envelopes.
type ErrorHandler struct {
	logger logger.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(log logger.Logger) *ErrorHandler {
	return &ErrorHandler{logger: log}
}

// HandleError handles an error and writes the appropriate response. Errors
// that are not AppErrors are reported as internal errors without leaking
// their text to the client.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := r.Header.Get(logger.RequestIDHeader)

	appErr, ok := GetAppError(err)
	if !ok {
		appErr = WrapInternalError(err, "An unexpected error occurred")
	}

	entry := h.logger.WithFields(logger.Fields{
		"error_type": appErr.Type,
		"error_code": appErr.Code,
		"trace_id":   traceID,
		"method":     r.Method,
		"path":       r.URL.Path,
	})

	switch {
	case appErr.HTTPStatus >= http.StatusInternalServerError:
		entry.Error(appErr.Error())
	case appErr.HTTPStatus >= http.StatusBadRequest:
		entry.Warn(appErr.Error())
	default:
		entry.Info(appErr.Error())
	}

	h.writeJSON(w, appErr.HTTPStatus, ErrorResponse{
		Error: ErrorDetails{
			Type:    appErr.Type,
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		},
		TraceID: traceID,
	})
}

// HandleNotFound handles 404 errors.
func (h *ErrorHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.HandleError(w, r, NewNotFoundError("endpoint"))
}

// HandleMethodNotAllowed handles 405 errors.
func (h *ErrorHandler) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.HandleError(w, r, New(ErrorTypeValidation, "Method not allowed", http.StatusMethodNotAllowed))
}

// HandlePanic handles panics in HTTP handlers.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	h.logger.WithFields(logger.Fields{
		"panic":    recovered,
		"method":   r.Method,
		"path":     r.URL.Path,
		"trace_id": r.Header.Get(logger.RequestIDHeader),
	}).Error("Panic recovered in HTTP handler")

	h.HandleError(w, r, NewInternalError("An unexpected error occurred"))
}

func (h *ErrorHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode error response")
	}
}

// Middleware recovers panics from downstream handlers.
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				h.HandlePanic(w, r, recovered)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
