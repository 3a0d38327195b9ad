package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zsiec/tint/internal/logger"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tint_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tint_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tint_http_requests_in_flight",
		Help: "Number of HTTP requests currently being processed",
	})
)

// requestIDMiddleware adds a unique request ID to each request
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(logger.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			r.Header.Set(logger.RequestIDHeader, requestID)
		}
		w.Header().Set(logger.RequestIDHeader, requestID)

		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware tracks request metrics. Paths are labelled by route
// template so unknown URLs do not create new series.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isProbe(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rw := logger.NewResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		status := strconv.Itoa(rw.StatusCode())
		path := routeTemplate(r)

		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration.Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()

		logger.FromContext(r.Context()).WithFields(logger.Fields{
			"status":      rw.StatusCode(),
			"duration_ms": float64(duration.Microseconds()) / 1000,
			"bytes":       rw.BytesWritten(),
		}).Info("Request completed")
	})
}

func isProbe(path string) bool {
	return strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/ready") || strings.HasPrefix(path, "/live")
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// corsMiddleware handles CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
