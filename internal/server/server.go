package server

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"

	"github.com/zsiec/tint/internal/config"
	"github.com/zsiec/tint/internal/control"
	"github.com/zsiec/tint/internal/errors"
	"github.com/zsiec/tint/internal/health"
	"github.com/zsiec/tint/internal/logger"
)

// Server serves the control API over HTTP/1.1 and, optionally, HTTP/3.
type Server struct {
	config       *config.ServerConfig
	router       *mux.Router
	httpServer   *http.Server
	http3Server  *http3.Server
	logger       logger.Logger
	healthMgr    *health.Manager
	errorHandler *errors.ErrorHandler
	controller   *control.Controller

	routesOnce       sync.Once
	additionalRoutes []func(*mux.Router)
}

// New creates a server applying commands through ctrl.
func New(cfg *config.ServerConfig, log logger.Logger, ctrl *control.Controller, healthMgr *health.Manager) *Server {
	log = logger.WithComponent(log, "http")
	return &Server{
		config:       cfg,
		router:       mux.NewRouter(),
		logger:       log,
		healthMgr:    healthMgr,
		errorHandler: errors.NewErrorHandler(log),
		controller:   ctrl,
	}
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	s.routesOnce.Do(s.setupRoutes)
	return s.router
}

// Start listens on the configured port and blocks until ctx is done or a
// listener fails. The servers are shut down before Start returns.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.HTTPPort))
	if err != nil {
		return fmt.Errorf("failed to listen on HTTP port %d: %w", s.config.HTTPPort, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	handler := s.Handler()

	s.httpServer = &http.Server{
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 2)

	s.logger.WithField("addr", ln.Addr().String()).Info("Starting HTTP server")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if s.config.HTTP3Enabled {
		if err := s.startHTTP3(handler, errCh); err != nil {
			_ = s.httpServer.Close()
			return err
		}
	}

	select {
	case err := <-errCh:
		s.closeAll()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *Server) startHTTP3(handler http.Handler, errCh chan<- error) error {
	cert, err := tls.LoadX509KeyPair(s.config.TLSCertFile, s.config.TLSKeyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificates: %w", err)
	}

	s.http3Server = &http3.Server{
		Addr:    fmt.Sprintf(":%d", s.config.HTTP3Port),
		Handler: handler,
		TLSConfig: &tls.Config{
			MinVersion:   tls.VersionTLS13,
			NextProtos:   []string{"h3"},
			Certificates: []tls.Certificate{cert},
		},
		QUICConfig: &quic.Config{
			MaxIncomingStreams: s.config.MaxIncomingStreams,
			MaxIdleTimeout:     s.config.MaxIdleTimeout,
		},
	}

	s.logger.WithField("port", s.config.HTTP3Port).Info("Starting HTTP/3 server")
	go func() {
		if err := s.http3Server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http3 server: %w", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the HTTP/3 server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown http server: %w", err))
		}
	}
	// http3.Server.Close does not wait for in-flight requests.
	if s.http3Server != nil {
		if err := s.http3Server.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown http3 server: %w", err))
		}
	}

	s.logger.Info("HTTP server shutdown complete")
	return stderrors.Join(errs...)
}

func (s *Server) closeAll() {
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.http3Server != nil {
		_ = s.http3Server.Close()
	}
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(logger.RequestLoggerMiddleware(s.logger))
	s.router.Use(s.errorHandler.Middleware)
	s.router.Use(s.metricsMiddleware)
	s.router.Use(s.corsMiddleware)

	if s.healthMgr != nil {
		healthHandler := health.NewHandler(s.healthMgr)
		s.router.HandleFunc("/health", healthHandler.HandleHealth).Methods(http.MethodGet)
		s.router.HandleFunc("/ready", healthHandler.HandleReady).Methods(http.MethodGet)
		s.router.HandleFunc("/live", healthHandler.HandleLive).Methods(http.MethodGet)
	}

	s.router.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	// OPTIONS must match a route for the CORS middleware to answer preflights.
	api.HandleFunc("/modes", s.requireController(s.handleListModes)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/mode", s.requireController(s.handleGetMode)).Methods(http.MethodGet)
	api.HandleFunc("/mode", s.requireController(s.handleSetMode)).Methods(http.MethodPut, http.MethodPost, http.MethodOptions)

	for _, registerFunc := range s.additionalRoutes {
		registerFunc(s.router)
	}

	s.router.NotFoundHandler = http.HandlerFunc(s.errorHandler.HandleNotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.errorHandler.HandleMethodNotAllowed)
}

// RegisterRoutes adds route handlers. It must be called before Handler.
func (s *Server) RegisterRoutes(registerFunc func(*mux.Router)) {
	s.additionalRoutes = append(s.additionalRoutes, registerFunc)
}

// GetRouter returns the router for testing.
func (s *Server) GetRouter() *mux.Router {
	return s.router
}
