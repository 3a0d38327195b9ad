package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zsiec/tint/internal/config"
	"github.com/zsiec/tint/internal/logger"
)

// TCPSource reads one token per accepted connection: a single read of at
// most ReadBuffer-1 bytes, after which the connection is closed without a
// reply. Input longer than that is truncated by the read.
type TCPSource struct {
	ln          net.Listener
	logger      logger.Logger
	readSize    int
	readTimeout time.Duration
	retry       *rate.Limiter
	closed      atomic.Bool
}

// Listen binds the control port described by cfg. Failing to bind is the only
// error that disables the command link.
func Listen(cfg *config.ControlConfig, log logger.Logger) (*TCPSource, error) {
	ln, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
	}
	return NewTCPSource(ln, cfg, log), nil
}

// NewTCPSource serves tokens from an existing listener.
func NewTCPSource(ln net.Listener, cfg *config.ControlConfig, log logger.Logger) *TCPSource {
	readSize := cfg.ReadBuffer - 1
	if readSize < 1 {
		readSize = 1
	}
	retryRate := rate.Limit(cfg.AcceptRetryRate)
	if retryRate <= 0 {
		retryRate = 10
	}
	burst := cfg.AcceptRetryBurst
	if burst < 1 {
		burst = 1
	}

	return &TCPSource{
		ln:          ln,
		logger:      logger.WithComponent(log, "control_tcp"),
		readSize:    readSize,
		readTimeout: cfg.ReadTimeout,
		retry:       rate.NewLimiter(retryRate, burst),
	}
}

// Addr returns the bound address.
func (s *TCPSource) Addr() net.Addr {
	return s.ln.Addr()
}

// Listening reports whether the listener is still open.
func (s *TCPSource) Listening() bool {
	return !s.closed.Load()
}

func (s *TCPSource) Transport() string {
	return TransportTCP
}

// Next accepts connections until one yields a token. Accept failures are
// logged and retried at the configured pace.
func (s *TCPSource) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		conn, err := s.ln.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return "", ErrClosed
			}
			s.logger.WithError(err).Warn("Failed to accept control connection")
			if err := s.retry.Wait(ctx); err != nil {
				return "", err
			}
			continue
		}

		token, err := s.read(conn)
		if err != nil {
			continue
		}
		return token, nil
	}
}

func (s *TCPSource) read(conn net.Conn) (string, error) {
	defer conn.Close()

	log := logger.WithConnection(s.logger, uuid.NewString(), conn.RemoteAddr().String())

	if s.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			log.WithError(err).Debug("Failed to set read deadline")
		}
	}

	buf := make([]byte, s.readSize)
	n, err := conn.Read(buf)
	if n > 0 {
		return string(buf[:n]), nil
	}
	// A peer that closes without sending has sent the empty token.
	if err == nil || errors.Is(err, io.EOF) {
		return "", nil
	}
	log.WithError(err).Debug("Control connection read failed")
	return "", err
}

// Close stops the listener and unblocks Next.
func (s *TCPSource) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.ln.Close()
}
