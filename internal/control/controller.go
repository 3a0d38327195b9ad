package control

import (
	"context"
	"time"

	"github.com/zsiec/tint/internal/filter"
	"github.com/zsiec/tint/internal/logger"
	"github.com/zsiec/tint/internal/metrics"
	"github.com/zsiec/tint/internal/mode"
)

// Transport labels used in logs and metrics.
const (
	TransportTCP   = "tcp"
	TransportRedis = "redis"
	TransportHTTP  = "http"
)

const (
	announceTimeout = 2 * time.Second
	maxLoggedToken  = 64
)

// Register is the read-write view of the mode register.
type Register interface {
	mode.Reader
	mode.Writer
}

// Announcer publishes committed mode changes to an external observer.
type Announcer interface {
	Announce(ctx context.Context, m filter.Mode) error
}

// Controller applies command tokens to the mode register. It is shared by
// every transport and is safe for concurrent use.
type Controller struct {
	register  Register
	logger    logger.Logger
	announcer Announcer
}

// Option configures a Controller.
type Option func(*Controller)

// WithAnnouncer publishes every committed change through a.
func WithAnnouncer(a Announcer) Option {
	return func(c *Controller) {
		c.announcer = a
	}
}

// NewController creates a controller writing to reg.
func NewController(reg Register, log logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		register: reg,
		logger:   logger.WithComponent(log, "control"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply maps token to a mode and commits it. An unrecognized token is
// logged and leaves the register untouched; the returned error wraps
// ErrUnrecognizedToken.
//
// The register is updated before Apply returns, so a token received after
// this one always wins.
func (c *Controller) Apply(ctx context.Context, transport, token string) (filter.Mode, error) {
	m, err := Parse(token)
	if err != nil {
		c.logger.WithFields(logger.Fields{
			"transport": transport,
			"token":     truncate(token),
		}).Warn("Unknown command received")
		metrics.RecordCommand(transport, metrics.ResultUnrecognized)
		return c.register.Get(), err
	}

	c.register.Set(m)
	metrics.RecordCommand(transport, metrics.ResultApplied)
	metrics.RecordModeChange(m)

	c.logger.WithFields(logger.Fields{
		"transport": transport,
		"mode":      m.Name(),
	}).Info("Filter mode changed")

	c.announce(ctx, m)
	return m, nil
}

// Current returns the committed mode.
func (c *Controller) Current() filter.Mode {
	return c.register.Get()
}

// Announce publishes the current mode without changing it. Used once at
// startup so observers see the initial state.
func (c *Controller) Announce(ctx context.Context) {
	c.announce(ctx, c.register.Get())
}

func (c *Controller) announce(ctx context.Context, m filter.Mode) {
	if c.announcer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), announceTimeout)
	defer cancel()

	if err := c.announcer.Announce(ctx, m); err != nil {
		c.logger.WithError(err).WithField("mode", m.Name()).Warn("Failed to announce mode change")
	}
}

func truncate(token string) string {
	if len(token) <= maxLoggedToken {
		return token
	}
	return token[:maxLoggedToken] + "..."
}
