package control

import (
	"context"
	"errors"
	"sync"

	"github.com/zsiec/tint/internal/metrics"
)

// ErrClosed is returned by Source.Next after Close.
var ErrClosed = errors.New("control source closed")

// Source delivers command tokens one at a time. Next blocks until a token
// arrives, the context is done, or the source is closed.
type Source interface {
	Next(ctx context.Context) (string, error)
	Close() error
	// Transport names the source in logs and metrics.
	Transport() string
}

// Serve feeds tokens from src into c until ctx is done or src fails. Each
// token is fully applied before the next one is read. src is closed on
// return.
func Serve(ctx context.Context, src Source, c *Controller) error {
	transport := src.Transport()
	metrics.SetListenerUp(transport, true)
	defer metrics.SetListenerUp(transport, false)

	var once sync.Once
	closeSrc := func() { once.Do(func() { _ = src.Close() }) }
	defer closeSrc()

	stop := context.AfterFunc(ctx, closeSrc)
	defer stop()

	for {
		token, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		// Unrecognized tokens are logged by the controller.
		_, _ = c.Apply(ctx, transport, token)
	}
}
