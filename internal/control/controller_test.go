package control

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsiec/tint/internal/filter"
	"github.com/zsiec/tint/internal/logger"
	"github.com/zsiec/tint/internal/mode"
)

type recordingAnnouncer struct {
	mu    sync.Mutex
	modes []filter.Mode
	err   error
}

func (r *recordingAnnouncer) Announce(_ context.Context, m filter.Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, m)
	return r.err
}

func (r *recordingAnnouncer) announced() []filter.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]filter.Mode(nil), r.modes...)
}

func TestController_Apply(t *testing.T) {
	reg := mode.NewRegister()
	c := NewController(reg, logger.NewNullLogger())

	m, err := c.Apply(context.Background(), TransportTCP, "a")
	require.NoError(t, err)
	assert.Equal(t, filter.Contrast, m)
	assert.Equal(t, filter.Contrast, reg.Get())
	assert.Equal(t, filter.Contrast, c.Current())
}

func TestController_UnrecognizedKeepsMode(t *testing.T) {
	reg := mode.NewRegister()
	reg.Set(filter.Invert)
	ann := &recordingAnnouncer{}
	c := NewController(reg, logger.NewNullLogger(), WithAnnouncer(ann))

	m, err := c.Apply(context.Background(), TransportTCP, "z")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecognizedToken))
	assert.Equal(t, filter.Invert, m)
	assert.Equal(t, filter.Invert, reg.Get())
	assert.Empty(t, ann.announced())
}

func TestController_Announces(t *testing.T) {
	ann := &recordingAnnouncer{}
	c := NewController(mode.NewRegister(), logger.NewNullLogger(), WithAnnouncer(ann))

	c.Announce(context.Background())
	_, err := c.Apply(context.Background(), TransportHTTP, "m")
	require.NoError(t, err)

	assert.Equal(t, []filter.Mode{filter.None, filter.Threshold}, ann.announced())
}

func TestController_AnnounceFailureDoesNotRevert(t *testing.T) {
	reg := mode.NewRegister()
	ann := &recordingAnnouncer{err: errors.New("redis down")}
	c := NewController(reg, logger.NewNullLogger(), WithAnnouncer(ann))

	m, err := c.Apply(context.Background(), TransportRedis, "e")
	require.NoError(t, err)
	assert.Equal(t, filter.HueShift, m)
	assert.Equal(t, filter.HueShift, reg.Get())
}

func TestController_AnnounceSurvivesCancelledContext(t *testing.T) {
	ann := &recordingAnnouncer{}
	c := NewController(mode.NewRegister(), logger.NewNullLogger(), WithAnnouncer(ann))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Apply(ctx, TransportHTTP, "b")
	require.NoError(t, err)
	assert.Equal(t, []filter.Mode{filter.Brightness}, ann.announced())
}

func TestController_ConcurrentApply(t *testing.T) {
	reg := mode.NewRegister()
	c := NewController(reg, logger.NewNullLogger())

	tokens := []string{"a", "c", "b", "d", "e", "m", "r", "n", "z"}
	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = c.Apply(context.Background(), TransportTCP, tokens[i%len(tokens)])
		}(i)
	}
	wg.Wait()

	assert.True(t, reg.Get().Valid())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc"))
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	got := truncate(string(long))
	assert.Len(t, got, maxLoggedToken+3)
}
