package dispatch

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsiec/tint/internal/filter"
	"github.com/zsiec/tint/internal/mode"
)

// countingReader counts how many times the mode is read.
type countingReader struct {
	mode  filter.Mode
	reads atomic.Int32
}

func (c *countingReader) Get() filter.Mode {
	c.reads.Add(1)
	return c.mode
}

func TestDispatcher_AppliesCurrentMode(t *testing.T) {
	reg := mode.NewRegister()
	reg.Set(filter.Contrast)
	d := New(reg)

	data := []byte{100, 100, 100, 200, 200, 200}
	applied, ok := d.Process(data, 2, 1, 6)

	require.True(t, ok)
	assert.Equal(t, filter.Contrast, applied)
	assert.Equal(t, []byte{150, 150, 150, 255, 255, 255}, data)
}

func TestDispatcher_ReadsModeOncePerFrame(t *testing.T) {
	r := &countingReader{mode: filter.Invert}
	d := New(r)

	data := make([]byte, 64*48*3)
	_, ok := d.Process(data, 64, 48, 64*3)

	require.True(t, ok)
	assert.Equal(t, int32(1), r.reads.Load())
	assert.Equal(t, byte(255), data[0])
}

const maxInt = int(^uint(0) >> 1)

func TestDispatcher_SkipsInvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		width  int
		height int
		stride int
	}{
		{name: "undersized buffer", size: 11, width: 2, height: 2, stride: 6},
		{name: "missing width", size: 12, width: 0, height: 2, stride: 6},
		{name: "missing height", size: 12, width: 2, height: 0, stride: 6},
		{name: "stride shorter than row", size: 12, width: 2, height: 2, stride: 4},
		{name: "negative geometry", size: 12, width: -2, height: 2, stride: 6},
		{name: "empty buffer", size: 0, width: 2, height: 2, stride: 6},
		{name: "stride times height wraps", size: 12, width: 1, height: maxInt/2 + 1, stride: 4},
		{name: "width times three wraps", size: 12, width: maxInt/3 + 1, height: 1, stride: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &countingReader{mode: filter.Invert}
			d := New(r)

			data := make([]byte, tt.size)
			for i := range data {
				data[i] = byte(i)
			}
			original := bytes.Clone(data)

			var (
				applied filter.Mode
				ok      bool
			)
			require.NotPanics(t, func() {
				applied, ok = d.Process(data, tt.width, tt.height, tt.stride)
			})

			assert.False(t, ok)
			assert.Equal(t, filter.None, applied)
			assert.Equal(t, original, data)
			assert.Equal(t, int32(0), r.reads.Load(), "mode must not be read for skipped frames")
		})
	}
}

func TestDispatcher_ZeroStrideMeansPacked(t *testing.T) {
	reg := mode.NewRegister()
	reg.Set(filter.Invert)
	d := New(reg)

	data := []byte{0, 0, 0, 10, 10, 10, 20, 20, 20, 30, 30, 30}
	_, ok := d.Process(data, 2, 2, 0)

	require.True(t, ok)
	assert.Equal(t, []byte{255, 255, 255, 245, 245, 245, 235, 235, 235, 225, 225, 225}, data)
}

func TestDispatcher_RespectsPaddedStride(t *testing.T) {
	reg := mode.NewRegister()
	reg.Set(filter.Brightness)
	d := New(reg)

	// 1x2 frame with 4-byte aligned rows: one padding byte per row.
	data := []byte{10, 20, 30, 99, 40, 50, 60, 99}
	_, ok := d.Process(data, 1, 2, 4)

	require.True(t, ok)
	assert.Equal(t, []byte{60, 70, 80, 99, 90, 100, 110, 99}, data)
}

func TestDispatcher_ChannelOrder(t *testing.T) {
	reg := mode.NewRegister()
	reg.Set(filter.HueShift)

	bgr := []byte{0, 0, 255}
	_, ok := New(reg).Process(bgr, 1, 1, 3)
	require.True(t, ok)
	assert.Equal(t, []byte{0, 170, 255}, bgr)

	rgb := []byte{0, 0, 255}
	_, ok = New(reg, WithChannelOrder(filter.OrderRGB)).Process(rgb, 1, 1, 3)
	require.True(t, ok)
	assert.Equal(t, []byte{170, 0, 255}, rgb)
}

func TestDispatcher_NoneLeavesFrameUntouched(t *testing.T) {
	d := New(mode.NewRegister())

	data := []byte{1, 2, 3, 4, 5, 6}
	applied, ok := d.Process(data, 2, 1, 6)

	require.True(t, ok)
	assert.Equal(t, filter.None, applied)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, data)
}

func TestDispatcher_ConcurrentModeChanges(t *testing.T) {
	reg := mode.NewRegister()
	d := New(reg)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		modes := filter.Modes()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				reg.Set(modes[i%len(modes)])
			}
		}
	}()

	for i := 0; i < 200; i++ {
		data := make([]byte, 16*16*3)
		applied, ok := d.Process(data, 16, 16, 48)
		require.True(t, ok)
		assert.True(t, applied.Valid())
	}
	close(stop)
	wg.Wait()
}

func TestDispatcher_ImplementsBufferTransformer(t *testing.T) {
	reg := mode.NewRegister()
	reg.Set(filter.Invert)

	var hook BufferTransformer = New(reg)
	data := []byte{0, 0, 0}
	hook.TransformBuffer(data, 1, 1, 3)
	assert.Equal(t, []byte{255, 255, 255}, data)
}
