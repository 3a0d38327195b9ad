// Package dispatch applies the active filter to each frame handed over by the
// media pipeline.
package dispatch

import (
	"time"

	"github.com/zsiec/tint/internal/filter"
	"github.com/zsiec/tint/internal/metrics"
	"github.com/zsiec/tint/internal/mode"
)

// BufferTransformer is the pipeline hook invoked once per arriving buffer.
// Implementations transform data in place and must not retain it.
type BufferTransformer interface {
	TransformBuffer(data []byte, width, height, stride int)
}

// Dispatcher reads the current mode once per frame and runs the matching
// filter over the frame in place.
type Dispatcher struct {
	modes mode.Reader
	order filter.ChannelOrder
	now   func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithChannelOrder sets the pixel layout of incoming buffers. The default is
// filter.OrderBGR.
func WithChannelOrder(order filter.ChannelOrder) Option {
	return func(d *Dispatcher) {
		d.order = order
	}
}

// New creates a dispatcher reading modes from r.
func New(r mode.Reader, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		modes: r,
		order: filter.OrderBGR,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TransformBuffer implements BufferTransformer.
func (d *Dispatcher) TransformBuffer(data []byte, width, height, stride int) {
	d.Process(data, width, height, stride)
}

// Process filters one frame in place and reports the mode that was applied.
// ok is false when the frame was passed through untouched because its
// geometry was missing or the buffer was too small for it; this is expected
// while caps are renegotiated and is neither an error nor logged.
//
// A stride of zero or less means the rows are packed (width * 3 bytes).
func (d *Dispatcher) Process(data []byte, width, height, stride int) (applied filter.Mode, ok bool) {
	if width <= 0 || height <= 0 {
		metrics.IncrementFrameSkipped(metrics.SkipMissingGeometry)
		return filter.None, false
	}
	if stride <= 0 {
		stride = width * filter.BytesPerPixel
	}

	frame := &filter.Frame{
		Data:   data,
		Width:  width,
		Height: height,
		Stride: stride,
		Order:  d.order,
	}
	if !frame.Valid() {
		metrics.IncrementFrameSkipped(metrics.SkipUndersized)
		return filter.None, false
	}

	// One snapshot governs the whole frame.
	m := d.modes.Get()

	start := d.now()
	filter.Apply(m, frame)
	metrics.RecordFrame(m, d.now().Sub(start))

	return m, true
}
