package pipeline

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/zsiec/tint/internal/dispatch"
	"github.com/zsiec/tint/internal/filter"
	"github.com/zsiec/tint/internal/logger"
)

// Stamper draws the mode label over a filtered frame.
type Stamper interface {
	Stamp(f *filter.Frame) (filter.Mode, error)
}

// Processor is the per-buffer work done inside the pad probe: filter first,
// then the optional overlay. It never fails the buffer.
type Processor struct {
	dispatcher *dispatch.Dispatcher
	stamper    Stamper
	order      filter.ChannelOrder
	logger     *logger.SampledLogger
	frames     atomic.Uint64
}

// NewProcessor creates a processor. stamper may be nil to disable the overlay.
func NewProcessor(d *dispatch.Dispatcher, stamper Stamper, order filter.ChannelOrder, log logger.Logger) *Processor {
	return &Processor{
		dispatcher: d,
		stamper:    stamper,
		order:      order,
		logger:     logger.NewFrameLogger(logger.WithComponent(log, "pipeline")),
	}
}

// Process transforms data in place. It reports false when the buffer was
// passed through because its geometry is unknown or does not fit.
func (p *Processor) Process(data []byte, g Geometry) bool {
	// Skips are counted by the dispatcher and are not logged.
	m, ok := p.dispatcher.Process(data, g.Width, g.Height, g.Stride)
	if !ok {
		return false
	}
	p.frames.Add(1)

	if p.stamper == nil {
		return true
	}

	stride := g.Stride
	if stride <= 0 {
		stride = g.Width * filter.BytesPerPixel
	}
	frame := &filter.Frame{Data: data, Width: g.Width, Height: g.Height, Stride: stride, Order: p.order}
	if _, err := p.stamper.Stamp(frame); err != nil {
		p.logger.WarnWithCategory(logger.CategoryOverlay, "Overlay draw failed", logger.Fields{
			"mode":  m.Name(),
			"error": err.Error(),
		})
	}
	return true
}

// CapsChanged logs a new negotiated geometry.
func (p *Processor) CapsChanged(g Geometry, format string) {
	p.logger.Sampled(logrus.InfoLevel, logger.CategoryCapsChange, "Video caps negotiated", logger.Fields{
		"geometry": g.String(),
		"format":   format,
	})
}

// Frames returns the number of buffers filtered so far.
func (p *Processor) Frames() uint64 {
	return p.frames.Load()
}
