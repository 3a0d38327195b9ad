//go:build gstreamer

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"

	"github.com/zsiec/tint/internal/config"
	"github.com/zsiec/tint/internal/logger"
)

// Supported reports whether this binary can host a GStreamer pipeline.
const Supported = true

const busPollInterval = 50 * time.Millisecond

// Host runs a launch-string pipeline and filters every buffer leaving the
// configured element.
type Host struct {
	cfg       *config.PipelineConfig
	processor *Processor
	logger    logger.Logger

	mu     sync.Mutex
	last   Geometry
	format string
}

// NewHost prepares a host. GStreamer is initialised on first use.
func NewHost(cfg *config.PipelineConfig, p *Processor, log logger.Logger) (*Host, error) {
	return &Host{
		cfg:       cfg,
		processor: p,
		logger:    logger.WithComponent(log, "pipeline").WithField("element", cfg.FilterElement),
	}, nil
}

// Run builds the pipeline, plays it and blocks until ctx is done, the stream
// ends or the bus reports an error.
func (h *Host) Run(ctx context.Context) error {
	gst.Init(nil)

	pipeline, err := gst.NewPipelineFromString(h.cfg.Launch)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer func() {
		if err := pipeline.SetState(gst.StateNull); err != nil {
			h.logger.WithError(err).Warn("Failed to stop pipeline")
		}
	}()

	element, err := pipeline.GetElementByName(h.cfg.FilterElement)
	if err != nil {
		return fmt.Errorf("failed to find element %q: %w", h.cfg.FilterElement, err)
	}
	pad := element.GetStaticPad("src")
	if pad == nil {
		return fmt.Errorf("element %q has no src pad", h.cfg.FilterElement)
	}
	pad.AddProbe(gst.PadProbeTypeBuffer, h.probe)

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("failed to set pipeline to playing: %w", err)
	}
	h.logger.Info("Pipeline playing")

	bus := pipeline.GetPipelineBus()
	for {
		select {
		case <-ctx.Done():
			h.logger.WithField("frames", h.processor.Frames()).Info("Pipeline stopping")
			return nil
		default:
		}

		msg := bus.TimedPop(busPollInterval)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			h.logger.WithField("frames", h.processor.Frames()).Info("End of stream")
			return nil

		case gst.MessageError:
			gerr := msg.ParseError()
			h.logger.WithFields(logger.Fields{
				"error": gerr.Error(),
				"debug": gerr.DebugString(),
			}).Error("Pipeline error")
			return fmt.Errorf("pipeline error: %s", gerr.Error())

		case gst.MessageStateChanged:
			if msg.Source() == pipeline.GetName() {
				old, current := msg.ParseStateChanged()
				h.logger.WithFields(logger.Fields{
					"from": old.String(),
					"to":   current.String(),
				}).Debug("Pipeline state changed")
			}
		}
	}
}

func (h *Host) probe(pad *gst.Pad, info *gst.PadProbeInfo) gst.PadProbeReturn {
	buffer := info.GetBuffer()
	if buffer == nil {
		return gst.PadProbeOK
	}

	mapInfo := buffer.Map(gst.MapReadWrite)
	if mapInfo == nil {
		return gst.PadProbeOK
	}
	defer buffer.Unmap()

	data := mapInfo.AsUint8Slice()
	h.processor.Process(data, h.geometry(pad, len(data)))
	return gst.PadProbeOK
}

// geometry reads width, height and the optional stride from the pad's current
// caps.
func (h *Host) geometry(pad *gst.Pad, size int) Geometry {
	caps := pad.GetCurrentCaps()
	if caps == nil || caps.GetSize() == 0 {
		return Geometry{}
	}
	structure := caps.GetStructureAt(0)

	width := intField(structure, "width")
	height := intField(structure, "height")
	format := ""
	if val, err := structure.GetValue("format"); err == nil {
		format, _ = val.(string)
	}

	g := CapsGeometry(width, height, intField(structure, "stride"), size)

	h.mu.Lock()
	changed := g != h.last || format != h.format
	h.last, h.format = g, format
	h.mu.Unlock()
	if changed {
		h.processor.CapsChanged(g, format)
	}
	return g
}

func intField(s *gst.Structure, name string) int {
	val, err := s.GetValue(name)
	if err != nil {
		return 0
	}
	n, _ := val.(int)
	return n
}
