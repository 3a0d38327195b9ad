//go:build !gstreamer

package pipeline

import (
	"context"
	"errors"

	"github.com/zsiec/tint/internal/config"
	"github.com/zsiec/tint/internal/logger"
)

// Supported reports whether this binary can host a GStreamer pipeline.
const Supported = false

// ErrUnsupported is returned when the binary was built without the
// gstreamer tag.
var ErrUnsupported = errors.New("pipeline: built without gstreamer support")

// Host is unavailable in this build.
type Host struct{}

func NewHost(*config.PipelineConfig, *Processor, logger.Logger) (*Host, error) {
	return nil, ErrUnsupported
}

func (*Host) Run(context.Context) error {
	return ErrUnsupported
}
