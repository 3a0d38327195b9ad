// Package pipeline hosts the filter and overlay inside a GStreamer pipeline.
//
// The GStreamer binding is only compiled with the "gstreamer" build tag; the
// frame handling in this file and processor.go is independent of it.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/zsiec/tint/internal/filter"
)

// Geometry is the negotiated layout of the buffers crossing the filter element.
type Geometry struct {
	Width  int
	Height int
	Stride int
}

// PackedStride is the row pitch GStreamer uses for 24-bit packed formats:
// width*3 rounded up to a multiple of four.
func PackedStride(width int) int {
	return (width*filter.BytesPerPixel + 3) &^ 3
}

// NewGeometry returns the geometry for width x height. A stride of zero or
// less is replaced by PackedStride.
func NewGeometry(width, height, stride int) Geometry {
	if stride <= 0 && width > 0 {
		stride = PackedStride(width)
	}
	return Geometry{Width: width, Height: height, Stride: stride}
}

// CapsGeometry derives the buffer layout from negotiated caps fields and the
// mapped buffer size. A positive caps stride is used as is. Without one, a
// buffer of exactly width*3*height bytes is taken as unpadded and anything
// else falls back to PackedStride.
func CapsGeometry(width, height, stride, size int) Geometry {
	if stride > 0 {
		return NewGeometry(width, height, stride)
	}
	g := NewGeometry(width, height, 0)
	if g.Known() && width <= size/filter.BytesPerPixel/height && size == width*filter.BytesPerPixel*height {
		g.Stride = width * filter.BytesPerPixel
	}
	return g
}

// Known reports whether caps have been negotiated.
func (g Geometry) Known() bool {
	return g.Width > 0 && g.Height > 0
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d/%d", g.Width, g.Height, g.Stride)
}

// ParseChannelOrder maps the configured channel_order to a channel order.
func ParseChannelOrder(s string) (filter.ChannelOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "BGR":
		return filter.OrderBGR, nil
	case "RGB":
		return filter.OrderRGB, nil
	default:
		return filter.OrderBGR, fmt.Errorf("unsupported channel order %q", s)
	}
}
