package overlay

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func defaultFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// Canvas is a Surface rasterised in software into an RGBA layer.
// It is not safe for concurrent use.
type Canvas struct {
	dc     *gg.Context
	source *text.FontSource
	faces  map[float64]text.Face
	size   float64
	x, y   float64
}

// NewCanvas creates a transparent canvas of the given size.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	src, err := defaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load overlay font: %w", err)
	}
	return &Canvas{
		dc:     gg.NewContext(width, height),
		source: src,
		faces:  make(map[float64]text.Face),
		size:   FontSize,
	}, nil
}

func (c *Canvas) SetSourceRGBA(r, g, b, a float64) {
	c.dc.SetRGBA(r, g, b, a)
}

func (c *Canvas) Rectangle(x, y, w, h float64) {
	c.dc.DrawRectangle(x, y, w, h)
}

func (c *Canvas) Fill() error {
	return c.dc.Fill()
}

func (c *Canvas) SetFontSize(size float64) {
	c.size = size
}

func (c *Canvas) MoveTo(x, y float64) {
	c.x, c.y = x, y
}

// ShowText draws s with its baseline starting at the current point.
func (c *Canvas) ShowText(s string) {
	face, ok := c.faces[c.size]
	if !ok {
		face = c.source.Face(c.size)
		c.faces[c.size] = face
	}
	c.dc.SetFont(face)
	c.dc.DrawString(s, c.x, c.y)
}

// Reset clears the canvas back to fully transparent.
func (c *Canvas) Reset() {
	c.dc.Clear()
}

// Image returns a premultiplied RGBA copy of the canvas.
func (c *Canvas) Image() *image.RGBA {
	img := c.dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

// Close releases the drawing context.
func (c *Canvas) Close() error {
	return c.dc.Close()
}
