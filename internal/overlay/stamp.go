package overlay

import (
	"sync"

	"github.com/zsiec/tint/internal/filter"
)

// Layer size covering the label box with a small margin for antialiasing.
const (
	LayerWidth  = BoxX + BoxWidth + 1
	LayerHeight = BoxY + BoxHeight + 2
)

// Stamper paints the mode label onto frames through an RGBA canvas.
type Stamper struct {
	mu       sync.Mutex
	renderer *Renderer
	canvas   *Canvas
}

// NewStamper creates a stamper drawing with r.
func NewStamper(r *Renderer) (*Stamper, error) {
	canvas, err := NewCanvas(LayerWidth, LayerHeight)
	if err != nil {
		return nil, err
	}
	return &Stamper{renderer: r, canvas: canvas}, nil
}

// Stamp draws the current label and composites it onto the top-left of f.
func (s *Stamper) Stamp(f *filter.Frame) (filter.Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.canvas.Reset()
	m, err := s.renderer.Draw(s.canvas)
	if err != nil {
		return m, err
	}
	Composite(f, s.canvas.Image(), 0, 0)
	return m, nil
}

// Close releases the canvas.
func (s *Stamper) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Close()
}
