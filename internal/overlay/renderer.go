package overlay

import (
	"github.com/zsiec/tint/internal/filter"
	"github.com/zsiec/tint/internal/metrics"
	"github.com/zsiec/tint/internal/mode"
)

// Label box geometry, in frame pixels.
const (
	BoxX      = 5
	BoxY      = 5
	BoxWidth  = 250
	BoxHeight = 45
	BoxAlpha  = 0.5

	TextX    = 10
	TextY    = 40
	FontSize = 32
)

// Renderer paints a translucent box holding the label of the current mode.
type Renderer struct {
	modes mode.Reader
}

// NewRenderer creates a renderer that reads the mode from r on every draw.
func NewRenderer(r mode.Reader) *Renderer {
	return &Renderer{modes: r}
}

// Draw reads the mode once and paints its label on s. The returned mode is
// the one whose label was drawn.
func (r *Renderer) Draw(s Surface) (filter.Mode, error) {
	m := r.modes.Get()

	s.SetSourceRGBA(0, 0, 0, BoxAlpha)
	s.Rectangle(BoxX, BoxY, BoxWidth, BoxHeight)
	if err := s.Fill(); err != nil {
		return m, err
	}

	s.SetSourceRGBA(1, 1, 1, 1)
	s.SetFontSize(FontSize)
	s.MoveTo(TextX, TextY)
	s.ShowText(m.Label())

	metrics.IncrementOverlayDraws()
	return m, nil
}
