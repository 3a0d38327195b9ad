// Package overlay draws the active mode label onto outgoing frames.
package overlay

import "fmt"

// Surface is the 2D drawing target the renderer paints on. Coordinates are
// in pixels with the origin at the top-left; colour components are in [0,1].
type Surface interface {
	SetSourceRGBA(r, g, b, a float64)
	Rectangle(x, y, w, h float64)
	Fill() error
	SetFontSize(size float64)
	MoveTo(x, y float64)
	ShowText(s string)
}

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpSetSourceRGBA OpKind = iota
	OpRectangle
	OpFill
	OpSetFontSize
	OpMoveTo
	OpShowText
)

func (k OpKind) String() string {
	switch k {
	case OpSetSourceRGBA:
		return "set_source_rgba"
	case OpRectangle:
		return "rectangle"
	case OpFill:
		return "fill"
	case OpSetFontSize:
		return "set_font_size"
	case OpMoveTo:
		return "move_to"
	case OpShowText:
		return "show_text"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one recorded drawing call. Args holds the numeric arguments in call
// order; Text is set only for OpShowText.
type Op struct {
	Kind OpKind
	Args []float64
	Text string
}

// Recorder is a Surface that records calls instead of rasterising them.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) add(kind OpKind, text string, args ...float64) {
	r.Ops = append(r.Ops, Op{Kind: kind, Args: args, Text: text})
}

func (r *Recorder) SetSourceRGBA(red, green, blue, alpha float64) {
	r.add(OpSetSourceRGBA, "", red, green, blue, alpha)
}

func (r *Recorder) Rectangle(x, y, w, h float64) {
	r.add(OpRectangle, "", x, y, w, h)
}

func (r *Recorder) Fill() error {
	r.add(OpFill, "")
	return nil
}

func (r *Recorder) SetFontSize(size float64) {
	r.add(OpSetFontSize, "", size)
}

func (r *Recorder) MoveTo(x, y float64) {
	r.add(OpMoveTo, "", x, y)
}

func (r *Recorder) ShowText(s string) {
	r.add(OpShowText, s)
}

// Text returns every string passed to ShowText, concatenated.
func (r *Recorder) Text() string {
	var s string
	for _, op := range r.Ops {
		if op.Kind == OpShowText {
			s += op.Text
		}
	}
	return s
}

// Reset discards recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
