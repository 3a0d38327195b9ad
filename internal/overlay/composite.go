package overlay

import (
	"image"

	"github.com/zsiec/tint/internal/filter"
)

// Composite blends the premultiplied layer over f with its top-left corner at
// (x0, y0). Pixels of the layer falling outside the frame are dropped, and
// row padding of f is never written.
func Composite(f *filter.Frame, layer *image.RGBA, x0, y0 int) {
	if !f.Valid() || layer == nil {
		return
	}
	ri, gi, bi := f.Order.Offsets()
	b := layer.Bounds()

	for ly := 0; ly < b.Dy(); ly++ {
		y := y0 + ly
		if y < 0 || y >= f.Height {
			continue
		}
		row := f.Row(y)
		src := layer.Pix[ly*layer.Stride:]

		for lx := 0; lx < b.Dx(); lx++ {
			x := x0 + lx
			if x < 0 || x >= f.Width {
				continue
			}
			s := src[lx*4 : lx*4+4]
			a := uint32(s[3])
			if a == 0 {
				continue
			}
			px := row[x*filter.BytesPerPixel : x*filter.BytesPerPixel+filter.BytesPerPixel]
			inv := 255 - a
			px[ri] = blend(s[0], px[ri], inv)
			px[gi] = blend(s[1], px[gi], inv)
			px[bi] = blend(s[2], px[bi], inv)
		}
	}
}

// blend computes src + dst*inv/255 with rounding.
func blend(src, dst uint8, inv uint32) uint8 {
	v := uint32(src) + (uint32(dst)*inv+127)/255
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
