package filter

import "math"

// lut maps an input channel value to an output channel value.
type lut [256]uint8

var (
	contrastLUT   = buildLUT(func(v float64) float64 { return v * ContrastGain })
	gammaLUT      = buildLUT(func(v float64) float64 { return math.Pow(v/255, Gamma) * 255 })
	brightnessLUT = buildLUT(func(v float64) float64 { return v + BrightnessOffset })
	invertLUT     = buildLUT(func(v float64) float64 { return 255 - v })
)

func buildLUT(fn func(v float64) float64) lut {
	var t lut
	for i := range t {
		t[i] = saturate(fn(float64(i)))
	}
	return t
}

// saturate rounds half to even and clamps to [0,255].
func saturate(v float64) uint8 {
	v = math.RoundToEven(v)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// applyLUT maps every channel of every pixel through t.
func applyLUT(f *Frame, t *lut) {
	for y := 0; y < f.Height; y++ {
		row := f.Row(y)
		for i, v := range row {
			row[i] = t[v]
		}
	}
}
