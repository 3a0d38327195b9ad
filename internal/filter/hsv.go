package filter

import "math"

// rgbToHSV converts 8-bit RGB to 8-bit HSV with hue in [0,180) and
// saturation and value in [0,255].
func rgbToHSV(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)
	maxc := max(ri, gi, bi)
	minc := min(ri, gi, bi)
	diff := maxc - minc

	v = uint8(maxc)
	if maxc == 0 {
		return 0, 0, v
	}
	s = uint8((diff*255 + maxc/2) / maxc)
	if diff == 0 {
		return 0, s, v
	}

	var num int
	switch maxc {
	case ri:
		num = gi - bi
	case gi:
		num = bi - ri + 2*diff
	default:
		num = ri - gi + 4*diff
	}
	hue := int(math.Floor(float64(num)*30/float64(diff) + 0.5))
	if hue < 0 {
		hue += HueRange
	}
	return uint8(hue), s, v
}

// hsvToRGB is the inverse of rgbToHSV.
func hsvToRGB(h, s, v uint8) (r, g, b uint8) {
	if s == 0 {
		return v, v, v
	}
	hh := float64(h) / 30
	sf := float64(s) / 255
	vf := float64(v) / 255

	sector := math.Floor(hh)
	frac := hh - sector
	p := vf * (1 - sf)
	q := vf * (1 - sf*frac)
	t := vf * (1 - sf*(1-frac))

	var rf, gf, bf float64
	switch int(sector) % 6 {
	case 0:
		rf, gf, bf = vf, t, p
	case 1:
		rf, gf, bf = q, vf, p
	case 2:
		rf, gf, bf = p, vf, t
	case 3:
		rf, gf, bf = p, q, vf
	case 4:
		rf, gf, bf = t, p, vf
	default:
		rf, gf, bf = vf, p, q
	}
	return saturate(rf * 255), saturate(gf * 255), saturate(bf * 255)
}

// mapHSV runs fn over every pixel in HSV space: one forward and one backward
// conversion per pixel.
func mapHSV(f *Frame, fn func(h, s, v uint8) (uint8, uint8, uint8)) {
	ri, gi, bi := f.Order.Offsets()
	for y := 0; y < f.Height; y++ {
		row := f.Row(y)
		for x := 0; x+BytesPerPixel <= len(row); x += BytesPerPixel {
			px := row[x : x+BytesPerPixel]
			h, s, v := rgbToHSV(px[ri], px[gi], px[bi])
			h, s, v = fn(h, s, v)
			px[ri], px[gi], px[bi] = hsvToRGB(h, s, v)
		}
	}
}

var saturationLUT = buildLUT(func(v float64) float64 { return v * SaturationGain })

func boostSaturation(f *Frame) {
	mapHSV(f, func(h, s, v uint8) (uint8, uint8, uint8) {
		return h, saturationLUT[s], v
	})
}

func shiftHue(f *Frame) {
	mapHSV(f, func(h, s, v uint8) (uint8, uint8, uint8) {
		return uint8((int(h) + HueOffset) % HueRange), s, v
	})
}
