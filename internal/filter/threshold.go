package filter

// Luma weights in 14-bit fixed point (0.299, 0.587, 0.114).
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
)

func luma(r, g, b uint8) uint8 {
	return uint8((int(r)*lumaR + int(g)*lumaG + int(b)*lumaB + 1<<(lumaShift-1)) >> lumaShift)
}

func threshold(f *Frame) {
	ri, gi, bi := f.Order.Offsets()
	for y := 0; y < f.Height; y++ {
		row := f.Row(y)
		for x := 0; x+BytesPerPixel <= len(row); x += BytesPerPixel {
			px := row[x : x+BytesPerPixel]
			var out uint8
			if luma(px[ri], px[gi], px[bi]) >= ThresholdLevel {
				out = 255
			}
			px[0], px[1], px[2] = out, out, out
		}
	}
}
