package filter

// BytesPerPixel is fixed: every frame is 3-channel 8-bit packed colour.
const BytesPerPixel = 3

// ChannelOrder describes how the three colour bytes of a pixel are laid out.
// Point operations ignore it; luma and HSV conversions depend on it.
type ChannelOrder int

const (
	// OrderBGR is blue, green, red. This is the default layout.
	OrderBGR ChannelOrder = iota
	// OrderRGB is red, green, blue.
	OrderRGB
)

// String implements fmt.Stringer.
func (o ChannelOrder) String() string {
	if o == OrderRGB {
		return "RGB"
	}
	return "BGR"
}

// Offsets returns the byte offsets of red, green and blue within a pixel.
func (o ChannelOrder) Offsets() (r, g, b int) {
	if o == OrderRGB {
		return 0, 1, 2
	}
	return 2, 1, 0
}

// Frame is a borrowed view over one decoded video frame.
//
// Rows start every Stride bytes; only the first Width*BytesPerPixel bytes of a
// row hold pixels; trailing padding is never touched.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Stride int
	Order  ChannelOrder
}

// RowBytes is the number of pixel bytes in one row.
func (f *Frame) RowBytes() int {
	return f.Width * BytesPerPixel
}

const maxInt = int(^uint(0) >> 1)

// Valid reports whether the declared geometry is usable and Data holds at
// least Stride*Height bytes. Geometry whose byte size does not fit in an int
// is rejected.
func (f *Frame) Valid() bool {
	if f == nil || f.Width <= 0 || f.Height <= 0 || f.Stride <= 0 {
		return false
	}
	if f.Width > maxInt/BytesPerPixel || f.Stride < f.RowBytes() {
		return false
	}
	return f.Height <= len(f.Data)/f.Stride
}

// Row returns the pixel bytes of row y, excluding padding.
func (f *Frame) Row(y int) []byte {
	off := y * f.Stride
	return f.Data[off : off+f.RowBytes()]
}
