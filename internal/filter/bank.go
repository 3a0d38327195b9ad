// Package filter implements the fixed catalogue of in-place pixel
// transformations applied to every video frame.
//
// Each transformation takes no parameters beyond the frame; its constants are
// fixed. All arithmetic stays in the 8-bit unsigned domain and saturates where
// the operation can leave [0,255]. Hue is the exception: it wraps modulo 180.
package filter

import "fmt"

const (
	// ContrastGain scales every channel.
	ContrastGain = 1.5
	// Gamma is the exponent of the gamma correction curve.
	Gamma = 2.2
	// BrightnessOffset is added to every channel.
	BrightnessOffset = 50
	// SaturationGain scales the HSV saturation channel.
	SaturationGain = 1.5
	// HueOffset is added to the HSV hue channel.
	HueOffset = 20
	// HueRange is the size of the 8-bit hue domain [0,180).
	HueRange = 180
	// ThresholdLevel is the luma at or above which a pixel becomes white.
	ThresholdLevel = 128
)

// Func transforms a frame in place.
type Func func(f *Frame)

var bank = [modeCount]Func{
	None:            func(*Frame) {},
	Contrast:        func(f *Frame) { applyLUT(f, &contrastLUT) },
	GammaCorrection: func(f *Frame) { applyLUT(f, &gammaLUT) },
	Brightness:      func(f *Frame) { applyLUT(f, &brightnessLUT) },
	Saturation:      boostSaturation,
	HueShift:        shiftHue,
	Threshold:       threshold,
	Invert:          func(f *Frame) { applyLUT(f, &invertLUT) },
}

// Lookup returns the transformation for m. It panics if m is not a declared
// mode: the caller has broken its contract.
func Lookup(m Mode) Func {
	if !m.Valid() {
		panic(fmt.Sprintf("filter: no transformation for %v", m))
	}
	return bank[m]
}

// Apply transforms f in place with the algorithm selected by m. The caller
// must pass a frame for which Valid reports true.
func Apply(m Mode, f *Frame) {
	Lookup(m)(f)
}
