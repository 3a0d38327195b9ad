package filter

import "fmt"

// Mode identifies one of the fixed pixel transformations.
type Mode int

const (
	None Mode = iota
	Contrast
	GammaCorrection
	Brightness
	Saturation
	HueShift
	Threshold
	Invert

	modeCount
)

var modeLabels = [modeCount]string{
	None:            "None",
	Contrast:        "Contrast",
	GammaCorrection: "Gamma Correction",
	Brightness:      "Brightness",
	Saturation:      "Saturation",
	HueShift:        "Hue Shift",
	Threshold:       "Threshold",
	Invert:          "Invert",
}

var modeNames = [modeCount]string{
	None:            "none",
	Contrast:        "contrast",
	GammaCorrection: "gamma_correction",
	Brightness:      "brightness",
	Saturation:      "saturation",
	HueShift:        "hue_shift",
	Threshold:       "threshold",
	Invert:          "invert",
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	modes := make([]Mode, 0, modeCount)
	for m := None; m < modeCount; m++ {
		modes = append(modes, m)
	}
	return modes
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m >= None && m < modeCount
}

// Label returns the human readable name shown in the overlay.
func (m Mode) Label() string {
	if !m.Valid() {
		return "Unknown"
	}
	return modeLabels[m]
}

// Name returns a lowercase identifier suitable for metric labels and JSON.
func (m Mode) Name() string {
	if !m.Valid() {
		return "unknown"
	}
	return modeNames[m]
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeLabels[m]
}

// ParseName is the inverse of Name.
func ParseName(name string) (Mode, bool) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), true
		}
	}
	return None, false
}
