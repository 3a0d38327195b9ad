// Package control turns textual command tokens from a control link into filter
// mode changes.
package control

import (
	"errors"
	"fmt"

	"github.com/zsiec/tint/internal/filter"
)

// ErrUnrecognizedToken is returned for any token outside the binding table.
var ErrUnrecognizedToken = errors.New("unrecognized command")

// Binding maps one command token to a filter mode.
type Binding struct {
	Token string      `json:"token"`
	Mode  filter.Mode `json:"-"`
}

// Matching is exact and case-sensitive.
var bindings = [...]Binding{
	{Token: "a", Mode: filter.Contrast},
	{Token: "c", Mode: filter.GammaCorrection},
	{Token: "b", Mode: filter.Brightness},
	{Token: "d", Mode: filter.Saturation},
	{Token: "e", Mode: filter.HueShift},
	{Token: "m", Mode: filter.Threshold},
	{Token: "r", Mode: filter.Invert},
	{Token: "n", Mode: filter.None},
}

// Parse maps a token to its mode.
func Parse(token string) (filter.Mode, error) {
	for _, b := range bindings {
		if b.Token == token {
			return b.Mode, nil
		}
	}
	return filter.None, fmt.Errorf("%w: %q", ErrUnrecognizedToken, token)
}

// Bindings returns the token table in a stable order.
func Bindings() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings[:])
	return out
}

// TokenFor returns the token that selects m.
func TokenFor(m filter.Mode) (string, bool) {
	for _, b := range bindings {
		if b.Mode == m {
			return b.Token, true
		}
	}
	return "", false
}
