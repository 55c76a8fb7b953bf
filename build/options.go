package build

import (
	"image/color"

	"github.com/gogpu/canvas/geom"
)

// AAMode selects how edges are antialiased.
type AAMode uint8

const (
	// AAAnalytic computes exact per-pixel coverage. It is the default.
	AAAnalytic AAMode = iota

	// AAOff renders hard edges.
	AAOff

	// AAMultisample rasterizes with multiple samples per pixel.
	AAMultisample
)

// String returns the mode name.
func (m AAMode) String() string {
	switch m {
	case AAAnalytic:
		return "analytic"
	case AAOff:
		return "off"
	case AAMultisample:
		return "multisample"
	default:
		return "unknown"
	}
}

// ParseAAMode parses the names returned by AAMode.String.
func ParseAAMode(s string) (AAMode, bool) {
	switch s {
	case "analytic", "":
		return AAAnalytic, true
	case "off", "none":
		return AAOff, true
	case "multisample", "msaa":
		return AAMultisample, true
	}
	return AAAnalytic, false
}

// tolerance is the flattening tolerance in pixels for the mode.
func (m AAMode) tolerance() float64 {
	switch m {
	case AAOff:
		return 0.5
	case AAMultisample:
		return 0.25
	default:
		return 0.1
	}
}

// Options controls one build.
//
// The zero value is usable: transparent background, no clip rectangle,
// analytic antialiasing and the mode's default tolerance.
type Options struct {
	// Background is the premultiplied color the frame is cleared to.
	Background color.RGBA

	// Clip restricts drawing to a rectangle in canvas space. Nil means the
	// whole canvas.
	Clip *geom.Rect

	Antialias AAMode

	// Tolerance overrides the flattening tolerance when > 0.
	Tolerance float64
}

// DefaultOptions returns options with an opaque white background.
func DefaultOptions() Options {
	return Options{Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
}

// EffectiveTolerance returns the flattening tolerance the build uses.
func (o Options) EffectiveTolerance() float64 {
	if o.Tolerance > 0 {
		return o.Tolerance
	}
	return o.Antialias.tolerance()
}
