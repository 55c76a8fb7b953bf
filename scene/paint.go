package scene

import (
	"image/color"
	"math"
)

// BlendMode selects how an entry is composited onto what is below it.
type BlendMode uint8

const (
	// BlendSourceOver composites the source over the destination (default).
	BlendSourceOver BlendMode = iota

	// BlendCopy replaces the destination inside the shape.
	BlendCopy
)

// String returns the blend mode name.
func (b BlendMode) String() string {
	switch b {
	case BlendSourceOver:
		return "SourceOver"
	case BlendCopy:
		return "Copy"
	default:
		return "Unknown"
	}
}

// LineCap is the shape at the open ends of a stroked contour.
type LineCap uint8

const (
	// LineCapButt ends the stroke flat at the endpoint (default).
	LineCapButt LineCap = iota

	// LineCapRound ends the stroke with a half disc.
	LineCapRound

	// LineCapSquare extends the stroke by half the line width.
	LineCapSquare
)

// String returns the cap name.
func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "Butt"
	case LineCapRound:
		return "Round"
	case LineCapSquare:
		return "Square"
	default:
		return "Unknown"
	}
}

// LineJoin is the shape where two stroked segments meet.
type LineJoin uint8

const (
	// LineJoinMiter extends the outer edges to a point (default).
	LineJoinMiter LineJoin = iota

	// LineJoinRound rounds the corner.
	LineJoinRound

	// LineJoinBevel cuts the corner.
	LineJoinBevel
)

// String returns the join name.
func (j LineJoin) String() string {
	switch j {
	case LineJoinMiter:
		return "Miter"
	case LineJoinRound:
		return "Round"
	case LineJoinBevel:
		return "Bevel"
	default:
		return "Unknown"
	}
}

// Paint is the style snapshot copied into every Entry.
// Colors are premultiplied (color.RGBA semantics).
type Paint struct {
	FillColor   color.RGBA
	StrokeColor color.RGBA
	LineWidth   float64
	Cap         LineCap
	Join        LineJoin

	// MiterLimit bounds the ratio of miter length to line width.
	// Joins past the limit are beveled.
	MiterLimit float64
	Blend      BlendMode
}

// DefaultPaint returns opaque black fill and stroke with a line width of 1,
// butt caps and miter joins limited to 4.
func DefaultPaint() Paint {
	black := color.RGBA{A: 0xff}
	return Paint{
		FillColor:   black,
		StrokeColor: black,
		LineWidth:   1,
		Cap:         LineCapButt,
		Join:        LineJoinMiter,
		MiterLimit:  4,
		Blend:       BlendSourceOver,
	}
}

// StrokeOutset returns how far a stroke drawn with p can reach beyond its
// path, in user space units.
func (p Paint) StrokeOutset() float64 {
	k := 1.0
	if p.Cap == LineCapSquare {
		k = math.Sqrt2
	}
	if p.Join == LineJoinMiter && p.MiterLimit > k && !math.IsInf(p.MiterLimit, 1) {
		k = p.MiterLimit
	}
	return p.LineWidth / 2 * k
}

// Premul converts any color to a premultiplied color.RGBA.
func Premul(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// ScaleAlpha multiplies every channel of a premultiplied color by alpha,
// which is clamped to [0, 1].
func ScaleAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha >= 1 {
		return c
	}
	if alpha <= 0 || math.IsNaN(alpha) {
		return color.RGBA{}
	}
	scale := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) * alpha))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(c.A)}
}

// ColorFloats returns the premultiplied color as four floats in [0, 1].
func ColorFloats(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
