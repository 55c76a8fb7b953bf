// Package stroke expands stroked polylines into filled triangles.
//
// The output is a triangle list in which every triangle has positive
// orientation. Segment bodies, joins and caps overlap freely, so the stroke
// outline is the nonzero coverage of the list and never its even-odd parity.
package stroke

import (
	"math"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/path"
)

// LineCap is the shape drawn at the open ends of a stroked contour.
type LineCap int

const (
	// LineCapButt ends the stroke flat at the endpoint.
	LineCapButt LineCap = iota
	// LineCapRound ends the stroke with a half disc.
	LineCapRound
	// LineCapSquare extends the stroke by half its width.
	LineCapSquare
)

// LineJoin is the shape drawn where two segments of a contour meet.
type LineJoin int

const (
	// LineJoinMiter extends the outer edges to a point, falling back to a
	// bevel past the miter limit.
	LineJoinMiter LineJoin = iota
	// LineJoinRound fills the corner with a circular arc.
	LineJoinRound
	// LineJoinBevel cuts the corner with a straight edge.
	LineJoinBevel
)

// Style describes the pen.
type Style struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

// DefaultStyle returns a 1 unit pen with butt caps and miter joins.
func DefaultStyle() Style {
	return Style{
		Width:      1,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4,
	}
}

const (
	defaultTolerance = 0.25

	// minSegmentLength is the shortest segment that is expanded.
	minSegmentLength = 1e-6

	// maxArcSegments bounds the triangles of a single round join or cap.
	maxArcSegments = 1024
)

// Expander turns polylines into stroke triangles.
// An Expander is not safe for concurrent use.
type Expander struct {
	style      Style
	tolerance  float64
	joinThresh float64
	out        []geom.Vec2
}

// NewExpander returns an expander for the given pen.
func NewExpander(style Style) *Expander {
	e := &Expander{style: style}
	e.SetTolerance(defaultTolerance)
	return e
}

// SetTolerance sets the maximum distance between a round join or cap and
// its polygonal approximation. Non-positive values are ignored.
func (e *Expander) SetTolerance(tolerance float64) {
	if !(tolerance > 0) {
		return
	}
	e.tolerance = tolerance
	e.joinThresh = 2 * tolerance / e.style.Width
}

// Expand appends the stroke triangles of every polyline to dst.
func (e *Expander) Expand(dst []geom.Vec2, polys []path.Polyline) []geom.Vec2 {
	if !(e.style.Width > 0) {
		return dst
	}
	e.out = dst
	for _, pl := range polys {
		e.polyline(pl.Points, pl.Closed)
	}
	dst, e.out = e.out, nil
	return dst
}

func (e *Expander) polyline(points []geom.Vec2, closed bool) {
	pts := dedupe(points)
	if closed && len(pts) > 1 && pts[0].Distance(pts[len(pts)-1]) < minSegmentLength {
		pts = pts[:len(pts)-1]
	}
	switch len(pts) {
	case 0:
		return
	case 1:
		// A zero-length segment only shows its caps. A lone point does not.
		if len(points) < 2 {
			return
		}
		e.cap(pts[0], geom.V(1, 0))
		e.cap(pts[0], geom.V(-1, 0))
		return
	}

	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	for i := range n {
		e.segment(pts[i], pts[(i+1)%len(pts)])
	}

	if closed {
		for i := range pts {
			prev := pts[(i+len(pts)-1)%len(pts)]
			next := pts[(i+1)%len(pts)]
			e.join(pts[i], pts[i].Sub(prev).Normalize(), next.Sub(pts[i]).Normalize())
		}
		return
	}
	for i := 1; i < len(pts)-1; i++ {
		e.join(pts[i], pts[i].Sub(pts[i-1]).Normalize(), pts[i+1].Sub(pts[i]).Normalize())
	}
	last := len(pts) - 1
	e.cap(pts[0], pts[0].Sub(pts[1]).Normalize())
	e.cap(pts[last], pts[last].Sub(pts[last-1]).Normalize())
}

// segment adds the body of a-b.
func (e *Expander) segment(a, b geom.Vec2) {
	off := b.Sub(a).Normalize().Perp().Mul(e.style.Width / 2)
	e.quad(a.Add(off), b.Add(off), b.Sub(off), a.Sub(off))
}

// join fills the outer corner at p between unit directions d0 and d1.
func (e *Expander) join(p, d0, d1 geom.Vec2) {
	cross := d0.Cross(d1)
	dot := d0.Dot(d1)
	hw := e.style.Width / 2

	// The outer side is the one the contour turns away from.
	side := hw
	if cross > 0 {
		side = -hw
	}
	o0 := p.Add(d0.Perp().Mul(side))
	o1 := p.Add(d1.Perp().Mul(side))
	e.triangle(p, o0, o1)

	// Nearly straight: the bevel already closes the gap.
	if dot > 0 && math.Abs(cross) < e.joinThresh {
		return
	}

	switch e.style.Join {
	case LineJoinMiter:
		limit := e.style.MiterLimit
		if 2 < (1+dot)*limit*limit {
			// The tip lies on the outer edge of the first segment, hw*tan(θ/2)
			// past its end.
			tip := o0.Add(d0.Mul(hw * math.Abs(cross) / (1 + dot)))
			e.triangle(o0, tip, o1)
		}
	case LineJoinRound:
		e.arc(p, o0.Sub(p), math.Atan2(cross, dot))
	}
}

// cap closes the open end p of a contour leaving in unit direction d.
func (e *Expander) cap(p, d geom.Vec2) {
	hw := e.style.Width / 2
	n := d.Perp().Mul(hw)
	switch e.style.Cap {
	case LineCapSquare:
		ext := d.Mul(hw)
		e.quad(p.Add(n), p.Add(n).Add(ext), p.Sub(n).Add(ext), p.Sub(n))
	case LineCapRound:
		e.arc(p, n, -math.Pi)
	}
}

// arc adds a fan around c starting at offset v and sweeping by angle.
func (e *Expander) arc(c, v geom.Vec2, angle float64) {
	r := v.Length()
	step := math.Pi / 2
	if e.tolerance < r {
		step = math.Min(step, 2*math.Acos(1-e.tolerance/r))
	}
	segs := int(math.Ceil(math.Abs(angle) / step))
	segs = min(max(segs, 1), maxArcSegments)

	prev := v
	for i := 1; i <= segs; i++ {
		sin, cos := math.Sincos(angle * float64(i) / float64(segs))
		next := geom.V(v.X*cos-v.Y*sin, v.X*sin+v.Y*cos)
		e.triangle(c, c.Add(prev), c.Add(next))
		prev = next
	}
}

func (e *Expander) quad(a, b, c, d geom.Vec2) {
	e.triangle(a, b, c)
	e.triangle(a, c, d)
}

// triangle adds a, b, c with positive orientation, skipping degenerate
// triangles.
func (e *Expander) triangle(a, b, c geom.Vec2) {
	area := b.Sub(a).Cross(c.Sub(a))
	switch {
	case area > 0:
		e.out = append(e.out, a, b, c)
	case area < 0:
		e.out = append(e.out, a, c, b)
	}
}

// dedupe drops consecutive points closer than minSegmentLength.
func dedupe(pts []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Distance(p) < minSegmentLength {
			continue
		}
		out = append(out, p)
	}
	return out
}
