package path

import (
	"math"

	"github.com/gogpu/canvas/geom"
)

// DefaultTolerance is the maximum distance in pixels between a curve and
// its flattened polyline.
const DefaultTolerance = 0.1

// maxDepth bounds curve subdivision.
const maxDepth = 16

// Polyline is one flattened contour.
// For a closed polyline the closing edge from the last point back to the
// first is implied; the first point is not repeated.
type Polyline struct {
	Points []geom.Vec2
	Closed bool
}

// Flatten converts the path into polylines, one per contour, by recursively
// subdividing curves until they are within tolerance of a straight line.
// A tolerance <= 0 uses DefaultTolerance.
func (p *Path) Flatten(tolerance float64) []Polyline {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	contours := p.Contours()
	out := make([]Polyline, 0, len(contours))
	for _, c := range contours {
		pl := Polyline{Points: []geom.Vec2{c[0].Points[0]}}
		current := c[0].Points[0]
		for _, s := range c[1:] {
			switch s.Verb {
			case LineTo:
				pl.Points = append(pl.Points, s.Points[0])
			case QuadTo:
				flattenQuad(current, s.Points[0], s.Points[1], tolerance, 0, &pl.Points)
			case CubicTo:
				flattenCubic(current, s.Points[0], s.Points[1], s.Points[2], tolerance, 0, &pl.Points)
			case Close:
				pl.Closed = true
			}
			if s.Verb != Close {
				current = s.End()
			}
		}
		if pl.Closed && len(pl.Points) > 1 && pl.Points[len(pl.Points)-1] == pl.Points[0] {
			pl.Points = pl.Points[:len(pl.Points)-1]
		}
		out = append(out, pl)
	}
	return out
}

func flattenQuad(p0, p1, p2 geom.Vec2, tol float64, depth int, pts *[]geom.Vec2) {
	if depth >= maxDepth || distanceToSegment(p1, p0, p2) < tol {
		*pts = append(*pts, p2)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	m := q0.Lerp(q1, 0.5)
	flattenQuad(p0, q0, m, tol, depth+1, pts)
	flattenQuad(m, q1, p2, tol, depth+1, pts)
}

func flattenCubic(p0, p1, p2, p3 geom.Vec2, tol float64, depth int, pts *[]geom.Vec2) {
	d := math.Max(distanceToSegment(p1, p0, p3), distanceToSegment(p2, p0, p3))
	if depth >= maxDepth || d < tol {
		*pts = append(*pts, p3)
		return
	}
	// de Casteljau split at t=0.5
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)
	flattenCubic(p0, q0, r0, s, tol, depth+1, pts)
	flattenCubic(s, r1, q2, p3, tol, depth+1, pts)
}

// distanceToSegment returns the distance from p to the segment a-b.
func distanceToSegment(p, a, b geom.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-20 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	switch {
	case t < 0:
		return p.Distance(a)
	case t > 1:
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(t)))
}
