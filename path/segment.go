package path

import "github.com/gogpu/canvas/geom"

// Verb identifies the kind of a path segment.
type Verb uint8

// Path verbs.
const (
	MoveTo Verb = iota
	LineTo
	QuadTo
	CubicTo
	Close
)

// String returns the verb name.
func (v Verb) String() string {
	switch v {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case QuadTo:
		return "QuadTo"
	case CubicTo:
		return "CubicTo"
	case Close:
		return "Close"
	default:
		return "Unknown"
	}
}

// pointCount returns how many points a segment with this verb carries.
func (v Verb) pointCount() int {
	switch v {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubicTo:
		return 3
	default:
		return 0
	}
}

// Segment is one path command. Only the first Verb.pointCount() entries of
// Points are meaningful; the end point is always the last of them.
type Segment struct {
	Verb   Verb
	Points [3]geom.Vec2
}

// Pts returns the meaningful points of the segment.
func (s Segment) Pts() []geom.Vec2 {
	return s.Points[:s.Verb.pointCount()]
}

// End returns the end point of the segment.
// Close segments have no end point and return the zero Vec2.
func (s Segment) End() geom.Vec2 {
	n := s.Verb.pointCount()
	if n == 0 {
		return geom.Vec2{}
	}
	return s.Points[n-1]
}

func (s Segment) transform(m geom.Transform) Segment {
	for i := range s.Verb.pointCount() {
		s.Points[i] = m.Apply(s.Points[i])
	}
	return s
}
