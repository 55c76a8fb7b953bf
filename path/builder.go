package path

import (
	"errors"
	"fmt"

	"github.com/gogpu/canvas/geom"
)

// ErrInvalidPathState reports a malformed command sequence, such as LineTo
// before any MoveTo, or a non-finite coordinate.
var ErrInvalidPathState = errors.New("path: invalid path state")

// kappa is the control point distance for a quarter circle cubic approximation.
const kappa = 0.5522847498

// Builder accumulates path commands.
// All methods return the builder for chaining; the first error is kept and
// later commands are ignored until Reset.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	segs []Segment

	start   geom.Vec2
	current geom.Vec2
	// open is true while a contour has been started by MoveTo.
	open bool
	// closed is true right after ClosePath.
	closed bool

	err error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Err returns the first error recorded by the builder, if any.
func (b *Builder) Err() error {
	return b.err
}

// Reset clears all segments and any recorded error.
func (b *Builder) Reset() {
	b.segs = b.segs[:0]
	b.start, b.current = geom.Vec2{}, geom.Vec2{}
	b.open, b.closed = false, false
	b.err = nil
}

func (b *Builder) fail(op string, format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s: %s", ErrInvalidPathState, op, fmt.Sprintf(format, args...))
	}
}

// ready validates coordinates and the call order for a drawing command.
func (b *Builder) ready(op string, pts ...geom.Vec2) bool {
	if b.err != nil {
		return false
	}
	for _, p := range pts {
		if !p.IsFinite() {
			b.fail(op, "non-finite point %v", p)
			return false
		}
	}
	if !b.open {
		b.fail(op, "no current point, call MoveTo first")
		return false
	}
	if b.closed {
		// Continue from the start of the contour that was just closed.
		b.segs = append(b.segs, Segment{Verb: MoveTo, Points: [3]geom.Vec2{b.start}})
		b.current = b.start
		b.closed = false
	}
	return true
}

// MoveTo starts a new contour at p.
// A MoveTo directly following another MoveTo replaces it.
func (b *Builder) MoveTo(p geom.Vec2) *Builder {
	if b.err != nil {
		return b
	}
	if !p.IsFinite() {
		b.fail("MoveTo", "non-finite point %v", p)
		return b
	}
	seg := Segment{Verb: MoveTo, Points: [3]geom.Vec2{p}}
	if n := len(b.segs); n > 0 && b.segs[n-1].Verb == MoveTo {
		b.segs[n-1] = seg
	} else {
		b.segs = append(b.segs, seg)
	}
	b.start, b.current = p, p
	b.open, b.closed = true, false
	return b
}

// LineTo adds a straight line from the current point to p.
func (b *Builder) LineTo(p geom.Vec2) *Builder {
	if !b.ready("LineTo", p) {
		return b
	}
	b.segs = append(b.segs, Segment{Verb: LineTo, Points: [3]geom.Vec2{p}})
	b.current = p
	return b
}

// QuadTo adds a quadratic Bezier curve with control point c ending at p.
func (b *Builder) QuadTo(c, p geom.Vec2) *Builder {
	if !b.ready("QuadTo", c, p) {
		return b
	}
	b.segs = append(b.segs, Segment{Verb: QuadTo, Points: [3]geom.Vec2{c, p}})
	b.current = p
	return b
}

// CubicTo adds a cubic Bezier curve with control points c1, c2 ending at p.
func (b *Builder) CubicTo(c1, c2, p geom.Vec2) *Builder {
	if !b.ready("CubicTo", c1, c2, p) {
		return b
	}
	b.segs = append(b.segs, Segment{Verb: CubicTo, Points: [3]geom.Vec2{c1, c2, p}})
	b.current = p
	return b
}

// ClosePath closes the current contour back to its start point.
func (b *Builder) ClosePath() *Builder {
	if b.err != nil || b.closed {
		return b
	}
	if !b.open {
		b.fail("ClosePath", "no current contour")
		return b
	}
	if n := len(b.segs); n > 0 && b.segs[n-1].Verb == MoveTo {
		// Nothing to close.
		return b
	}
	b.segs = append(b.segs, Segment{Verb: Close})
	b.current = b.start
	b.closed = true
	return b
}

// Rect adds a closed rectangle contour: a MoveTo at the origin followed by
// three lines and a ClosePath, giving four edges.
func (b *Builder) Rect(r geom.Rect) *Builder {
	r = r.Normalize()
	c := r.Corners()
	b.MoveTo(c[0])
	b.LineTo(c[1])
	b.LineTo(c[2])
	b.LineTo(c[3])
	return b.ClosePath()
}

// Ellipse adds a closed ellipse contour approximated by four cubic curves.
func (b *Builder) Ellipse(center, radii geom.Vec2) *Builder {
	cx, cy := center.X, center.Y
	rx, ry := radii.X, radii.Y
	kx, ky := kappa*rx, kappa*ry

	b.MoveTo(geom.V(cx+rx, cy))
	b.CubicTo(geom.V(cx+rx, cy+ky), geom.V(cx+kx, cy+ry), geom.V(cx, cy+ry))
	b.CubicTo(geom.V(cx-kx, cy+ry), geom.V(cx-rx, cy+ky), geom.V(cx-rx, cy))
	b.CubicTo(geom.V(cx-rx, cy-ky), geom.V(cx-kx, cy-ry), geom.V(cx, cy-ry))
	b.CubicTo(geom.V(cx+kx, cy-ry), geom.V(cx+rx, cy-ky), geom.V(cx+rx, cy))
	return b.ClosePath()
}

// Circle adds a closed circle contour.
func (b *Builder) Circle(center geom.Vec2, r float64) *Builder {
	return b.Ellipse(center, geom.V(r, r))
}

// AppendPath appends every segment of p, transformed by m.
func (b *Builder) AppendPath(p *Path, m geom.Transform) *Builder {
	if p == nil {
		return b
	}
	for _, s := range p.segs {
		s = s.transform(m)
		switch s.Verb {
		case MoveTo:
			b.MoveTo(s.Points[0])
		case LineTo:
			b.LineTo(s.Points[0])
		case QuadTo:
			b.QuadTo(s.Points[0], s.Points[1])
		case CubicTo:
			b.CubicTo(s.Points[0], s.Points[1], s.Points[2])
		case Close:
			b.ClosePath()
		}
	}
	return b
}

// Build returns the accumulated path, or the first recorded error.
// The builder may keep being used afterwards; the returned Path does not
// share storage with it.
func (b *Builder) Build() (*Path, error) {
	if b.err != nil {
		return nil, b.err
	}
	segs := b.segs
	// A trailing MoveTo draws nothing.
	if n := len(segs); n > 0 && segs[n-1].Verb == MoveTo {
		segs = segs[:n-1]
	}
	return newPath(segs), nil
}
