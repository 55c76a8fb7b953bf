package path

import (
	"math"

	"github.com/gogpu/canvas/geom"
)

// Path is an immutable sequence of segments.
// Every contour starts with a MoveTo segment.
type Path struct {
	segs []Segment
}

func newPath(segs []Segment) *Path {
	return &Path{segs: append([]Segment(nil), segs...)}
}

// Segments returns a copy of the path segments.
func (p *Path) Segments() []Segment {
	return append([]Segment(nil), p.segs...)
}

// Len returns the number of segments, MoveTo and Close included.
func (p *Path) Len() int {
	return len(p.segs)
}

// IsEmpty reports whether the path draws nothing.
func (p *Path) IsEmpty() bool {
	for _, s := range p.segs {
		if s.Verb != MoveTo {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of every point in the path, control points
// included. An empty path returns the zero Rect.
func (p *Path) Bounds() geom.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range p.segs {
		for _, q := range s.Pts() {
			minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
			minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
		}
	}
	if minX > maxX {
		return geom.Rect{}
	}
	return geom.RectFromPoints(geom.V(minX, minY), geom.V(maxX, maxY))
}

// Transform returns a new path with every point transformed by m.
func (p *Path) Transform(m geom.Transform) *Path {
	out := &Path{segs: make([]Segment, len(p.segs))}
	for i, s := range p.segs {
		out.segs[i] = s.transform(m)
	}
	return out
}

// Contours splits the path into contours. Each contour starts with its
// MoveTo segment and ends with a Close segment when it is closed.
func (p *Path) Contours() [][]Segment {
	var out [][]Segment
	start := -1
	for i, s := range p.segs {
		if s.Verb == MoveTo {
			if start >= 0 && i-start > 1 {
				out = append(out, p.segs[start:i:i])
			}
			start = i
		}
	}
	if start >= 0 && len(p.segs)-start > 1 {
		out = append(out, p.segs[start:len(p.segs):len(p.segs)])
	}
	return out
}

// Closed returns the path used for filling: every open contour gets a
// Close segment from its last point back to its first. A path whose
// contours are all closed is returned as is.
func (p *Path) Closed() *Path {
	contours := p.Contours()
	allClosed := true
	for _, c := range contours {
		if c[len(c)-1].Verb != Close {
			allClosed = false
			break
		}
	}
	if allClosed {
		return p
	}
	out := &Path{segs: make([]Segment, 0, len(p.segs)+len(contours))}
	for _, c := range contours {
		out.segs = append(out.segs, c...)
		if c[len(c)-1].Verb != Close {
			out.segs = append(out.segs, Segment{Verb: Close})
		}
	}
	return out
}

// Equal reports whether two paths have identical segments.
func (p *Path) Equal(q *Path) bool {
	if p == nil || q == nil {
		return p == q
	}
	if len(p.segs) != len(q.segs) {
		return false
	}
	for i := range p.segs {
		if p.segs[i] != q.segs[i] {
			return false
		}
	}
	return true
}
