package geom

import "math"

// Rect is an axis-aligned rectangle described by its origin and size.
// Rectangles produced by NewRect and the methods of this package always
// have a non-negative size.
type Rect struct {
	Origin Vec2
	Size   Vec2
}

// NewRect creates a rectangle from an origin and a size.
// A negative width or height moves the origin so that the size is positive.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Origin: Vec2{X: x, Y: y}, Size: Vec2{X: width, Y: height}}.Normalize()
}

// RectFromPoints returns the smallest rectangle containing both points.
func RectFromPoints(a, b Vec2) Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{Origin: Vec2{X: minX, Y: minY}, Size: Vec2{X: maxX - minX, Y: maxY - minY}}
}

// Normalize returns an equivalent rectangle with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.Size.X < 0 {
		r.Origin.X += r.Size.X
		r.Size.X = -r.Size.X
	}
	if r.Size.Y < 0 {
		r.Origin.Y += r.Size.Y
		r.Size.Y = -r.Size.Y
	}
	return r
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.Origin.X }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Origin.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.X }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Y }

// Width returns the rectangle width.
func (r Rect) Width() float64 { return r.Size.X }

// Height returns the rectangle height.
func (r Rect) Height() float64 { return r.Size.Y }

// IsEmpty reports whether the rectangle covers no area.
func (r Rect) IsEmpty() bool {
	return r.Size.X <= 0 || r.Size.Y <= 0
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// ContainsRect reports whether s lies entirely inside r.
// An empty s is contained in every rectangle.
func (r Rect) ContainsRect(s Rect) bool {
	if s.IsEmpty() {
		return true
	}
	return s.MinX() >= r.MinX() && s.MaxX() <= r.MaxX() && s.MinY() >= r.MinY() && s.MaxY() <= r.MaxY()
}

// Intersect returns the intersection of two rectangles.
// The zero Rect is returned when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	minX := math.Max(r.MinX(), s.MinX())
	minY := math.Max(r.MinY(), s.MinY())
	maxX := math.Min(r.MaxX(), s.MaxX())
	maxY := math.Min(r.MaxY(), s.MaxY())
	if maxX <= minX || maxY <= minY {
		return Rect{}
	}
	return Rect{Origin: Vec2{X: minX, Y: minY}, Size: Vec2{X: maxX - minX, Y: maxY - minY}}
}

// Union returns the smallest rectangle containing both rectangles.
// Empty rectangles are ignored.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return RectFromPoints(
		Vec2{X: math.Min(r.MinX(), s.MinX()), Y: math.Min(r.MinY(), s.MinY())},
		Vec2{X: math.Max(r.MaxX(), s.MaxX()), Y: math.Max(r.MaxY(), s.MaxY())},
	)
}

// Corners returns the four corners in clockwise order (screen space)
// starting at the origin.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{X: r.MinX(), Y: r.MinY()},
		{X: r.MaxX(), Y: r.MinY()},
		{X: r.MaxX(), Y: r.MaxY()},
		{X: r.MinX(), Y: r.MaxY()},
	}
}

// Inset returns the rectangle shrunk by d on every side (grown when d is negative).
func (r Rect) Inset(d float64) Rect {
	return NewRect(r.MinX()+d, r.MinY()+d, r.Width()-2*d, r.Height()-2*d)
}

// IsFinite reports whether the origin and size are finite.
func (r Rect) IsFinite() bool {
	return r.Origin.IsFinite() && r.Size.IsFinite()
}
