package geom

import "math"

// Transform represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Transform struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation.
func Translate(x, y float64) Transform {
	return Transform{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling transformation.
func Scale(x, y float64) Transform {
	return Transform{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation (angle in radians).
func Rotate(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	return Transform{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Multiply returns m * other: other is applied first, then m.
func (m Transform) Multiply(other Transform) Transform {
	return Transform{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Apply transforms a point.
func (m Transform) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// ApplyVector transforms a vector (no translation).
func (m Transform) ApplyVector(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// Determinant returns the determinant of the linear part.
func (m Transform) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// IsInvertible reports whether the transform can be inverted.
func (m Transform) IsInvertible() bool {
	det := m.Determinant()
	return isFinite(det) && math.Abs(det) >= 1e-12
}

// Invert returns the inverse transform.
// Returns the identity if the transform is not invertible.
func (m Transform) Invert() Transform {
	if !m.IsInvertible() {
		return Identity()
	}
	invDet := 1.0 / m.Determinant()
	return Transform{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity reports whether m is the identity transform.
func (m Transform) IsIdentity() bool {
	return m == Identity()
}

// IsFinite reports whether every coefficient is finite.
func (m Transform) IsFinite() bool {
	return isFinite(m.A) && isFinite(m.B) && isFinite(m.C) &&
		isFinite(m.D) && isFinite(m.E) && isFinite(m.F)
}

// MeanScale returns the geometric mean of the axis scale factors.
// Used to map user-space line widths and tolerances to device space.
func (m Transform) MeanScale() float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

// TransformRect returns the bounding box of the transformed rectangle.
func (m Transform) TransformRect(r Rect) Rect {
	c := r.Corners()
	p := m.Apply(c[0])
	minX, minY, maxX, maxY := p.X, p.Y, p.X, p.Y
	for _, q := range c[1:] {
		p = m.Apply(q)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{Origin: Vec2{X: minX, Y: minY}, Size: Vec2{X: maxX - minX, Y: maxY - minY}}
}
