package build

import (
	"math"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/internal/stroke"
	"github.com/gogpu/canvas/path"
	"github.com/gogpu/canvas/scene"
)

// appendFan triangulates every closed polyline as a fan around its first
// point. Summing the signed triangle areas gives the polygon's winding
// number at every pixel, which is what stencil-then-cover fills with.
func appendFan(dst []geom.Vec2, polys []path.Polyline) []geom.Vec2 {
	for _, pl := range polys {
		pts := pl.Points
		if len(pts) < 3 {
			continue
		}
		p0 := pts[0]
		for i := 1; i+1 < len(pts); i++ {
			dst = append(dst, p0, pts[i], pts[i+1])
		}
	}
	return dst
}

// strokeExpander returns an expander for the pen described by p.
func strokeExpander(p scene.Paint, tolerance float64) *stroke.Expander {
	style := stroke.Style{
		Width:      p.LineWidth,
		Cap:        stroke.LineCapButt,
		Join:       stroke.LineJoinMiter,
		MiterLimit: p.MiterLimit,
	}
	switch p.Cap {
	case scene.LineCapRound:
		style.Cap = stroke.LineCapRound
	case scene.LineCapSquare:
		style.Cap = stroke.LineCapSquare
	}
	switch p.Join {
	case scene.LineJoinRound:
		style.Join = stroke.LineJoinRound
	case scene.LineJoinBevel:
		style.Join = stroke.LineJoinBevel
	}
	e := stroke.NewExpander(style)
	e.SetTolerance(tolerance)
	return e
}

// rectTriangles returns r as two triangles.
func rectTriangles(r geom.Rect) [6]geom.Vec2 {
	x0, y0, x1, y1 := r.MinX(), r.MinY(), r.MaxX(), r.MaxY()
	return [6]geom.Vec2{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1},
		{X: x0, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}
}

// pointBounds returns the bounding box of pts, or false if pts is empty.
func pointBounds(pts []geom.Vec2) (geom.Rect, bool) {
	if len(pts) == 0 {
		return geom.Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return geom.RectFromPoints(geom.V(minX, minY), geom.V(maxX, maxY)), true
}

// snapOut grows r to whole pixels.
func snapOut(r geom.Rect) geom.Rect {
	return geom.RectFromPoints(
		geom.V(math.Floor(r.MinX()), math.Floor(r.MinY())),
		geom.V(math.Ceil(r.MaxX()), math.Ceil(r.MaxY())),
	)
}

func allFinite(pts []geom.Vec2) bool {
	for _, p := range pts {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}
