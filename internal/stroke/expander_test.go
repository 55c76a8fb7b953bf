package stroke

import (
	"math"
	"testing"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/path"
)

// covers reports whether p lies in any triangle of tris. All triangles are
// positively oriented, so this is the nonzero coverage of the list.
func covers(tris []geom.Vec2, p geom.Vec2) bool {
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		if b.Sub(a).Cross(p.Sub(a)) >= 0 && c.Sub(b).Cross(p.Sub(b)) >= 0 && a.Sub(c).Cross(p.Sub(c)) >= 0 {
			return true
		}
	}
	return false
}

func polyline(closed bool, pts ...geom.Vec2) []path.Polyline {
	return []path.Polyline{{Points: pts, Closed: closed}}
}

func expand(style Style, polys []path.Polyline) []geom.Vec2 {
	return NewExpander(style).Expand(nil, polys)
}

func TestDefaultStyle(t *testing.T) {
	s := DefaultStyle()
	if s.Width != 1 || s.Cap != LineCapButt || s.Join != LineJoinMiter || s.MiterLimit != 4 {
		t.Errorf("DefaultStyle() = %+v", s)
	}
	e := NewExpander(s)
	if e.tolerance != defaultTolerance {
		t.Errorf("tolerance = %v, want %v", e.tolerance, defaultTolerance)
	}
	e.SetTolerance(0.1)
	if e.tolerance != 0.1 {
		t.Errorf("tolerance = %v, want 0.1", e.tolerance)
	}
	e.SetTolerance(-1)
	if e.tolerance != 0.1 {
		t.Errorf("negative tolerance changed value to %v", e.tolerance)
	}
}

func TestExpandJoins(t *testing.T) {
	// A 45 degree turn at (20,10). The outer corner points up and right;
	// the miter tip sits at (22.07, 5).
	elbow := polyline(false, geom.V(0, 10), geom.V(20, 10), geom.V(40, 30))
	nearTip := geom.V(22, 5.1)
	onBisector := geom.V(21.84, 5.57)
	outside := geom.V(24, 6)

	tests := []struct {
		name  string
		join  LineJoin
		limit float64
		want  map[geom.Vec2]bool
	}{
		{"miter", LineJoinMiter, 4, map[geom.Vec2]bool{nearTip: true, onBisector: true, outside: false}},
		{"miter past limit", LineJoinMiter, 1, map[geom.Vec2]bool{nearTip: false, onBisector: false, outside: false}},
		{"round", LineJoinRound, 4, map[geom.Vec2]bool{nearTip: false, onBisector: true, outside: false}},
		{"bevel", LineJoinBevel, 4, map[geom.Vec2]bool{nearTip: false, onBisector: false, outside: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := DefaultStyle()
			style.Width = 10
			style.Join = tt.join
			style.MiterLimit = tt.limit
			tris := expand(style, elbow)
			for p, want := range tt.want {
				if got := covers(tris, p); got != want {
					t.Errorf("covers(%v) = %v, want %v", p, got, want)
				}
			}
			// The inner corner and both bodies are always covered.
			for _, p := range []geom.Vec2{geom.V(10, 10), geom.V(19, 14), geom.V(30, 20)} {
				if !covers(tris, p) {
					t.Errorf("body point %v not covered", p)
				}
			}
		})
	}
}

func TestExpandCaps(t *testing.T) {
	line := polyline(false, geom.V(0, 0), geom.V(10, 0))
	tests := []struct {
		name string
		cap  LineCap
		want map[geom.Vec2]bool
	}{
		{"butt", LineCapButt, map[geom.Vec2]bool{{X: 10.5}: false, {X: -0.5}: false, {X: 10.9, Y: 0.9}: false}},
		{"square", LineCapSquare, map[geom.Vec2]bool{{X: 10.5}: true, {X: -0.5}: true, {X: 10.9, Y: 0.9}: true}},
		{"round", LineCapRound, map[geom.Vec2]bool{{X: 10.5}: true, {X: -0.5}: true, {X: 10.9, Y: 0.9}: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := DefaultStyle()
			style.Width = 2
			style.Cap = tt.cap
			tris := expand(style, line)
			for p, want := range tt.want {
				if got := covers(tris, p); got != want {
					t.Errorf("covers(%v) = %v, want %v", p, got, want)
				}
			}
			if !covers(tris, geom.V(5, 0.9)) {
				t.Error("body not covered")
			}
		})
	}
}

func TestExpandClosedRect(t *testing.T) {
	rect := polyline(true, geom.V(10, 10), geom.V(60, 10), geom.V(60, 60), geom.V(10, 60))
	style := DefaultStyle()
	style.Width = 2
	tris := expand(style, rect)
	// Four bodies plus a bevel and a miter triangle at every corner.
	if got, want := len(tris), (4*2+4*2)*3; got != want {
		t.Errorf("len = %d, want %d", got, want)
	}
	for _, p := range []geom.Vec2{{X: 9.1, Y: 9.1}, {X: 60.9, Y: 9.1}, {X: 60.9, Y: 60.9}, {X: 9.1, Y: 60.9}} {
		if !covers(tris, p) {
			t.Errorf("corner %v not covered", p)
		}
	}
	if covers(tris, geom.V(35, 35)) {
		t.Error("interior covered by stroke")
	}
}

func TestExpandOrientation(t *testing.T) {
	shapes := map[string][]path.Polyline{
		"zigzag": polyline(false, geom.V(0, 0), geom.V(10, 10), geom.V(20, 0), geom.V(30, 10)),
		"ccw":    polyline(true, geom.V(0, 0), geom.V(0, 10), geom.V(10, 10), geom.V(10, 0)),
		"cw":     polyline(true, geom.V(0, 0), geom.V(10, 0), geom.V(10, 10), geom.V(0, 10)),
		"spike":  polyline(false, geom.V(0, 0), geom.V(10, 0), geom.V(0, 0.1)),
	}
	for name, polys := range shapes {
		for _, join := range []LineJoin{LineJoinMiter, LineJoinRound, LineJoinBevel} {
			for _, c := range []LineCap{LineCapButt, LineCapRound, LineCapSquare} {
				style := Style{Width: 3, Cap: c, Join: join, MiterLimit: 10}
				tris := expand(style, polys)
				if len(tris)%3 != 0 {
					t.Fatalf("%s: len = %d, not a triangle list", name, len(tris))
				}
				for i := 0; i+2 < len(tris); i += 3 {
					a := tris[i+1].Sub(tris[i]).Cross(tris[i+2].Sub(tris[i]))
					if !(a > 0) {
						t.Fatalf("%s join=%d cap=%d: triangle %d has orientation %v", name, join, c, i/3, a)
					}
				}
			}
		}
	}
}

func TestExpandDegenerate(t *testing.T) {
	dot := polyline(false, geom.V(5, 5), geom.V(5, 5))
	tests := []struct {
		name   string
		style  Style
		polys  []path.Polyline
		center bool
	}{
		{"zero length butt", Style{Width: 4, Cap: LineCapButt}, dot, false},
		{"zero length round", Style{Width: 4, Cap: LineCapRound}, dot, true},
		{"zero length square", Style{Width: 4, Cap: LineCapSquare}, dot, true},
		{"lone point", Style{Width: 4, Cap: LineCapRound}, polyline(false, geom.V(5, 5)), false},
		{"zero width", Style{Width: 0, Cap: LineCapRound}, polyline(false, geom.V(0, 5), geom.V(10, 5)), false},
		{"nan width", Style{Width: math.NaN()}, polyline(false, geom.V(0, 5), geom.V(10, 5)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := expand(tt.style, tt.polys)
			if got := covers(tris, geom.V(5, 5)); got != tt.center {
				t.Errorf("covers center = %v, want %v", got, tt.center)
			}
		})
	}
}

func TestExpandAppends(t *testing.T) {
	prefix := []geom.Vec2{{X: 1}, {X: 2}, {X: 3}}
	got := NewExpander(DefaultStyle()).Expand(prefix, polyline(false, geom.V(0, 0), geom.V(10, 0)))
	if len(got) != 3+6 {
		t.Fatalf("len = %d, want 9", len(got))
	}
	if got[0] != prefix[0] || got[2] != prefix[2] {
		t.Errorf("prefix overwritten: %v", got[:3])
	}
}
