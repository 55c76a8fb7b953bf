package canvas

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/colornames"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/path"
	"github.com/gogpu/canvas/resource"
	"github.com/gogpu/canvas/scene"
	"github.com/gogpu/canvas/text"
)

func mustScene(t *testing.T, c *Context) *scene.Scene {
	t.Helper()
	s, err := c.IntoScene()
	if err != nil {
		t.Fatalf("IntoScene() error = %v", err)
	}
	return s
}

func roof(t *testing.T) *path.Path {
	t.Helper()
	p, err := path.NewBuilder().
		MoveTo(geom.V(50, 140)).
		LineTo(geom.V(150, 60)).
		LineTo(geom.V(250, 140)).
		ClosePath().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStrokeRectScenario(t *testing.T) {
	c := New(geom.V(200, 200))
	if err := c.SetLineWidth(2); err != nil {
		t.Fatal(err)
	}
	if err := c.StrokeRect(geom.NewRect(10, 10, 50, 50)); err != nil {
		t.Fatal(err)
	}
	s := mustScene(t, c)

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	e := s.Entry(0)
	if e.Op != scene.OpStroke {
		t.Errorf("Op = %v, want Stroke", e.Op)
	}
	want := []path.Verb{path.MoveTo, path.LineTo, path.LineTo, path.LineTo, path.Close}
	segs := e.Geometry.Segments()
	if len(segs) != len(want) {
		t.Fatalf("segments = %d, want %d", len(segs), len(want))
	}
	for i, v := range want {
		if segs[i].Verb != v {
			t.Errorf("segment %d = %v, want %v", i, segs[i].Verb, v)
		}
	}
	if e.Paint.StrokeColor != scene.DefaultPaint().StrokeColor {
		t.Errorf("StrokeColor = %+v, want default", e.Paint.StrokeColor)
	}
	if e.Paint.LineWidth != 2 {
		t.Errorf("LineWidth = %v, want 2", e.Paint.LineWidth)
	}
	if s.Size() != geom.V(200, 200) {
		t.Errorf("Size() = %v", s.Size())
	}
}

func TestEntryCountEqualsDrawCalls(t *testing.T) {
	c := New(geom.V(300, 300))
	calls := []struct {
		draws bool
		fn    func() error
	}{
		{false, func() error { return c.SetLineWidth(10) }},
		{true, func() error { return c.StrokeRect(geom.NewRect(75, 140, 150, 110)) }},
		{false, c.Save},
		{false, func() error { return c.SetFillColor(colornames.Brown) }},
		{true, func() error { return c.FillRect(geom.NewRect(130, 190, 40, 60)) }},
		{false, func() error { return c.Translate(5, 5) }},
		{false, c.Restore},
		{true, func() error { return c.StrokePath(roof(t)) }},
		{false, func() error { return c.Clip(roof(t)) }},
		{true, func() error { return c.FillPath(roof(t)) }},
		{false, func() error { return c.SetGlobalAlpha(0.5) }},
		{false, func() error { return c.SetBlendMode(scene.BlendCopy) }},
	}
	want := 0
	for i, call := range calls {
		if err := call.fn(); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if call.draws {
			want++
		}
		if c.Len() != want {
			t.Fatalf("after call %d Len() = %d, want %d", i, c.Len(), want)
		}
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	c := New(geom.V(10, 10))
	before := c.FillColor()

	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	_ = c.SetFillColor(colornames.Red)
	_ = c.SetLineWidth(7)
	_ = c.Translate(3, 4)
	_ = c.Clip(roof(t))
	if err := c.Restore(); err != nil {
		t.Fatal(err)
	}

	if c.FillColor() != before {
		t.Errorf("FillColor() = %+v, want %+v", c.FillColor(), before)
	}
	if c.LineWidth() != 1 {
		t.Errorf("LineWidth() = %v, want 1", c.LineWidth())
	}
	if !c.Transform().IsIdentity() {
		t.Errorf("Transform() = %+v, want identity", c.Transform())
	}
	_ = c.FillRect(geom.NewRect(0, 0, 1, 1))
	s := mustScene(t, c)
	if s.Entry(0).Clip != nil {
		t.Error("clip should be restored to none")
	}
}

func TestRestoreUnbalanced(t *testing.T) {
	c := New(geom.V(10, 10))
	_ = c.SetFillColor(colornames.Blue)
	if err := c.Restore(); !errors.Is(err, ErrUnbalancedState) {
		t.Fatalf("Restore() error = %v, want ErrUnbalancedState", err)
	}
	if c.FillColor() != colornames.Blue {
		t.Error("failed Restore must leave state untouched")
	}
	// Still usable.
	if err := c.FillRect(geom.NewRect(0, 0, 1, 1)); err != nil {
		t.Errorf("FillRect after failed Restore: %v", err)
	}
}

func TestSnapshotIsImmediate(t *testing.T) {
	c := New(geom.V(10, 10))
	_ = c.SetFillColor(colornames.Red)
	_ = c.FillRect(geom.NewRect(0, 0, 5, 5))
	_ = c.SetFillColor(colornames.Green)
	_ = c.Translate(1, 1)
	_ = c.FillRect(geom.NewRect(0, 0, 5, 5))
	s := mustScene(t, c)

	if got := s.Entry(0).Paint.FillColor; got != colornames.Red {
		t.Errorf("entry 0 color = %+v, want red", got)
	}
	if !s.Entry(0).Transform.IsIdentity() {
		t.Error("entry 0 transform should be identity")
	}
	if got := s.Entry(1).Paint.FillColor; got != colornames.Green {
		t.Errorf("entry 1 color = %+v, want green", got)
	}
	if got := s.Entry(1).Transform; got != geom.Translate(1, 1) {
		t.Errorf("entry 1 transform = %+v", got)
	}
}

func TestGlobalAlphaScalesColors(t *testing.T) {
	c := New(geom.V(10, 10))
	_ = c.SetFillColor(color.RGBA{R: 200, A: 200})
	_ = c.SetGlobalAlpha(0.5)
	_ = c.FillRect(geom.NewRect(0, 0, 1, 1))
	s := mustScene(t, c)
	if got, want := s.Entry(0).Paint.FillColor, (color.RGBA{R: 100, A: 100}); got != want {
		t.Errorf("FillColor = %+v, want %+v", got, want)
	}
}

func TestInvalidArguments(t *testing.T) {
	c := New(geom.V(10, 10))
	tests := []struct {
		name string
		fn   func() error
	}{
		{"nil fill path", func() error { return c.FillPath(nil) }},
		{"nil stroke path", func() error { return c.StrokePath(nil) }},
		{"nil clip", func() error { return c.Clip(nil) }},
		{"NaN line width", func() error { return c.SetLineWidth(math.NaN()) }},
		{"negative line width", func() error { return c.SetLineWidth(-1) }},
		{"Inf line width", func() error { return c.SetLineWidth(math.Inf(1)) }},
		{"alpha above one", func() error { return c.SetGlobalAlpha(1.5) }},
		{"NaN rect", func() error { return c.FillRect(geom.NewRect(math.NaN(), 0, 1, 1)) }},
		{"NaN translate", func() error { return c.Translate(math.NaN(), 0) }},
		{"empty text", func() error { return c.FillText("", geom.V(0, 0)) }},
		{"bad blend", func() error { return c.SetBlendMode(scene.BlendMode(42)) }},
		{"bad cap", func() error { return c.SetLineCap(scene.LineCap(9)) }},
		{"bad join", func() error { return c.SetLineJoin(scene.LineJoin(9)) }},
		{"miter limit below one", func() error { return c.SetMiterLimit(0.5) }},
		{"NaN miter limit", func() error { return c.SetMiterLimit(math.NaN()) }},
		{"Inf miter limit", func() error { return c.SetMiterLimit(math.Inf(1)) }},
		{"zero font size", func() error { return c.SetFontSize(0) }},
		{"font size past fixed point range", func() error { return c.SetFontSize(4e7) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
	if c.Len() != 0 {
		t.Errorf("invalid calls appended %d entries", c.Len())
	}
	if c.LineWidth() != 1 || !c.Transform().IsIdentity() || c.MiterLimit() != 4 || c.FontSize() != 16 {
		t.Error("invalid calls must not change state")
	}
}

func TestIntoSceneConsumes(t *testing.T) {
	c := New(geom.V(10, 10))
	_ = c.FillRect(geom.NewRect(0, 0, 1, 1))
	s := mustScene(t, c)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	calls := map[string]func() error{
		"FillRect":     func() error { return c.FillRect(geom.NewRect(0, 0, 1, 1)) },
		"StrokeRect":   func() error { return c.StrokeRect(geom.NewRect(0, 0, 1, 1)) },
		"Save":         c.Save,
		"Restore":      c.Restore,
		"SetLineWidth": func() error { return c.SetLineWidth(2) },
		"Translate":    func() error { return c.Translate(1, 1) },
		"ResetClip":    c.ResetClip,
		"SetLineJoin":  func() error { return c.SetLineJoin(scene.LineJoinRound) },
		"MeasureText":  func() error { _, err := c.MeasureText("a"); return err },
		"IntoScene":    func() error { _, err := c.IntoScene(); return err },
	}
	for name, fn := range calls {
		if err := fn(); !errors.Is(err, ErrConsumed) {
			t.Errorf("%s after IntoScene: error = %v, want ErrConsumed", name, err)
		}
	}
	if s.Len() != 1 {
		t.Errorf("scene changed after consumption: Len() = %d", s.Len())
	}
}

func TestClipNests(t *testing.T) {
	c := New(geom.V(300, 300))
	_ = c.Clip(roof(t))
	_ = c.Translate(10, 0)
	_ = c.Clip(roof(t))
	_ = c.FillRect(geom.NewRect(0, 0, 300, 300))
	s := mustScene(t, c)

	clip := s.Entry(0).Clip
	if clip.Depth() != 2 {
		t.Fatalf("clip depth = %d, want 2", clip.Depth())
	}
	if clip.Transform != geom.Translate(10, 0) {
		t.Errorf("inner clip transform = %+v", clip.Transform)
	}
	if !clip.Parent.Transform.IsIdentity() {
		t.Errorf("outer clip transform = %+v", clip.Parent.Transform)
	}
}

func TestFillText(t *testing.T) {
	fonts, err := text.LoadCollection(resource.Embedded{}, "fonts/GoRegular.ttf")
	if err != nil {
		t.Fatal(err)
	}
	c := New(geom.V(200, 100), WithFontSource(fonts), WithFontSize(24))
	if err := c.FillText("House", geom.V(20, 50)); err != nil {
		t.Fatalf("FillText() error = %v", err)
	}
	if err := c.StrokeText("House", geom.V(20, 90)); err != nil {
		t.Fatalf("StrokeText() error = %v", err)
	}
	s := mustScene(t, c)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	b := s.Entry(0).Geometry.Bounds()
	if b.MinX() < 19 || b.MaxY() > 51 || b.MinY() > 40 {
		t.Errorf("text bounds = %+v, want baseline at y=50 starting at x=20", b)
	}
	if s.Entry(1).Op != scene.OpStroke {
		t.Error("StrokeText should record a stroke entry")
	}
}

func TestFillTextWithoutFonts(t *testing.T) {
	c := New(geom.V(10, 10))
	if err := c.FillText("a", geom.V(0, 0)); !errors.Is(err, ErrNoFontSource) {
		t.Errorf("error = %v, want ErrNoFontSource", err)
	}
}

func TestResetClip(t *testing.T) {
	c := New(geom.V(300, 300))
	_ = c.Clip(roof(t))
	_ = c.Save()
	_ = c.Clip(roof(t))
	if err := c.ResetClip(); err != nil {
		t.Fatalf("ResetClip() error = %v", err)
	}
	_ = c.FillRect(geom.NewRect(0, 0, 10, 10))
	_ = c.Restore()
	_ = c.FillRect(geom.NewRect(0, 0, 10, 10))
	s := mustScene(t, c)

	if s.Entry(0).Clip != nil {
		t.Error("entry after ResetClip should be unclipped")
	}
	if clip := s.Entry(1).Clip; clip == nil || clip.Depth() != 1 {
		t.Error("Restore should bring back the saved clip")
	}
}

func TestStrokeStyle(t *testing.T) {
	c := New(geom.V(100, 100))
	if c.LineCap() != scene.LineCapButt || c.LineJoin() != scene.LineJoinMiter || c.MiterLimit() != 4 {
		t.Fatalf("defaults = %v %v %v", c.LineCap(), c.LineJoin(), c.MiterLimit())
	}
	_ = c.Save()
	for _, err := range []error{
		c.SetLineCap(scene.LineCapRound),
		c.SetLineJoin(scene.LineJoinBevel),
		c.SetMiterLimit(2),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	_ = c.StrokeRect(geom.NewRect(10, 10, 20, 20))
	_ = c.Restore()
	_ = c.StrokeRect(geom.NewRect(10, 10, 20, 20))
	s := mustScene(t, c)

	tests := []struct {
		name  string
		entry int
		cap   scene.LineCap
		join  scene.LineJoin
		limit float64
	}{
		{"styled", 0, scene.LineCapRound, scene.LineJoinBevel, 2},
		{"restored", 1, scene.LineCapButt, scene.LineJoinMiter, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := s.Entry(tt.entry).Paint
			if p.Cap != tt.cap || p.Join != tt.join || p.MiterLimit != tt.limit {
				t.Errorf("paint = %v %v %v, want %v %v %v", p.Cap, p.Join, p.MiterLimit, tt.cap, tt.join, tt.limit)
			}
		})
	}
}

func TestMeasureText(t *testing.T) {
	fonts, err := text.LoadCollection(resource.Embedded{}, "fonts/GoRegular.ttf")
	if err != nil {
		t.Fatal(err)
	}
	c := New(geom.V(200, 100), WithFontSource(fonts), WithFontSize(24))
	small, err := c.MeasureText("House")
	if err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
	if !(small.Advance > 0) || !(small.Ascent > 0) || !(small.Height > 0) {
		t.Errorf("metrics = %+v, want positive advance, ascent and height", small)
	}
	_ = c.SetFontSize(48)
	large, err := c.MeasureText("House")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(large.Advance-2*small.Advance) > 1 {
		t.Errorf("advance at 48px = %v, want about twice %v", large.Advance, small.Advance)
	}
	if c.Len() != 0 {
		t.Errorf("MeasureText recorded %d entries", c.Len())
	}

	if _, err := New(geom.V(10, 10)).MeasureText("a"); !errors.Is(err, ErrNoFontSource) {
		t.Errorf("without fonts: error = %v, want ErrNoFontSource", err)
	}
	_, _ = c.IntoScene()
	if _, err := c.MeasureText("House"); !errors.Is(err, ErrConsumed) {
		t.Errorf("after IntoScene: error = %v, want ErrConsumed", err)
	}
}

func TestWithFontSizeRange(t *testing.T) {
	tests := []struct {
		size float64
		want float64
	}{
		{24, 24},
		{0, 16},
		{-3, 16},
		{math.NaN(), 16},
		{text.MaxSize, text.MaxSize},
		{4e7, 16},
	}
	for _, tt := range tests {
		if got := New(geom.V(1, 1), WithFontSize(tt.size)).FontSize(); got != tt.want {
			t.Errorf("WithFontSize(%v): FontSize() = %v, want %v", tt.size, got, tt.want)
		}
	}
}
