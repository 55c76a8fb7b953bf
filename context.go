package canvas

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/path"
	"github.com/gogpu/canvas/scene"
	"github.com/gogpu/canvas/text"
)

// state is everything Save pushes and Restore pops.
type state struct {
	fillColor   color.RGBA
	strokeColor color.RGBA
	lineWidth   float64
	lineCap     scene.LineCap
	lineJoin    scene.LineJoin
	miterLimit  float64
	globalAlpha float64
	blend       scene.BlendMode
	transform   geom.Transform
	clip        *scene.ClipPath
	fontSize    float64
}

// Context records drawing calls into a scene.
//
// Every fill or stroke call appends exactly one scene entry carrying a
// snapshot of the current style, transform and clip. Style, transform,
// clip and Save/Restore calls append nothing.
//
// A Context is not safe for concurrent use.
type Context struct {
	scene *scene.Scene
	fonts text.Source

	st    state
	stack []state

	consumed bool
}

// New creates a Context of the given size in pixels.
// Negative or non-finite dimensions are treated as zero.
func New(size geom.Vec2, opts ...Option) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !(size.X > 0) || math.IsInf(size.X, 0) {
		size.X = 0
	}
	if !(size.Y > 0) || math.IsInf(size.Y, 0) {
		size.Y = 0
	}
	p := scene.DefaultPaint()
	return &Context{
		scene: scene.New(size),
		fonts: o.fonts,
		st: state{
			fillColor:   p.FillColor,
			strokeColor: p.StrokeColor,
			lineWidth:   p.LineWidth,
			lineCap:     p.Cap,
			lineJoin:    p.Join,
			miterLimit:  p.MiterLimit,
			globalAlpha: 1,
			blend:       p.Blend,
			transform:   geom.Identity(),
			fontSize:    o.fontSize,
		},
	}
}

// Size returns the canvas size.
func (c *Context) Size() geom.Vec2 {
	return c.scene.Size()
}

// Len returns the number of entries recorded so far.
func (c *Context) Len() int {
	if c.consumed {
		return 0
	}
	return c.scene.Len()
}

func (c *Context) check() error {
	if c.consumed {
		return ErrConsumed
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// paint snapshots the current style.
func (c *Context) paint() scene.Paint {
	return scene.Paint{
		FillColor:   scene.ScaleAlpha(c.st.fillColor, c.st.globalAlpha),
		StrokeColor: scene.ScaleAlpha(c.st.strokeColor, c.st.globalAlpha),
		LineWidth:   c.st.lineWidth,
		Cap:         c.st.lineCap,
		Join:        c.st.lineJoin,
		MiterLimit:  c.st.miterLimit,
		Blend:       c.st.blend,
	}
}

func (c *Context) push(op scene.Op, geometry *path.Path) {
	c.scene.Push(scene.Entry{
		Op:        op,
		Geometry:  geometry,
		Paint:     c.paint(),
		Transform: c.st.transform,
		Clip:      c.st.clip,
	})
}

func rectPath(r geom.Rect) (*path.Path, error) {
	if !r.IsFinite() {
		return nil, invalid("non-finite rect %+v", r)
	}
	return path.NewBuilder().Rect(r).Build()
}

// FillRect fills r.
func (c *Context) FillRect(r geom.Rect) error {
	if err := c.check(); err != nil {
		return err
	}
	p, err := rectPath(r)
	if err != nil {
		return err
	}
	c.push(scene.OpFill, p)
	return nil
}

// StrokeRect strokes the outline of r.
func (c *Context) StrokeRect(r geom.Rect) error {
	if err := c.check(); err != nil {
		return err
	}
	p, err := rectPath(r)
	if err != nil {
		return err
	}
	c.push(scene.OpStroke, p)
	return nil
}

// FillPath fills p with the nonzero winding rule. Open contours are
// implicitly closed.
func (c *Context) FillPath(p *path.Path) error {
	if err := c.check(); err != nil {
		return err
	}
	if p == nil {
		return invalid("nil path")
	}
	c.push(scene.OpFill, p)
	return nil
}

// StrokePath strokes p. Open contours stay open.
func (c *Context) StrokePath(p *path.Path) error {
	if err := c.check(); err != nil {
		return err
	}
	if p == nil {
		return invalid("nil path")
	}
	c.push(scene.OpStroke, p)
	return nil
}

// Clip intersects the current clip region with p.
// The clip is part of the saved state.
func (c *Context) Clip(p *path.Path) error {
	if err := c.check(); err != nil {
		return err
	}
	if p == nil {
		return invalid("nil clip path")
	}
	c.st.clip = &scene.ClipPath{
		Path:      p.Closed(),
		Transform: c.st.transform,
		Parent:    c.st.clip,
	}
	return nil
}

// ResetClip removes the clip region.
func (c *Context) ResetClip() error {
	if err := c.check(); err != nil {
		return err
	}
	c.st.clip = nil
	return nil
}

// Save pushes the current style, transform and clip.
func (c *Context) Save() error {
	if err := c.check(); err != nil {
		return err
	}
	c.stack = append(c.stack, c.st)
	return nil
}

// Restore pops the state pushed by the matching Save.
// Without one it returns ErrUnbalancedState and changes nothing.
func (c *Context) Restore() error {
	if err := c.check(); err != nil {
		return err
	}
	n := len(c.stack)
	if n == 0 {
		return ErrUnbalancedState
	}
	c.st = c.stack[n-1]
	c.stack = c.stack[:n-1]
	return nil
}

// SaveDepth returns the number of saved states.
func (c *Context) SaveDepth() int {
	return len(c.stack)
}

// SetLineWidth sets the stroke width in user space units.
func (c *Context) SetLineWidth(w float64) error {
	if err := c.check(); err != nil {
		return err
	}
	if !(w >= 0) || math.IsInf(w, 0) {
		return invalid("line width %v", w)
	}
	c.st.lineWidth = w
	return nil
}

// LineWidth returns the stroke width.
func (c *Context) LineWidth() float64 { return c.st.lineWidth }

// SetLineCap sets the shape of open stroke ends.
func (c *Context) SetLineCap(lc scene.LineCap) error {
	if err := c.check(); err != nil {
		return err
	}
	if lc > scene.LineCapSquare {
		return invalid("line cap %d", lc)
	}
	c.st.lineCap = lc
	return nil
}

// LineCap returns the stroke end shape.
func (c *Context) LineCap() scene.LineCap { return c.st.lineCap }

// SetLineJoin sets the shape of stroke corners.
func (c *Context) SetLineJoin(lj scene.LineJoin) error {
	if err := c.check(); err != nil {
		return err
	}
	if lj > scene.LineJoinBevel {
		return invalid("line join %d", lj)
	}
	c.st.lineJoin = lj
	return nil
}

// LineJoin returns the stroke corner shape.
func (c *Context) LineJoin() scene.LineJoin { return c.st.lineJoin }

// SetMiterLimit sets the longest miter, as a multiple of the line width,
// drawn before a miter join falls back to a bevel. The limit must be
// finite and at least 1.
func (c *Context) SetMiterLimit(limit float64) error {
	if err := c.check(); err != nil {
		return err
	}
	if !(limit >= 1) || math.IsInf(limit, 0) {
		return invalid("miter limit %v", limit)
	}
	c.st.miterLimit = limit
	return nil
}

// MiterLimit returns the miter limit.
func (c *Context) MiterLimit() float64 { return c.st.miterLimit }

// SetFillColor sets the fill color.
func (c *Context) SetFillColor(col color.Color) error {
	if err := c.check(); err != nil {
		return err
	}
	c.st.fillColor = scene.Premul(col)
	return nil
}

// FillColor returns the premultiplied fill color, before global alpha.
func (c *Context) FillColor() color.RGBA { return c.st.fillColor }

// SetStrokeColor sets the stroke color.
func (c *Context) SetStrokeColor(col color.Color) error {
	if err := c.check(); err != nil {
		return err
	}
	c.st.strokeColor = scene.Premul(col)
	return nil
}

// StrokeColor returns the premultiplied stroke color, before global alpha.
func (c *Context) StrokeColor() color.RGBA { return c.st.strokeColor }

// SetGlobalAlpha sets an opacity in [0, 1] applied to both colors.
func (c *Context) SetGlobalAlpha(a float64) error {
	if err := c.check(); err != nil {
		return err
	}
	if !(a >= 0 && a <= 1) {
		return invalid("global alpha %v", a)
	}
	c.st.globalAlpha = a
	return nil
}

// GlobalAlpha returns the global opacity.
func (c *Context) GlobalAlpha() float64 { return c.st.globalAlpha }

// SetBlendMode sets the compositing mode.
func (c *Context) SetBlendMode(m scene.BlendMode) error {
	if err := c.check(); err != nil {
		return err
	}
	if m != scene.BlendSourceOver && m != scene.BlendCopy {
		return invalid("blend mode %d", m)
	}
	c.st.blend = m
	return nil
}

// BlendMode returns the compositing mode.
func (c *Context) BlendMode() scene.BlendMode { return c.st.blend }

// SetFontSize sets the text size in pixels, at most text.MaxSize.
func (c *Context) SetFontSize(size float64) error {
	if err := c.check(); err != nil {
		return err
	}
	if !text.ValidSize(size) {
		return invalid("font size %v", size)
	}
	c.st.fontSize = size
	return nil
}

// FontSize returns the text size.
func (c *Context) FontSize() float64 { return c.st.fontSize }

// SetTransform replaces the current transform.
func (c *Context) SetTransform(m geom.Transform) error {
	if err := c.check(); err != nil {
		return err
	}
	if !m.IsFinite() {
		return invalid("non-finite transform %+v", m)
	}
	c.st.transform = m
	return nil
}

// Transform returns the current transform.
func (c *Context) Transform() geom.Transform { return c.st.transform }

// ResetTransform restores the identity transform.
func (c *Context) ResetTransform() error {
	return c.SetTransform(geom.Identity())
}

// Translate applies a translation before the current transform.
func (c *Context) Translate(x, y float64) error {
	return c.SetTransform(c.st.transform.Multiply(geom.Translate(x, y)))
}

// Scale applies a scale before the current transform.
func (c *Context) Scale(x, y float64) error {
	return c.SetTransform(c.st.transform.Multiply(geom.Scale(x, y)))
}

// Rotate applies a rotation (radians) before the current transform.
func (c *Context) Rotate(angle float64) error {
	return c.SetTransform(c.st.transform.Multiply(geom.Rotate(angle)))
}

// IntoScene returns the recorded scene. The Context gives up the scene:
// every later mutating call returns ErrConsumed.
func (c *Context) IntoScene() (*scene.Scene, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	c.consumed = true
	s := c.scene
	c.scene = scene.New(s.Size())
	c.stack = nil
	return s, nil
}
