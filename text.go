package canvas

import (
	"fmt"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/path"
	"github.com/gogpu/canvas/scene"
	"github.com/gogpu/canvas/text"
)

// FillText fills s with its baseline starting at pos.
func (c *Context) FillText(s string, pos geom.Vec2) error {
	return c.drawText(scene.OpFill, s, pos)
}

// StrokeText strokes the glyph outlines of s with its baseline starting at pos.
func (c *Context) StrokeText(s string, pos geom.Vec2) error {
	return c.drawText(scene.OpStroke, s, pos)
}

// MeasureText returns the metrics of s at the current font size.
func (c *Context) MeasureText(s string) (text.Metrics, error) {
	if err := c.check(); err != nil {
		return text.Metrics{}, err
	}
	if c.fonts == nil {
		return text.Metrics{}, ErrNoFontSource
	}
	_, m, err := c.fonts.Outline(s, c.st.fontSize)
	if err != nil {
		return text.Metrics{}, fmt.Errorf("canvas: measure text: %w", err)
	}
	return m, nil
}

func (c *Context) drawText(op scene.Op, s string, pos geom.Vec2) error {
	if err := c.check(); err != nil {
		return err
	}
	if s == "" {
		return invalid("empty text")
	}
	if !pos.IsFinite() {
		return invalid("non-finite text position %v", pos)
	}
	if c.fonts == nil {
		return ErrNoFontSource
	}
	outline, _, err := c.fonts.Outline(s, c.st.fontSize)
	if err != nil {
		return fmt.Errorf("canvas: text outline: %w", err)
	}
	var p *path.Path
	if pos == (geom.Vec2{}) {
		p = outline
	} else {
		p = outline.Transform(geom.Translate(pos.X, pos.Y))
	}
	c.push(op, p)
	return nil
}
