package text

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/path"
)

// ErrNoFonts is returned by a Collection without fonts.
var ErrNoFonts = errors.New("text: no fonts")

// Font is a parsed font file.
// It keeps both the sfnt view (outlines, advances, metrics) and the
// go-text view (shaping). Font is safe for concurrent use.
type Font struct {
	name string
	sf   *sfnt.Font
	gt   *gtfont.Font

	bufs sync.Pool
}

// ParseFont parses TrueType or OpenType data.
func ParseFont(name string, data []byte) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse %s: %w", name, err)
	}
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse %s for shaping: %w", name, err)
	}
	f := &Font{name: name, sf: sf, gt: face.Font}
	f.bufs.New = func() any { return new(sfnt.Buffer) }
	return f, nil
}

// Name returns the name the font was parsed under.
func (f *Font) Name() string {
	return f.name
}

func (f *Font) buffer() *sfnt.Buffer {
	return f.bufs.Get().(*sfnt.Buffer)
}

func (f *Font) release(b *sfnt.Buffer) {
	f.bufs.Put(b)
}

// GlyphIndex returns the glyph for r, or 0 when the font has none.
func (f *Font) GlyphIndex(r rune) sfnt.GlyphIndex {
	buf := f.buffer()
	defer f.release(buf)
	gi, err := f.sf.GlyphIndex(buf, r)
	if err != nil {
		return 0
	}
	return gi
}

// HasGlyph reports whether the font maps r to a glyph.
func (f *Font) HasGlyph(r rune) bool {
	return f.GlyphIndex(r) != 0
}

// Metrics returns the font's vertical metrics at size pixels per em.
func (f *Font) Metrics(size float64) Metrics {
	buf := f.buffer()
	defer f.release(buf)
	m, err := f.sf.Metrics(buf, toFixed(size), font.HintingNone)
	if err != nil {
		return Metrics{}
	}
	return Metrics{
		Ascent:  fromFixed(m.Ascent),
		Descent: fromFixed(m.Descent),
		Height:  fromFixed(m.Height),
	}
}

// appendGlyph appends the outline of gi, scaled to size and placed with its
// origin at o, to b. Outline y grows downward.
func (f *Font) appendGlyph(b *path.Builder, gi sfnt.GlyphIndex, size float64, o geom.Vec2) error {
	buf := f.buffer()
	defer f.release(buf)

	segs, err := f.sf.LoadGlyph(buf, gi, toFixed(size), nil)
	if err != nil {
		return fmt.Errorf("text: glyph %d of %s: %w", gi, f.name, err)
	}
	pt := func(p fixed.Point26_6) geom.Vec2 {
		return geom.V(o.X+fromFixed(p.X), o.Y+fromFixed(p.Y))
	}
	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				b.ClosePath()
			}
			b.MoveTo(pt(s.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			b.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			b.QuadTo(pt(s.Args[0]), pt(s.Args[1]))
		case sfnt.SegmentOpCubeTo:
			b.CubicTo(pt(s.Args[0]), pt(s.Args[1]), pt(s.Args[2]))
		}
	}
	if open {
		b.ClosePath()
	}
	return b.Err()
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
