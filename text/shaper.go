package text

import (
	"slices"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
)

// Glyph is one positioned glyph of a shaped run.
// X and Y are offsets from the run's pen origin, in pixels, y up.
type Glyph struct {
	Index   sfnt.GlyphIndex
	X, Y    float64
	Advance float64
	// Cluster is the rune index in the run the glyph came from.
	Cluster int
}

// Shaper converts a run of runes in a single font and direction to glyphs.
// Glyphs are returned in visual (left to right) order.
type Shaper interface {
	Shape(f *Font, runes []rune, size float64, rtl bool) []Glyph
}

// HarfbuzzShaper shapes with go-text/typesetting's HarfBuzz port:
// ligatures, kerning, mark positioning and complex scripts.
// It is safe for concurrent use.
type HarfbuzzShaper struct {
	pool sync.Pool
}

// NewHarfbuzzShaper returns a HarfbuzzShaper.
func NewHarfbuzzShaper() *HarfbuzzShaper {
	return &HarfbuzzShaper{
		pool: sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }},
	}
}

// Shape implements Shaper.
func (s *HarfbuzzShaper) Shape(f *Font, runes []rune, size float64, rtl bool) []Glyph {
	if len(runes) == 0 {
		return nil
	}
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		// font.Face is not safe for concurrent use; one per call.
		Face:     gtfont.NewFace(f.gt),
		Size:     toFixed(size),
		Script:   detectScript(runes),
		Language: language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	glyphs := make([]Glyph, len(out.Glyphs))
	var x float64
	for i, g := range out.Glyphs {
		adv := fromFixed(g.Advance)
		glyphs[i] = Glyph{
			Index:   sfnt.GlyphIndex(uint16(g.GlyphID)), //nolint:gosec // TrueType glyph ids are 16 bit
			X:       x + fromFixed(g.XOffset),
			Y:       fromFixed(g.YOffset),
			Advance: adv,
			Cluster: g.TextIndex(),
		}
		x += adv
	}
	return glyphs
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// SimpleShaper maps each rune to one glyph using the cmap, sfnt advances
// and the kern table. It does no substitution.
type SimpleShaper struct{}

// Shape implements Shaper.
func (SimpleShaper) Shape(f *Font, runes []rune, size float64, rtl bool) []Glyph {
	if len(runes) == 0 {
		return nil
	}
	order := make([]int, len(runes))
	for i := range order {
		order[i] = i
	}
	if rtl {
		slices.Reverse(order)
	}

	buf := f.buffer()
	defer f.release(buf)
	ppem := toFixed(size)

	glyphs := make([]Glyph, 0, len(runes))
	var x float64
	prev := sfnt.GlyphIndex(0)
	for _, ri := range order {
		gi, err := f.sf.GlyphIndex(buf, runes[ri])
		if err != nil {
			gi = 0
		}
		if prev != 0 && gi != 0 {
			if k, err := f.sf.Kern(buf, prev, gi, ppem, font.HintingNone); err == nil {
				x += fromFixed(k)
			}
		}
		adv, err := f.sf.GlyphAdvance(buf, gi, ppem, font.HintingNone)
		if err != nil {
			adv = 0
		}
		glyphs = append(glyphs, Glyph{Index: gi, X: x, Advance: fromFixed(adv), Cluster: ri})
		x += fromFixed(adv)
		prev = gi
	}
	return glyphs
}

var (
	_ Shaper = (*HarfbuzzShaper)(nil)
	_ Shaper = SimpleShaper{}
)
