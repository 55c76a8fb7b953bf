package text

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/internal/cache"
	"github.com/gogpu/canvas/path"
	"github.com/gogpu/canvas/resource"
)

// ErrEmptyText is returned when asked to outline an empty string.
var ErrEmptyText = errors.New("text: empty text")

// ErrInvalidSize is returned for sizes outside (0, MaxSize].
var ErrInvalidSize = errors.New("text: invalid size")

// MaxSize is the largest supported size in pixels per em. sfnt scales
// font units by the 26.6 size in int32, which overflows for large sizes
// on fonts with up to 8192 units per em.
const MaxSize = 4096

// ValidSize reports whether size is in (0, MaxSize].
func ValidSize(size float64) bool {
	return size > 0 && size <= MaxSize
}

// Metrics describes laid out text, in pixels.
type Metrics struct {
	// Advance is the total horizontal advance of the text.
	Advance float64
	Ascent  float64
	Descent float64
	Height  float64
}

// Source resolves text to glyph outlines.
type Source interface {
	// Outline returns the outlines of s laid out on a baseline through the
	// origin, with y growing downward.
	Outline(s string, size float64) (*path.Path, Metrics, error)
}

// OutlineCacheSize is the number of laid out strings a Collection keeps.
const OutlineCacheSize = 256

type outlineKey struct {
	s    string
	size float64
}

type outlined struct {
	p *path.Path
	m Metrics
}

// Collection is an ordered set of fonts. Each rune is drawn with the first
// font that has a glyph for it, or the first font when none does.
// Outlines are cached per string and size.
type Collection struct {
	fonts    []*Font
	shaper   Shaper
	outlines *cache.Cache[outlineKey, outlined]
}

// NewCollection returns a collection over fonts using a HarfbuzzShaper.
func NewCollection(fonts ...*Font) *Collection {
	return &Collection{
		fonts:    append([]*Font(nil), fonts...),
		shaper:   NewHarfbuzzShaper(),
		outlines: cache.New[outlineKey, outlined](OutlineCacheSize),
	}
}

// LoadCollection loads and parses the named fonts through l.
func LoadCollection(l resource.Loader, names ...string) (*Collection, error) {
	if len(names) == 0 {
		return nil, ErrNoFonts
	}
	fonts := make([]*Font, 0, len(names))
	for _, name := range names {
		data, err := l.LoadBytes(name)
		if err != nil {
			return nil, fmt.Errorf("text: load font: %w", err)
		}
		f, err := ParseFont(name, data)
		if err != nil {
			return nil, err
		}
		fonts = append(fonts, f)
	}
	return NewCollection(fonts...), nil
}

// WithShaper returns a copy of c that shapes with s.
func (c *Collection) WithShaper(s Shaper) *Collection {
	return &Collection{
		fonts:    c.fonts,
		shaper:   s,
		outlines: cache.New[outlineKey, outlined](OutlineCacheSize),
	}
}

// CacheStats returns the outline cache counters.
func (c *Collection) CacheStats() cache.Stats {
	return c.outlines.Stats()
}

// Fonts returns the fonts in fallback order.
func (c *Collection) Fonts() []*Font {
	return append([]*Font(nil), c.fonts...)
}

// fontFor picks the font for r.
func (c *Collection) fontFor(r rune) int {
	for i, f := range c.fonts {
		if f.HasGlyph(r) {
			return i
		}
	}
	return 0
}

// run is a span of runes shaped with one font in one direction.
type run struct {
	runes []rune
	font  int
	rtl   bool
}

// runs splits s into visual-order runs by bidi direction, then by font.
func (c *Collection) runs(s string) []run {
	all := []rune(s)
	var out []run
	for _, dr := range bidiRuns(s, len(all)) {
		var sub []run
		seg := all[dr.start:dr.end]
		start := 0
		for i := 1; i <= len(seg); i++ {
			if i < len(seg) && c.fontFor(seg[i]) == c.fontFor(seg[start]) {
				continue
			}
			sub = append(sub, run{runes: seg[start:i], font: c.fontFor(seg[start]), rtl: dr.rtl})
			start = i
		}
		if dr.rtl {
			// Logical order within a right-to-left run is right to left on screen.
			for i, j := 0, len(sub)-1; i < j; i, j = i+1, j-1 {
				sub[i], sub[j] = sub[j], sub[i]
			}
		}
		out = append(out, sub...)
	}
	return out
}

type dirRun struct {
	start, end int
	rtl        bool
}

// bidiRuns returns the directional runs of s in visual order.
// Text that the bidi algorithm rejects is treated as one left-to-right run.
func bidiRuns(s string, n int) []dirRun {
	fallback := []dirRun{{start: 0, end: n}}
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return fallback
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return fallback
	}
	runs := make([]dirRun, 0, ordering.NumRuns())
	for i := range ordering.NumRuns() {
		r := ordering.Run(i)
		start, end := r.Pos()
		if start < 0 || end >= n || start > end {
			return fallback
		}
		runs = append(runs, dirRun{start: start, end: end + 1, rtl: r.Direction() == bidi.RightToLeft})
	}
	return runs
}

// Outline implements Source.
func (c *Collection) Outline(s string, size float64) (*path.Path, Metrics, error) {
	if len(c.fonts) == 0 {
		return nil, Metrics{}, ErrNoFonts
	}
	if s == "" {
		return nil, Metrics{}, ErrEmptyText
	}
	if !ValidSize(size) {
		return nil, Metrics{}, fmt.Errorf("%w %v", ErrInvalidSize, size)
	}
	o, err := c.outlines.GetOrCreate(outlineKey{s: s, size: size}, func() (outlined, error) {
		return c.layout(s, size)
	})
	if err != nil {
		return nil, Metrics{}, err
	}
	return o.p, o.m, nil
}

func (c *Collection) layout(s string, size float64) (outlined, error) {
	b := path.NewBuilder()
	var pen float64
	for _, r := range c.runs(s) {
		f := c.fonts[r.font]
		glyphs := c.shaper.Shape(f, r.runes, size, r.rtl)
		for _, g := range glyphs {
			if g.Index == 0 {
				continue
			}
			origin := geom.V(pen+g.X, -g.Y)
			if err := f.appendGlyph(b, g.Index, size, origin); err != nil {
				return outlined{}, err
			}
		}
		pen += runAdvance(glyphs)
	}
	p, err := b.Build()
	if err != nil {
		return outlined{}, err
	}
	m := c.fonts[0].Metrics(size)
	m.Advance = pen
	return outlined{p: p, m: m}, nil
}

// Measure returns the metrics of s without building outlines.
func (c *Collection) Measure(s string, size float64) (Metrics, error) {
	if len(c.fonts) == 0 {
		return Metrics{}, ErrNoFonts
	}
	if !ValidSize(size) {
		return Metrics{}, fmt.Errorf("%w %v", ErrInvalidSize, size)
	}
	var pen float64
	for _, r := range c.runs(s) {
		pen += runAdvance(c.shaper.Shape(c.fonts[r.font], r.runes, size, r.rtl))
	}
	m := c.fonts[0].Metrics(size)
	m.Advance = pen
	return m, nil
}

func runAdvance(glyphs []Glyph) float64 {
	var adv float64
	for _, g := range glyphs {
		adv += g.Advance
	}
	return adv
}

var _ Source = (*Collection)(nil)
