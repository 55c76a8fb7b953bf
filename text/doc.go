// Package text turns strings into glyph outline paths.
//
// A Collection is an ordered list of fonts with per-rune fallback. It
// implements Source, the capability the canvas consumes for FillText and
// StrokeText. Shaping is delegated to a Shaper: HarfbuzzShaper (the default,
// backed by go-text/typesetting) or SimpleShaper (sfnt advances and kerning).
// Mixed-direction text is split into bidi runs with golang.org/x/text.
//
// Collections are read-only after construction and safe for concurrent use.
package text
