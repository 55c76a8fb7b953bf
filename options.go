package canvas

import "github.com/gogpu/canvas/text"

// Option configures a Context during creation.
//
// Example:
//
//	fonts, _ := text.LoadCollection(resource.Embedded{}, "fonts/GoRegular.ttf")
//	c := canvas.New(geom.V(800, 600), canvas.WithFontSource(fonts), canvas.WithFontSize(24))
type Option func(*options)

type options struct {
	fonts    text.Source
	fontSize float64
}

func defaultOptions() options {
	return options{fontSize: 16}
}

// WithFontSource sets the font source used by FillText and StrokeText.
// The source is borrowed, not owned.
func WithFontSource(src text.Source) Option {
	return func(o *options) {
		o.fonts = src
	}
}

// WithFontSize sets the initial font size in pixels. Sizes outside
// (0, text.MaxSize] are ignored.
func WithFontSize(size float64) Option {
	return func(o *options) {
		if text.ValidSize(size) {
			o.fontSize = size
		}
	}
}
