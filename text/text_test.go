package text

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/gogpu/canvas/resource"
)

func goCollection(t *testing.T) *Collection {
	t.Helper()
	c, err := LoadCollection(resource.Embedded{}, "fonts/GoRegular.ttf", "fonts/GoMono.ttf")
	if err != nil {
		t.Fatalf("LoadCollection() error = %v", err)
	}
	return c
}

func TestOutline(t *testing.T) {
	c := goCollection(t)
	p, m, err := c.Outline("Hello", 32)
	if err != nil {
		t.Fatalf("Outline() error = %v", err)
	}
	if p.IsEmpty() {
		t.Fatal("Outline() returned an empty path")
	}
	b := p.Bounds()
	if b.MinY() >= 0 {
		t.Errorf("glyphs should rise above the baseline, bounds = %+v", b)
	}
	if b.MaxX() > m.Advance+1 || b.MinX() < -1 {
		t.Errorf("bounds %+v outside advance %v", b, m.Advance)
	}
	if m.Advance <= 0 || m.Ascent <= 0 || m.Height <= 0 {
		t.Errorf("Metrics = %+v, want positive values", m)
	}
	for _, pl := range p.Flatten(0.5) {
		if !pl.Closed {
			t.Fatal("glyph contours must be closed")
		}
	}
}

func TestShapersAgree(t *testing.T) {
	c := goCollection(t)
	hb, err := c.Measure("Canvas", 20)
	if err != nil {
		t.Fatal(err)
	}
	simple, err := c.WithShaper(SimpleShaper{}).Measure("Canvas", 20)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(hb.Advance-simple.Advance) > 2 {
		t.Errorf("advance harfbuzz = %v, simple = %v", hb.Advance, simple.Advance)
	}
}

func TestOutlineErrors(t *testing.T) {
	c := goCollection(t)
	tests := []struct {
		name    string
		c       *Collection
		s       string
		size    float64
		wantErr error
	}{
		{"empty text", c, "", 12, ErrEmptyText},
		{"no fonts", NewCollection(), "a", 12, ErrNoFonts},
		{"zero size", c, "a", 0, ErrInvalidSize},
		{"NaN size", c, "a", math.NaN(), ErrInvalidSize},
		{"size past fixed point range", c, "a", 4e7, ErrInvalidSize},
		{"infinite size", c, "a", math.Inf(1), ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.c.Outline(tt.s, tt.size); !errors.Is(err, tt.wantErr) {
				t.Errorf("Outline() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if _, err := c.Measure("a", MaxSize+1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Measure() error = %v, want ErrInvalidSize", err)
	}
	if _, _, err := c.Outline("a", MaxSize); err != nil {
		t.Errorf("Outline() at MaxSize error = %v", err)
	}
}

func TestLoadCollectionMissing(t *testing.T) {
	_, err := LoadCollection(resource.Embedded{}, "fonts/Roboto-Regular.ttf")
	if !errors.Is(err, resource.ErrNotFound) {
		t.Errorf("error = %v, want resource.ErrNotFound", err)
	}
	if _, err := LoadCollection(resource.Embedded{}); !errors.Is(err, ErrNoFonts) {
		t.Errorf("error = %v, want ErrNoFonts", err)
	}
}

func TestBidiRuns(t *testing.T) {
	s := "abc שלום"
	n := len([]rune(s))
	runs := bidiRuns(s, n)
	covered := 0
	hasRTL := false
	for _, r := range runs {
		covered += r.end - r.start
		hasRTL = hasRTL || r.rtl
	}
	if covered != n {
		t.Errorf("runs cover %d runes, want %d", covered, n)
	}
	if !hasRTL {
		t.Errorf("runs = %+v, want a right-to-left run", runs)
	}

	ltr := bidiRuns("plain", 5)
	if len(ltr) != 1 || ltr[0].rtl {
		t.Errorf("bidiRuns(plain) = %+v, want one LTR run", ltr)
	}
}

func TestConcurrentOutline(t *testing.T) {
	c := goCollection(t)
	want, _, err := c.Outline("Concurrent", 18)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _, err := c.Outline("Concurrent", 18)
			if err != nil {
				t.Error(err)
				return
			}
			if !got.Equal(want) {
				t.Error("concurrent Outline produced a different path")
			}
		}()
	}
	wg.Wait()
}

func TestOutlineCache(t *testing.T) {
	c := goCollection(t)
	first, _, err := c.Outline("cached", 16)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := c.Outline("cached", 16)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("repeated Outline should return the cached path")
	}
	other, _, err := c.Outline("cached", 24)
	if err != nil {
		t.Fatal(err)
	}
	if other == first {
		t.Error("a different size must not share the cached path")
	}
	s := c.CacheStats()
	if s.Len != 2 || s.Hits != 1 {
		t.Errorf("CacheStats() = %+v, want 2 entries and 1 hit", s)
	}
	if c.WithShaper(SimpleShaper{}).CacheStats().Len != 0 {
		t.Error("WithShaper should start with an empty cache")
	}
}
