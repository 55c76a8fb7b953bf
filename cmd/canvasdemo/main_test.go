package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/resource"
	"github.com/gogpu/canvas/text"
)

func TestDrawHouse(t *testing.T) {
	fonts, err := text.LoadCollection(resource.Embedded{}, "fonts/GoRegular.ttf")
	if err != nil {
		t.Fatal(err)
	}
	c := canvas.New(geom.V(640, 480), canvas.WithFontSource(fonts))
	if err := drawHouse(c); err != nil {
		t.Fatalf("drawHouse() error = %v", err)
	}
	// Walls, door, roof and caption.
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
}

func TestRunSoftware(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "house.png")
	if err := run(320, 280, out, "software", dir, "", "off"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 280 {
		t.Errorf("image bounds = %v, want 320x280", b)
	}
	// The door is filled black on the default white background.
	if r, g, b, _ := img.At(150, 220).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("door pixel = %v, want black", img.At(150, 220))
	}
	if r, _, _, _ := img.At(5, 5).RGBA(); r != 0xffff {
		t.Errorf("background pixel = %v, want white", img.At(5, 5))
	}
}

func TestRunUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	if err := run(10, 10, filepath.Join(dir, "x.png"), "plotter", dir, "", ""); err == nil {
		t.Error("run() with unknown backend succeeded")
	}
}
