// Command canvasdemo draws a house with a caption and writes it to a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/backend"
	"github.com/gogpu/canvas/build"
	"github.com/gogpu/canvas/config"
	"github.com/gogpu/canvas/device"
	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/path"
	"github.com/gogpu/canvas/render"
	"github.com/gogpu/canvas/resource"
	"github.com/gogpu/canvas/text"
)

func main() {
	var (
		width     = flag.Int("width", 640, "image width")
		height    = flag.Int("height", 480, "image height")
		output    = flag.String("output", "canvasdemo.png", "output file")
		backendFl = flag.String("backend", "", "device backend (overrides canvas.yaml)")
		configDir = flag.String("config", ".", "directory holding canvas.yaml")
		fontDir   = flag.String("fonts", "", "directory searched for fonts before the embedded ones")
		aa        = flag.String("aa", "", "antialiasing: analytic, off or multisample (overrides canvas.yaml)")
	)
	flag.Parse()

	if err := run(*width, *height, *output, *backendFl, *configDir, *fontDir, *aa); err != nil {
		log.Fatalf("canvasdemo: %v", err)
	}
}

func run(width, height int, output, backendName, configDir, fontDir, aa string) error {
	cfg, err := config.LoadOptional(configDir)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	canvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts, err := cfg.BuildOptions()
	if err != nil {
		return err
	}
	if aa != "" {
		mode, ok := build.ParseAAMode(aa)
		if !ok {
			return fmt.Errorf("unknown antialiasing mode %q", aa)
		}
		opts.Antialias = mode
	}
	exec, err := cfg.Executor()
	if err != nil {
		return err
	}
	if p, ok := exec.(*build.Pool); ok {
		defer p.Close()
	}

	fonts, err := text.LoadCollection(resource.Default(fontDir), "fonts/GoRegular.ttf", "fonts/GoBold.ttf")
	if err != nil {
		return err
	}
	c := canvas.New(geom.V(float64(width), float64(height)), canvas.WithFontSource(fonts), canvas.WithFontSize(28))
	if err := drawHouse(c); err != nil {
		return err
	}
	s, err := c.IntoScene()
	if err != nil {
		return err
	}

	if backendName == "" {
		backendName = cfg.Backend
	}
	dev, name, err := openDevice(backendName)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	surface, snapshot, release, err := newSurface(dev, width, height)
	if err != nil {
		return err
	}
	defer release()

	r := render.New(dev, render.Options{Executor: exec})
	frame, err := r.Render(context.Background(), s, surface, opts)
	if err != nil {
		return err
	}
	for _, w := range frame.Warnings {
		canvas.Logger().Warn("entry skipped", "err", w)
	}
	if err := writePNG(output, snapshot()); err != nil {
		return err
	}
	log.Printf("Demo saved to %s (%dx%d, %s, %d draws, %v)", output, width, height, name, frame.Batches, frame.Durations.Total())
	return nil
}

func openDevice(name string) (device.Device, string, error) {
	if name == "" {
		return backend.Default()
	}
	dev, err := backend.Get(name)
	return dev, name, err
}

// drawHouse draws walls, a door, a roof and a caption.
func drawHouse(c *canvas.Context) error {
	if err := c.SetLineWidth(10); err != nil {
		return err
	}
	// Walls.
	if err := c.StrokeRect(geom.NewRect(75, 140, 150, 110)); err != nil {
		return err
	}
	// Door.
	if err := c.FillRect(geom.NewRect(130, 190, 40, 60)); err != nil {
		return err
	}
	// Roof.
	roof, err := path.NewBuilder().
		MoveTo(geom.V(50, 140)).
		LineTo(geom.V(150, 60)).
		LineTo(geom.V(250, 140)).
		ClosePath().
		Build()
	if err != nil {
		return err
	}
	if err := c.StrokePath(roof); err != nil {
		return err
	}

	if err := c.SetFillColor(color.RGBA{R: 0x20, G: 0x40, B: 0x90, A: 0xff}); err != nil {
		return err
	}
	return c.FillText("Home, sweet home", geom.V(300, 200))
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
