// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software implements device.Device on the CPU.
//
// Coverage is rasterized with golang.org/x/image/vector and composited with
// golang.org/x/image/draw. The fan triangles of a draw are accumulated in one
// rasterizer pass, so the signed area sum gives nonzero winding coverage.
package software

import (
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/canvas/device"
)

// Backend is the registry name of this device.
const Backend = "software"

// Device is a CPU rasterizer.
// Device is safe for concurrent use; Submit calls are serialized.
type Device struct {
	mu        sync.Mutex
	raster    vector.Rasterizer
	destroyed bool
}

// New returns a software device.
func New() *Device {
	return &Device{}
}

// Info implements device.Device.
func (d *Device) Info() device.Info {
	return device.Info{
		Backend:      Backend,
		Name:         "CPU (x/image/vector)",
		SampleCounts: []uint32{1, 4},
		Formats:      []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm},
	}
}

func (d *Device) alive(op string) error {
	if d.destroyed {
		return device.NewError(Backend, op, device.ErrDestroyed)
	}
	return nil
}

// CreateBuffer implements device.Device.
func (d *Device) CreateBuffer(desc device.BufferDescriptor) (device.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.alive("create buffer"); err != nil {
		return nil, err
	}
	if desc.Size > maxBufferSize {
		return nil, device.Errorf(Backend, "create buffer", "%w: %d bytes", device.ErrOutOfMemory, desc.Size)
	}
	return &Buffer{data: make([]byte, desc.Size)}, nil
}

// CreateTexture implements device.Device.
func (d *Device) CreateTexture(desc device.TextureDescriptor) (device.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.alive("create texture"); err != nil {
		return nil, err
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		return nil, device.Errorf(Backend, "create texture", "%w: %v", device.ErrUnsupportedFormat, desc.Format)
	}
	if uint64(desc.Width)*uint64(desc.Height)*4 > maxBufferSize {
		return nil, device.Errorf(Backend, "create texture", "%w: %dx%d", device.ErrOutOfMemory, desc.Width, desc.Height)
	}
	return NewTexture(image.NewRGBA(image.Rect(0, 0, int(desc.Width), int(desc.Height)))), nil
}

// maxBufferSize bounds a single allocation.
const maxBufferSize = 1 << 30

// Submit implements device.Device.
func (d *Device) Submit(cl *device.CommandList) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.alive("submit"); err != nil {
		return err
	}
	if cl == nil {
		return device.Errorf(Backend, "submit", "%w: nil command list", device.ErrInvalidCommand)
	}
	if err := cl.Validate(); err != nil {
		return device.NewError(Backend, "submit", err)
	}
	tex, ok := cl.Target.(*Texture)
	if !ok {
		return device.Errorf(Backend, "submit", "%w: target %T is not a software texture", device.ErrInvalidCommand, cl.Target)
	}
	var verts []byte
	if len(cl.Draws) > 0 {
		buf, ok := cl.Vertices.(*Buffer)
		if !ok {
			return device.Errorf(Backend, "submit", "%w: buffer %T is not a software buffer", device.ErrInvalidCommand, cl.Vertices)
		}
		verts = buf.data
	}

	dst := tex.img
	clear := clearColor(cl.Clear)
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: clear}, image.Point{}, draw.Src)

	scissor := cl.ScissorRect(dst.Bounds().Dx(), dst.Bounds().Dy()).Add(dst.Rect.Min)
	if scissor.Empty() {
		return nil
	}
	cov := image.NewAlpha(dst.Bounds())
	clipMask := image.NewAlpha(dst.Bounds())
	for _, dr := range cl.Draws {
		d.coverage(cov, verts, dr.Fan)
		for _, c := range dr.Clips {
			d.coverage(clipMask, verts, c)
			intersect(cov, clipMask, scissor)
		}
		if !cl.Antialias {
			threshold(cov, scissor)
		}
		c := premulColor(dr.Color)
		if dr.Blend == device.BlendCopy {
			replace(dst, scissor, c, cov)
			continue
		}
		draw.DrawMask(dst, scissor, &image.Uniform{C: c}, image.Point{}, cov, scissor.Min, draw.Over)
	}
	return nil
}

// coverage rasterizes the triangle list r into mask, replacing its contents.
func (d *Device) coverage(mask *image.Alpha, verts []byte, r device.Range) {
	b := mask.Bounds()
	d.raster.Reset(b.Dx(), b.Dy())
	d.raster.DrawOp = draw.Src
	for i := r.First; i+2 < r.End(); i += 3 {
		v0 := device.DecodeVertex(verts, int(i))
		v1 := device.DecodeVertex(verts, int(i+1))
		v2 := device.DecodeVertex(verts, int(i+2))
		d.raster.MoveTo(v0.X, v0.Y)
		d.raster.LineTo(v1.X, v1.Y)
		d.raster.LineTo(v2.X, v2.Y)
		d.raster.ClosePath()
	}
	d.raster.Draw(mask, b, image.Opaque, image.Point{})
}

// intersect multiplies cov by clip inside r.
func intersect(cov, clip *image.Alpha, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ci := cov.PixOffset(r.Min.X, y)
		mi := clip.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			cov.Pix[ci+x] = uint8((uint16(cov.Pix[ci+x])*uint16(clip.Pix[mi+x]) + 127) / 255)
		}
	}
}

// replace writes c over dst where cov is set: dst = c*m + dst*(1-m).
// Pixels without coverage keep their value.
func replace(dst *image.RGBA, r image.Rectangle, c color.RGBA, cov *image.Alpha) {
	src := [4]uint32{uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		mi := cov.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			m := uint32(cov.Pix[mi+x])
			if m == 0 {
				continue
			}
			px := dst.Pix[di+4*x : di+4*x+4 : di+4*x+4]
			for k := range px {
				px[k] = uint8((src[k]*m + uint32(px[k])*(255-m) + 127) / 255)
			}
		}
	}
}

// threshold turns partial coverage into none or full.
func threshold(cov *image.Alpha, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := cov.Pix[cov.PixOffset(r.Min.X, y):cov.PixOffset(r.Max.X, y)]
		for i, a := range row {
			if a >= 0x80 {
				row[i] = 0xff
			} else {
				row[i] = 0
			}
		}
	}
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

func premulColor(c [4]float32) color.RGBA {
	return color.RGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: to8(c[3])}
}

func clearColor(c gputypes.Color) color.RGBA {
	return premulColor([4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)})
}

// Present implements device.Device.
func (d *Device) Present(dr device.Drawable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.alive("present"); err != nil {
		return err
	}
	if dr == nil {
		return device.Errorf(Backend, "present", "%w: nil drawable", device.ErrPresentation)
	}
	if err := dr.Present(); err != nil {
		return device.Errorf(Backend, "present", "%w: %w", device.ErrPresentation, err)
	}
	return nil
}

// Destroy implements device.Device. Later calls fail with device.ErrDestroyed.
func (d *Device) Destroy() {
	d.mu.Lock()
	d.destroyed = true
	d.mu.Unlock()
}

// Buffer is host memory.
type Buffer struct {
	data []byte
}

// Size implements device.Buffer.
func (b *Buffer) Size() uint64 { return uint64(len(b.data)) }

// Write implements device.Buffer.
func (b *Buffer) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return device.Errorf(Backend, "write buffer", "%w: %d bytes at %d exceed %d", device.ErrInvalidCommand, len(data), offset, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

// Destroy implements device.Buffer.
func (b *Buffer) Destroy() { b.data = nil }

// Texture wraps an *image.RGBA holding premultiplied pixels.
type Texture struct {
	img *image.RGBA
}

// NewTexture wraps img. The texture renders into img directly.
func NewTexture(img *image.RGBA) *Texture {
	return &Texture{img: img}
}

// Image returns the backing image.
func (t *Texture) Image() *image.RGBA { return t.img }

// Width implements device.Texture.
func (t *Texture) Width() uint32 { return uint32(t.img.Bounds().Dx()) } //nolint:gosec // image sizes are non-negative

// Height implements device.Texture.
func (t *Texture) Height() uint32 { return uint32(t.img.Bounds().Dy()) } //nolint:gosec // image sizes are non-negative

// Format implements device.Texture.
func (t *Texture) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// Destroy implements device.Texture.
func (t *Texture) Destroy() {}

var (
	_ device.Device  = (*Device)(nil)
	_ device.Buffer  = (*Buffer)(nil)
	_ device.Texture = (*Texture)(nil)
)
