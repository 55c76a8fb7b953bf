// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas/device"
)

// ErrDrawableBusy is returned by Acquire while a drawable is outstanding.
var ErrDrawableBusy = errors.New("gpu: drawable already acquired")

// TextureSurface is an offscreen surface backed by one device texture.
// Presenting a drawable reads the texture back into host memory.
type TextureSurface struct {
	dev *Device
	tex *Texture

	mu        sync.Mutex
	img       *image.RGBA
	acquired  bool
	presented int
}

// NewTextureSurface creates a width x height RGBA surface on dev.
func NewTextureSurface(dev *Device, width, height int) (*TextureSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, device.Errorf(Backend, "create surface", "%w: empty %dx%d surface", device.ErrInvalidCommand, width, height)
	}
	t, err := dev.CreateTexture(device.TextureDescriptor{
		Label:  "canvas_surface",
		Width:  uint32(width),
		Height: uint32(height),
		Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		return nil, err
	}
	return &TextureSurface{
		dev: dev,
		tex: t.(*Texture),
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Size implements device.Surface.
func (s *TextureSurface) Size() (width, height int) {
	return int(s.tex.width), int(s.tex.height)
}

// Format implements device.Surface.
func (s *TextureSurface) Format() gputypes.TextureFormat { return s.tex.format }

// Acquire implements device.Surface.
func (s *TextureSurface) Acquire() (device.Drawable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquired {
		return nil, fmt.Errorf("%w: %w", device.ErrPresentation, ErrDrawableBusy)
	}
	s.acquired = true
	return &textureDrawable{surface: s}, nil
}

// Image returns the last presented frame.
func (s *TextureSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Presented returns the number of frames presented.
func (s *TextureSurface) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// Destroy releases the texture.
func (s *TextureSurface) Destroy() { s.tex.Destroy() }

type textureDrawable struct {
	surface *TextureSurface
	done    bool
}

func (d *textureDrawable) Texture() device.Texture { return d.surface.tex }

func (d *textureDrawable) Present() error {
	s := d.surface
	if d.done {
		return errors.New("gpu: drawable already released")
	}
	d.done = true
	img, err := s.dev.ReadPixels(s.tex)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired = false
	if err != nil {
		return err
	}
	s.img = img
	s.presented++
	return nil
}

func (d *textureDrawable) Discard() {
	if d.done {
		return
	}
	d.done = true
	s := d.surface
	s.mu.Lock()
	s.acquired = false
	s.mu.Unlock()
}

// ViewSurface adapts a host swapchain to device.Surface. The host
// supplies the texture view of each frame and presents it itself.
type ViewSurface struct {
	// AcquireFunc returns the next frame, usually built with WrapTexture.
	AcquireFunc func() (*Texture, error)
	// PresentFunc hands the frame back to the host.
	PresentFunc func(*Texture) error
	// DiscardFunc is called for frames that are not presented. Optional.
	DiscardFunc func(*Texture)

	Width, Height int
	TextureFormat gputypes.TextureFormat
}

// Size implements device.Surface.
func (s *ViewSurface) Size() (width, height int) { return s.Width, s.Height }

// Format implements device.Surface.
func (s *ViewSurface) Format() gputypes.TextureFormat { return s.TextureFormat }

// Acquire implements device.Surface.
func (s *ViewSurface) Acquire() (device.Drawable, error) {
	if s.AcquireFunc == nil {
		return nil, fmt.Errorf("%w: no acquire func", device.ErrPresentation)
	}
	tex, err := s.AcquireFunc()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", device.ErrPresentation, err)
	}
	return &viewDrawable{surface: s, tex: tex}, nil
}

type viewDrawable struct {
	surface *ViewSurface
	tex     *Texture
	done    bool
}

func (d *viewDrawable) Texture() device.Texture { return d.tex }

func (d *viewDrawable) Present() error {
	if d.done {
		return errors.New("gpu: drawable already released")
	}
	d.done = true
	if d.surface.PresentFunc == nil {
		return nil
	}
	return d.surface.PresentFunc(d.tex)
}

func (d *viewDrawable) Discard() {
	if d.done {
		return
	}
	d.done = true
	if d.surface.DiscardFunc != nil {
		d.surface.DiscardFunc(d.tex)
	}
}

var (
	_ device.Surface = (*TextureSurface)(nil)
	_ device.Surface = (*ViewSurface)(nil)
)
