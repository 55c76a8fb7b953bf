// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/canvas/device"
)

// ErrDrawableBusy is returned by Acquire while a drawable is outstanding.
var ErrDrawableBusy = errors.New("software: drawable already acquired")

// ImageSurface is a double-buffered in-memory surface.
// Drawables render into a back buffer; Present copies it to the front image.
type ImageSurface struct {
	mu        sync.Mutex
	front     *image.RGBA
	back      *image.RGBA
	acquired  bool
	presented int
}

// NewImageSurface creates a surface of the given size.
func NewImageSurface(width, height int) *ImageSurface {
	r := image.Rect(0, 0, width, height)
	return &ImageSurface{front: image.NewRGBA(r), back: image.NewRGBA(r)}
}

// Size implements device.Surface.
func (s *ImageSurface) Size() (width, height int) {
	b := s.front.Bounds()
	return b.Dx(), b.Dy()
}

// Format implements device.Surface.
func (s *ImageSurface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Acquire implements device.Surface.
func (s *ImageSurface) Acquire() (device.Drawable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquired {
		return nil, fmt.Errorf("%w: %w", device.ErrPresentation, ErrDrawableBusy)
	}
	s.acquired = true
	return &imageDrawable{surface: s, tex: NewTexture(s.back)}, nil
}

// Image returns the last presented frame. The image becomes the back buffer
// again on the next Acquire; use Snapshot to keep a frame.
func (s *ImageSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.front
}

// Snapshot returns a copy of the last presented frame.
func (s *ImageSurface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := image.NewRGBA(s.front.Bounds())
	draw.Copy(out, image.Point{}, s.front, s.front.Bounds(), draw.Src, nil)
	return out
}

// Presented returns the number of frames presented.
func (s *ImageSurface) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

type imageDrawable struct {
	surface *ImageSurface
	tex     *Texture
	done    bool
}

func (d *imageDrawable) Texture() device.Texture { return d.tex }

func (d *imageDrawable) Present() error {
	s := d.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.done {
		return fmt.Errorf("software: drawable already released")
	}
	d.done = true
	s.front, s.back = s.back, s.front
	s.acquired = false
	s.presented++
	return nil
}

func (d *imageDrawable) Discard() {
	s := d.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.done {
		return
	}
	d.done = true
	s.acquired = false
}

var _ device.Surface = (*ImageSurface)(nil)
