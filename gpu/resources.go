// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/canvas/device"
)

// Buffer is a vertex buffer. Writes go to a host copy; Submit converts the
// vertices to normalized device coordinates for the target size and
// uploads them.
type Buffer struct {
	device hal.Device
	raw    hal.Buffer
	shadow []byte
}

// Size implements device.Buffer.
func (b *Buffer) Size() uint64 { return uint64(len(b.shadow)) }

// Write implements device.Buffer.
func (b *Buffer) Write(offset uint64, data []byte) error {
	if b.raw == nil {
		return device.Errorf(Backend, "write buffer", "%w: buffer destroyed", device.ErrInvalidCommand)
	}
	if offset+uint64(len(data)) > uint64(len(b.shadow)) {
		return device.Errorf(Backend, "write buffer", "%w: %d bytes at %d exceed %d", device.ErrInvalidCommand, len(data), offset, len(b.shadow))
	}
	copy(b.shadow[offset:], data)
	return nil
}

// Destroy implements device.Buffer. It is safe to call multiple times.
func (b *Buffer) Destroy() {
	if b.raw != nil {
		b.device.DestroyBuffer(b.raw)
		b.raw = nil
	}
}

// Texture is a render target.
type Texture struct {
	device hal.Device
	raw    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
	format gputypes.TextureFormat
	// owned textures are destroyed by Destroy; borrowed ones are not.
	owned bool
}

// WrapTexture wraps a texture owned by the host, such as a swapchain
// image. Destroy leaves it alive.
func WrapTexture(raw hal.Texture, view hal.TextureView, width, height uint32, format gputypes.TextureFormat) *Texture {
	return &Texture{raw: raw, view: view, width: width, height: height, format: format}
}

// Width implements device.Texture.
func (t *Texture) Width() uint32 { return t.width }

// Height implements device.Texture.
func (t *Texture) Height() uint32 { return t.height }

// Format implements device.Texture.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Destroy implements device.Texture.
func (t *Texture) Destroy() {
	if !t.owned {
		return
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.raw != nil {
		t.device.DestroyTexture(t.raw)
		t.raw = nil
	}
}

// attachments are the per-size helper textures of a render pass:
// a multisampled color texture when samples > 1 and a stencil texture.
type attachments struct {
	width, height uint32
	format        gputypes.TextureFormat
	samples       uint32

	msaaTex     hal.Texture
	msaaView    hal.TextureView
	stencilTex  hal.Texture
	stencilView hal.TextureView
}

func (a *attachments) matches(w, h uint32, format gputypes.TextureFormat, samples uint32) bool {
	return a.stencilTex != nil && a.width == w && a.height == h && a.format == format && a.samples == samples
}

// ensure recreates the textures when the requested configuration differs.
func (a *attachments) ensure(dev hal.Device, w, h uint32, format gputypes.TextureFormat, samples uint32) error {
	if a.matches(w, h, format, samples) {
		return nil
	}
	a.destroy(dev)
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	if samples > 1 {
		tex, err := dev.CreateTexture(&hal.TextureDescriptor{
			Label:         "canvas_msaa_color",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     gputypes.TextureDimension2D,
			Format:        format,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("create MSAA color texture: %w", err)
		}
		a.msaaTex = tex
		view, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "canvas_msaa_color_view"})
		if err != nil {
			a.destroy(dev)
			return fmt.Errorf("create MSAA color view: %w", err)
		}
		a.msaaView = view
	}

	tex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "canvas_stencil",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        stencilFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		a.destroy(dev)
		return fmt.Errorf("create stencil texture: %w", err)
	}
	a.stencilTex = tex
	view, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "canvas_stencil_view"})
	if err != nil {
		a.destroy(dev)
		return fmt.Errorf("create stencil view: %w", err)
	}
	a.stencilView = view

	a.width, a.height, a.format, a.samples = w, h, format, samples
	return nil
}

func (a *attachments) destroy(dev hal.Device) {
	if a.stencilView != nil {
		dev.DestroyTextureView(a.stencilView)
		a.stencilView = nil
	}
	if a.stencilTex != nil {
		dev.DestroyTexture(a.stencilTex)
		a.stencilTex = nil
	}
	if a.msaaView != nil {
		dev.DestroyTextureView(a.msaaView)
		a.msaaView = nil
	}
	if a.msaaTex != nil {
		dev.DestroyTexture(a.msaaTex)
		a.msaaTex = nil
	}
	a.width, a.height, a.samples = 0, 0, 0
}

var (
	_ device.Buffer  = (*Buffer)(nil)
	_ device.Texture = (*Texture)(nil)
)
