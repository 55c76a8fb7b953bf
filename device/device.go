// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"slices"

	"github.com/gogpu/gputypes"
)

// Info describes a device.
type Info struct {
	// Backend is the registry name, e.g. "software" or "vulkan".
	Backend string

	// Name is a human-readable adapter name.
	Name string

	// SampleCounts lists the supported multisample counts, ascending.
	SampleCounts []uint32

	// Formats lists the supported render target formats.
	Formats []gputypes.TextureFormat
}

// SupportsSampleCount reports whether n samples per pixel are supported.
func (i Info) SupportsSampleCount(n uint32) bool {
	return slices.Contains(i.SampleCounts, n)
}

// SupportsFormat reports whether f can be used as a render target.
func (i Info) SupportsFormat(f gputypes.TextureFormat) bool {
	return slices.Contains(i.Formats, f)
}

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage gputypes.BufferUsage
}

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
}

// Buffer is device memory holding vertices.
type Buffer interface {
	Size() uint64
	// Write copies data into the buffer at offset.
	Write(offset uint64, data []byte) error
	Destroy()
}

// Texture is a 2D image a CommandList can render into.
type Texture interface {
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
	Destroy()
}

// Drawable is one presentable image acquired from a Surface.
// Exactly one of Present or Discard must be called.
type Drawable interface {
	Texture() Texture
	Present() error
	Discard()
}

// Surface is a window system surface. It is owned by the caller.
type Surface interface {
	Size() (width, height int)
	Format() gputypes.TextureFormat
	// Acquire returns the next drawable. Failures should wrap ErrPresentation.
	Acquire() (Drawable, error)
}

// Device is the capability set every backend implements.
//
// Methods are called from one goroutine at a time; the renderer owns the
// device from submission until presentation.
type Device interface {
	Info() Info
	CreateBuffer(desc BufferDescriptor) (Buffer, error)
	CreateTexture(desc TextureDescriptor) (Texture, error)
	// Submit executes the command list. A failed submission affects only
	// that list; the device stays usable.
	Submit(cl *CommandList) error
	// Present hands a rendered drawable back to the window system.
	Present(d Drawable) error
	Destroy()
}
