// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device defines the capability surface a rendering backend
// implements: resource creation, command submission and presentation.
//
// The set of backends is closed and each one implements Device
// independently:
//
//   - device/software rasterizes on the CPU with golang.org/x/image/vector.
//   - gpu drives a gogpu/wgpu HAL device (Vulkan, or the noop backend).
//
// The renderer is written once against this package.
//
// # Commands
//
// A CommandList clears a target texture and draws a list of Draws from one
// vertex buffer. Vertices are VertexStride bytes: x and y in target pixels
// followed by a premultiplied RGBA color, all float32 little endian.
//
// Each Draw is stencil-then-cover: the Fan triangles accumulate a nonzero
// winding coverage, every Clips fan is intersected with it, and the Cover
// triangles paint Color wherever coverage remains.
//
// # Surfaces
//
// A Surface is owned by the window system. The renderer acquires one
// Drawable per frame before building, and hands it to Device.Present after
// submission. Drawables are borrowed, never created or destroyed here.
package device
