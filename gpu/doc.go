// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu implements device.Device on top of the wgpu HAL.
//
// A Context owns (or borrows) one HAL instance, device and queue. NewDevice
// turns a Context into a device.Device that renders command lists with
// stencil-then-cover: every draw first accumulates the winding number of
// its fan in the stencil buffer, then paints a cover quad wherever the
// stencil is nonzero, resetting it as it goes. Clip levels are resolved
// into a marker bit of the same stencil value, so no extra render targets
// are needed.
//
// Vertices are uploaded in normalized device coordinates; the shader has
// no bindings. WGSL is compiled to SPIR-V with naga.
//
// Build with the nogpu tag to leave this package out.
package gpu
