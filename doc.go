// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package canvas is a GPU-backed 2D vector canvas.
//
// Drawing happens in four steps:
//
//  1. A Context records fill, stroke, clip and text calls into a scene.Scene.
//  2. IntoScene hands the scene over; the Context is unusable afterwards.
//  3. A build.Builder tessellates the scene into batches, in parallel.
//  4. A render.Renderer submits the batches to a device.Device and presents
//     the result to a borrowed device.Surface.
//
// # Quick Start
//
//	c := canvas.New(geom.V(200, 200))
//	c.SetLineWidth(10)
//	c.StrokeRect(geom.NewRect(75, 140, 150, 110))
//	c.FillRect(geom.NewRect(130, 190, 40, 60))
//	sc, _ := c.IntoScene()
//
//	dev := software.New()
//	r := render.New(dev, render.Options{})
//	surf := software.NewImageSurface(200, 200)
//	frame, err := r.Render(ctx, sc, surf, build.Options{Background: colornames.White})
//
// # State
//
// Style, transform and clip are snapshotted into every entry when it is
// drawn; later changes never affect recorded entries. Save pushes the
// current state and Restore pops it. Restore on an empty stack returns
// ErrUnbalancedState and leaves the state untouched.
//
// # Logging
//
// The module is silent by default. See SetLogger.
package canvas
