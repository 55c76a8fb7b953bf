// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render drives a device through one frame at a time.
//
// A Renderer takes a scene, builds it with build.Builder, encodes the
// batches into one vertex buffer and command list, submits it, and
// presents the drawable acquired from the surface.
//
// # Frame Lifecycle
//
// Each Render call walks the states
//
//	Idle -> SceneReceived -> Building -> Submitted -> Presented -> Idle
//
// The drawable is acquired before building. Any failure discards it,
// destroys the frame's buffer and returns the renderer to Idle with a
// *StageError naming the state it failed in. Presentation failures are
// not retried.
//
// # Concurrency
//
// A Renderer renders one frame at a time. A Render call that arrives while
// another frame is in flight fails immediately with ErrBusy. Scene
// building runs on the Executor passed in Options and may use many
// goroutines; device calls always happen on the calling goroutine.
//
// # Usage
//
//	dev := software.New()
//	surface := software.NewImageSurface(200, 200)
//	r := render.New(dev, render.Options{Executor: build.Group{Limit: 4}})
//
//	frame, err := r.Render(ctx, s, surface, build.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	png.Encode(w, surface.Image())
package render
