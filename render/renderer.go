// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/build"
	"github.com/gogpu/canvas/device"
	"github.com/gogpu/canvas/scene"
)

// Options configure a Renderer.
type Options struct {
	// Executor runs scene building. Nil builds sequentially.
	Executor build.Executor
}

// Durations are the wall times of the stages of one frame.
type Durations struct {
	Acquire time.Duration
	Build   time.Duration
	Submit  time.Duration
	Present time.Duration
}

// Total returns the sum of all stages.
func (d Durations) Total() time.Duration {
	return d.Acquire + d.Build + d.Submit + d.Present
}

// Frame describes one presented frame.
type Frame struct {
	// Index counts presented frames, starting at 1.
	Index   uint64
	SceneID uint64
	// Batches is the number of draws submitted.
	Batches  int
	Vertices int
	// Warnings lists the scene entries that were skipped.
	Warnings  []*build.EntryError
	Durations Durations
}

// Stats are cumulative renderer counters.
type Stats struct {
	Frames   uint64
	Failures uint64
	// Busy counts Render calls rejected with ErrBusy.
	Busy     uint64
	Warnings uint64
	// Last is the duration of the last presented frame.
	Last time.Duration
}

// Renderer renders scenes on one device. It does not own the device.
type Renderer struct {
	dev     device.Device
	builder *build.Builder

	busy  sync.Mutex
	state atomic.Int32

	statsMu sync.Mutex
	stats   Stats
}

// New creates a renderer for dev.
func New(dev device.Device, opts Options) *Renderer {
	return &Renderer{
		dev:     dev,
		builder: build.NewBuilder(opts.Executor),
	}
}

// Device returns the renderer's device.
func (r *Renderer) Device() device.Device { return r.dev }

// State returns the current lifecycle state.
func (r *Renderer) State() State { return State(r.state.Load()) }

// Stats returns a snapshot of the counters.
func (r *Renderer) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}

func (r *Renderer) enter(s State) { r.state.Store(int32(s)) }

// Render draws s onto the next drawable of surface and presents it.
//
// Building runs before any device work, so a scene that fails to build
// leaves the device untouched. On failure the drawable is discarded, the
// frame's buffer is destroyed and a *StageError is returned.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene, surface device.Surface, opts build.Options) (*Frame, error) {
	if !r.busy.TryLock() {
		r.statsMu.Lock()
		r.stats.Busy++
		r.statsMu.Unlock()
		return nil, ErrBusy
	}
	defer r.busy.Unlock()
	defer r.enter(StateIdle)

	frame, err := r.render(ctx, s, surface, opts)
	log := canvas.Logger()
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	if err != nil {
		r.stats.Failures++
		log.Warn("render: frame failed", "err", err)
		return nil, err
	}
	r.stats.Frames++
	r.stats.Warnings += uint64(len(frame.Warnings))
	r.stats.Last = frame.Durations.Total()
	frame.Index = r.stats.Frames
	log.Debug("render: frame presented",
		"frame", frame.Index,
		"batches", frame.Batches,
		"vertices", frame.Vertices,
		"acquire", frame.Durations.Acquire,
		"build", frame.Durations.Build,
		"submit", frame.Durations.Submit,
		"present", frame.Durations.Present)
	return frame, nil
}

func (r *Renderer) render(ctx context.Context, s *scene.Scene, surface device.Surface, opts build.Options) (*Frame, error) {
	fail := func(stage State, err error) error {
		return &StageError{Stage: stage, Err: err}
	}

	r.enter(StateSceneReceived)
	if s == nil {
		return nil, fail(StateSceneReceived, build.ErrNilScene)
	}
	if surface == nil {
		return nil, fail(StateSceneReceived, ErrNilSurface)
	}
	frame := &Frame{SceneID: s.ID()}

	start := time.Now()
	dr, err := surface.Acquire()
	if err != nil {
		return nil, fail(StateSceneReceived, err)
	}
	presented := false
	defer func() {
		if !presented {
			dr.Discard()
		}
	}()
	frame.Durations.Acquire = time.Since(start)

	r.enter(StateBuilding)
	start = time.Now()
	built, err := r.builder.Build(ctx, s, opts)
	if err != nil {
		return nil, fail(StateBuilding, err)
	}
	frame.Durations.Build = time.Since(start)
	frame.Batches = len(built.Batches)
	frame.Warnings = built.Warnings

	r.enter(StateSubmitted)
	start = time.Now()
	cl, buf, err := encode(r.dev, built, dr.Texture())
	if err != nil {
		return nil, fail(StateSubmitted, err)
	}
	if buf != nil {
		defer buf.Destroy()
	}
	frame.Vertices = int(cl.VertexCount)
	if err := r.dev.Submit(cl); err != nil {
		return nil, fail(StateSubmitted, err)
	}
	frame.Durations.Submit = time.Since(start)

	r.enter(StatePresented)
	start = time.Now()
	if err := r.dev.Present(dr); err != nil {
		return nil, fail(StatePresented, err)
	}
	presented = true
	frame.Durations.Present = time.Since(start)
	return frame, nil
}
