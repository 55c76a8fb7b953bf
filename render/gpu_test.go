// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package render

import (
	"context"
	"testing"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/build"
	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/gpu"
	"github.com/gogpu/canvas/path"
)

func TestRenderNoopGPU(t *testing.T) {
	dev, err := gpu.Open(gpu.KindNoop)
	if err != nil {
		t.Fatalf("gpu.Open(noop) failed: %v", err)
	}
	defer dev.Destroy()
	surface, err := gpu.NewTextureSurface(dev, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer surface.Destroy()

	s := sceneOf(t, 64, 64, func(c *canvas.Context) {
		p, err := path.NewBuilder().Rect(geom.NewRect(8, 8, 40, 40)).Build()
		if err != nil {
			t.Fatal(err)
		}
		_ = c.FillRect(geom.NewRect(0, 0, 32, 32))
		_ = c.Clip(p)
		_ = c.SetLineWidth(4)
		_ = c.StrokeRect(geom.NewRect(4, 4, 56, 56))
	})
	region := geom.NewRect(0, 0, 48, 48)

	r := New(dev, Options{Executor: build.Group{Limit: 2}})
	for _, aa := range []build.AAMode{build.AAOff, build.AAAnalytic, build.AAMultisample} {
		t.Run(aa.String(), func(t *testing.T) {
			opts := build.DefaultOptions()
			opts.Antialias = aa
			opts.Clip = &region
			frame, err := r.Render(context.Background(), s, surface, opts)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if frame.Batches != 2 {
				t.Errorf("Batches = %d, want 2", frame.Batches)
			}
		})
	}
	if surface.Presented() != 3 {
		t.Errorf("Presented() = %d, want 3", surface.Presented())
	}
}
