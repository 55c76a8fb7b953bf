// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/build"
	"github.com/gogpu/canvas/device"
	"github.com/gogpu/canvas/device/software"
	"github.com/gogpu/canvas/geom"
)

func TestEncodeLayout(t *testing.T) {
	s := sceneOf(t, 50, 50, func(c *canvas.Context) {
		_ = c.FillRect(geom.NewRect(0, 0, 10, 10))
		_ = c.StrokeRect(geom.NewRect(20, 20, 10, 10))
	})
	region := geom.NewRect(5, 5, 40, 40)
	built, err := build.NewBuilder(nil).Build(context.Background(), s, build.Options{Clip: &region})
	if err != nil {
		t.Fatal(err)
	}
	dev := software.New()
	tex, err := dev.CreateTexture(device.TextureDescriptor{Width: 50, Height: 50, Format: gputypes.TextureFormatRGBA8Unorm})
	if err != nil {
		t.Fatal(err)
	}
	cl, buf, err := encode(dev, built, tex)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Destroy()

	if want := uint32(6 + built.VertexCount()); cl.VertexCount != want {
		t.Errorf("VertexCount = %d, want %d", cl.VertexCount, want)
	}
	if cl.Viewport != (device.Range{First: 0, Count: 6}) {
		t.Errorf("Viewport = %+v, want first six vertices", cl.Viewport)
	}
	if len(cl.Draws) != len(built.Batches) {
		t.Fatalf("len(Draws) = %d, want %d", len(cl.Draws), len(built.Batches))
	}
	if cl.Scissor != image.Rect(5, 5, 45, 45) {
		t.Errorf("Scissor = %v, want (5,5)-(45,45)", cl.Scissor)
	}
	// The fill straddles the region and gets it as its only clip level.
	if n := len(cl.Draws[0].Clips); n != 1 {
		t.Errorf("first draw has %d clips, want 1", n)
	}
	if err := cl.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	next := cl.Viewport.End()
	for i, d := range cl.Draws {
		if d.Fan.First != next {
			t.Errorf("draw %d fan starts at %d, want %d", i, d.Fan.First, next)
		}
		next = d.Cover.End()
		for _, c := range d.Clips {
			next = c.End()
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	built := &build.Built{Background: color.RGBA{R: 0xff, A: 0xff}}
	dev := software.New()
	tex, err := dev.CreateTexture(device.TextureDescriptor{Width: 4, Height: 4, Format: gputypes.TextureFormatRGBA8Unorm})
	if err != nil {
		t.Fatal(err)
	}
	cl, buf, err := encode(dev, built, tex)
	if err != nil {
		t.Fatal(err)
	}
	if buf != nil || cl.Vertices != nil || len(cl.Draws) != 0 {
		t.Errorf("empty frame allocated vertices: %+v", cl)
	}
	if cl.Clear != (gputypes.Color{R: 1, A: 1}) {
		t.Errorf("Clear = %+v, want opaque red", cl.Clear)
	}
}

func TestSampling(t *testing.T) {
	gpuInfo := device.Info{SampleCounts: []uint32{1, 4}}
	cpuInfo := device.Info{SampleCounts: []uint32{1}}
	tests := []struct {
		mode    build.AAMode
		info    device.Info
		aa      bool
		samples uint32
	}{
		{build.AAOff, gpuInfo, false, 1},
		{build.AAAnalytic, gpuInfo, true, 1},
		{build.AAMultisample, gpuInfo, true, 4},
		{build.AAMultisample, cpuInfo, true, 1},
	}
	for _, tt := range tests {
		aa, samples := sampling(tt.mode, tt.info)
		if aa != tt.aa || samples != tt.samples {
			t.Errorf("sampling(%v, %v) = %v, %d, want %v, %d", tt.mode, tt.info.SampleCounts, aa, samples, tt.aa, tt.samples)
		}
	}
}
