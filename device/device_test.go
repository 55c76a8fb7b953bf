// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
)

type fakeBuffer struct{ size uint64 }

func (b fakeBuffer) Size() uint64               { return b.size }
func (b fakeBuffer) Write(uint64, []byte) error { return nil }
func (b fakeBuffer) Destroy()                   {}

type fakeTexture struct{}

func (fakeTexture) Width() uint32                  { return 10 }
func (fakeTexture) Height() uint32                 { return 10 }
func (fakeTexture) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (fakeTexture) Destroy()                       {}

func TestVertexEncoding(t *testing.T) {
	v := Vertex{X: 1.5, Y: -2, Color: [4]float32{0.25, 0.5, 0.75, 1}}
	data := AppendVertex(nil, Vertex{})
	data = AppendVertex(data, v)
	if len(data) != 2*VertexStride {
		t.Fatalf("len = %d, want %d", len(data), 2*VertexStride)
	}
	if got := DecodeVertex(data, 1); got != v {
		t.Errorf("DecodeVertex = %+v, want %+v", got, v)
	}
}

func TestCommandListValidate(t *testing.T) {
	buf := fakeBuffer{size: 12 * VertexStride}
	ok := Draw{Fan: Range{0, 6}, Cover: Range{6, 6}}

	tests := []struct {
		name    string
		cl      CommandList
		wantErr bool
	}{
		{"valid", CommandList{Target: fakeTexture{}, SampleCount: 1, Vertices: buf, VertexCount: 12, Draws: []Draw{ok}}, false},
		{"no draws", CommandList{Target: fakeTexture{}, SampleCount: 1}, false},
		{"nil target", CommandList{SampleCount: 1}, true},
		{"zero samples", CommandList{Target: fakeTexture{}}, true},
		{"no buffer", CommandList{Target: fakeTexture{}, SampleCount: 1, VertexCount: 12, Draws: []Draw{ok}}, true},
		{"count exceeds buffer", CommandList{Target: fakeTexture{}, SampleCount: 1, Vertices: buf, VertexCount: 13, Draws: []Draw{ok}}, true},
		{"fan out of range", CommandList{Target: fakeTexture{}, SampleCount: 1, Vertices: buf, VertexCount: 12,
			Draws: []Draw{{Fan: Range{9, 6}, Cover: Range{0, 6}}}}, true},
		{"not triangles", CommandList{Target: fakeTexture{}, SampleCount: 1, Vertices: buf, VertexCount: 12,
			Draws: []Draw{{Fan: Range{0, 4}, Cover: Range{6, 6}}}}, true},
		{"clip without viewport", CommandList{Target: fakeTexture{}, SampleCount: 1, Vertices: buf, VertexCount: 12,
			Draws: []Draw{{Fan: Range{0, 3}, Cover: Range{6, 6}, Clips: []Range{{3, 3}}}}}, true},
		{"clip with viewport", CommandList{Target: fakeTexture{}, SampleCount: 1, Vertices: buf, VertexCount: 12, Viewport: Range{6, 6},
			Draws: []Draw{{Fan: Range{0, 3}, Cover: Range{6, 6}, Clips: []Range{{3, 3}}}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cl.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCommand) {
				t.Errorf("error %v does not wrap ErrInvalidCommand", err)
			}
		})
	}
}

func TestScissorRect(t *testing.T) {
	cl := CommandList{}
	if got := cl.ScissorRect(10, 20); got != image.Rect(0, 0, 10, 20) {
		t.Errorf("empty scissor = %v", got)
	}
	cl.Scissor = image.Rect(5, 5, 50, 50)
	if got := cl.ScissorRect(10, 20); got != image.Rect(5, 5, 10, 20) {
		t.Errorf("clamped scissor = %v", got)
	}
}

func TestError(t *testing.T) {
	err := Errorf("vulkan", "create buffer", "%w: 1 GiB", ErrOutOfMemory)
	if !errors.Is(err, ErrOutOfMemory) {
		t.Error("errors.Is should see the cause")
	}
	var de *Error
	if !errors.As(error(err), &de) || de.Backend != "vulkan" {
		t.Errorf("errors.As = %+v", de)
	}
	if !strings.Contains(err.Error(), "create buffer") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestInfo(t *testing.T) {
	i := Info{SampleCounts: []uint32{1, 4}, Formats: []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm}}
	if !i.SupportsSampleCount(4) || i.SupportsSampleCount(8) {
		t.Error("SupportsSampleCount mismatch")
	}
	if !i.SupportsFormat(gputypes.TextureFormatRGBA8Unorm) || i.SupportsFormat(gputypes.TextureFormatBGRA8Unorm) {
		t.Error("SupportsFormat mismatch")
	}
}
