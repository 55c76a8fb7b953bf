// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
)

// VertexStride is the size of one vertex in bytes:
// x, y (target pixels) and r, g, b, a (premultiplied), as float32.
const VertexStride = 24

// Vertex is the decoded form of one vertex.
type Vertex struct {
	X, Y  float32
	Color [4]float32
}

// AppendVertex encodes v to dst.
func AppendVertex(dst []byte, v Vertex) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.X))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Y))
	for _, c := range v.Color {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(c))
	}
	return dst
}

// DecodeVertex decodes the i-th vertex of data.
func DecodeVertex(data []byte, i int) Vertex {
	b := data[i*VertexStride : (i+1)*VertexStride]
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	return Vertex{
		X:     f(0),
		Y:     f(4),
		Color: [4]float32{f(8), f(12), f(16), f(20)},
	}
}

// Range selects Count vertices starting at First.
type Range struct {
	First uint32
	Count uint32
}

// End returns First + Count.
func (r Range) End() uint32 {
	return r.First + r.Count
}

// Blend selects how a draw composites.
type Blend uint8

const (
	// BlendSourceOver composites over the destination.
	BlendSourceOver Blend = iota
	// BlendCopy replaces the destination where the shape covers it.
	BlendCopy
)

// Draw is one stencil-then-cover draw.
type Draw struct {
	// Color is the premultiplied paint color.
	Color [4]float32
	Blend Blend

	// Fan is a triangle list whose nonzero winding defines coverage.
	Fan Range
	// Cover is a triangle list enclosing all of Fan's coverage.
	Cover Range
	// Clips are triangle lists intersected with the coverage, one per clip level.
	Clips []Range
}

// CommandList is the work for one frame.
type CommandList struct {
	Target Texture
	// Clear is the premultiplied color the target is cleared to.
	Clear gputypes.Color
	// Scissor is the region the draws are confined to. The empty
	// rectangle means the whole target. Draws reaching outside it are
	// undefined: devices may clip them or not.
	Scissor image.Rectangle

	// Antialias requests smooth edges.
	Antialias bool
	// SampleCount is 1, or the multisample count to rasterize with.
	SampleCount uint32

	Vertices    Buffer
	VertexCount uint32
	// Viewport is a triangle list covering the whole target. It is
	// used to reset clip state and must be set when any Draw has Clips.
	Viewport Range

	Draws []Draw
}

// ScissorRect returns the effective scissor rectangle for a target of the
// given size.
func (cl *CommandList) ScissorRect(width, height int) image.Rectangle {
	full := image.Rect(0, 0, width, height)
	if cl.Scissor.Empty() {
		return full
	}
	return cl.Scissor.Intersect(full)
}

// Validate checks that every range lies inside the vertex buffer.
func (cl *CommandList) Validate() error {
	if cl.Target == nil {
		return fmt.Errorf("%w: nil target", ErrInvalidCommand)
	}
	if cl.SampleCount == 0 {
		return fmt.Errorf("%w: sample count 0", ErrInvalidCommand)
	}
	if len(cl.Draws) == 0 {
		return nil
	}
	if cl.Vertices == nil {
		return fmt.Errorf("%w: draws without vertex buffer", ErrInvalidCommand)
	}
	if uint64(cl.VertexCount)*VertexStride > cl.Vertices.Size() {
		return fmt.Errorf("%w: %d vertices exceed buffer of %d bytes", ErrInvalidCommand, cl.VertexCount, cl.Vertices.Size())
	}
	check := func(what string, i int, r Range) error {
		if r.End() > cl.VertexCount || r.End() < r.First {
			return fmt.Errorf("%w: draw %d %s range %+v outside %d vertices", ErrInvalidCommand, i, what, r, cl.VertexCount)
		}
		if r.Count%3 != 0 {
			return fmt.Errorf("%w: draw %d %s count %d is not a triangle list", ErrInvalidCommand, i, what, r.Count)
		}
		return nil
	}
	clipped := false
	for i, d := range cl.Draws {
		if err := check("fan", i, d.Fan); err != nil {
			return err
		}
		if err := check("cover", i, d.Cover); err != nil {
			return err
		}
		for _, c := range d.Clips {
			if err := check("clip", i, c); err != nil {
				return err
			}
			clipped = true
		}
	}
	if clipped {
		if err := check("viewport", -1, cl.Viewport); err != nil {
			return err
		}
		if cl.Viewport.Count == 0 {
			return fmt.Errorf("%w: clipped draws without viewport", ErrInvalidCommand)
		}
	}
	return nil
}
