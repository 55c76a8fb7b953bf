// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas/build"
	"github.com/gogpu/canvas/device"
	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/scene"
)

// encoder packs batches into one vertex stream.
type encoder struct {
	data []byte
	n    uint32
}

func (e *encoder) add(pts []geom.Vec2, c [4]float32) device.Range {
	first := e.n
	for _, p := range pts {
		e.data = device.AppendVertex(e.data, device.Vertex{X: float32(p.X), Y: float32(p.Y), Color: c})
	}
	e.n += uint32(len(pts))
	return device.Range{First: first, Count: uint32(len(pts))}
}

// encode builds the command list of one frame. The vertex stream starts
// with a quad over the whole target, followed by each batch's fan, cover
// and clip levels. It returns a nil buffer when there is nothing to draw.
func encode(dev device.Device, b *build.Built, target device.Texture) (*device.CommandList, device.Buffer, error) {
	cl := &device.CommandList{
		Target:  target,
		Clear:   clearColor(b.Background),
		Scissor: scissor(b.Clip),
	}
	cl.Antialias, cl.SampleCount = sampling(b.Antialias, dev.Info())
	if len(b.Batches) == 0 {
		return cl, nil, nil
	}

	e := &encoder{data: make([]byte, 0, (6+b.VertexCount())*device.VertexStride)}
	w, h := float64(target.Width()), float64(target.Height())
	full := geom.NewRect(0, 0, w, h)
	viewport := full.Corners()
	cl.Viewport = e.add([]geom.Vec2{
		viewport[0], viewport[1], viewport[2],
		viewport[0], viewport[2], viewport[3],
	}, [4]float32{})

	cl.Draws = make([]device.Draw, 0, len(b.Batches))
	for i := range b.Batches {
		bt := &b.Batches[i]
		dr := device.Draw{
			Color: bt.Color,
			Blend: blend(bt.Blend),
			Fan:   e.add(bt.Fan, bt.Color),
			Cover: e.add(bt.Cover[:], bt.Color),
		}
		for _, c := range bt.Clips {
			dr.Clips = append(dr.Clips, e.add(c, bt.Color))
		}
		cl.Draws = append(cl.Draws, dr)
	}

	buf, err := dev.CreateBuffer(device.BufferDescriptor{
		Label: "canvas_vertices",
		Size:  uint64(len(e.data)),
	})
	if err != nil {
		return nil, nil, err
	}
	if err := buf.Write(0, e.data); err != nil {
		buf.Destroy()
		return nil, nil, err
	}
	cl.Vertices = buf
	cl.VertexCount = e.n
	return cl, buf, nil
}

func blend(m scene.BlendMode) device.Blend {
	if m == scene.BlendCopy {
		return device.BlendCopy
	}
	return device.BlendSourceOver
}

// sampling maps an antialiasing mode to command list settings.
func sampling(mode build.AAMode, info device.Info) (antialias bool, samples uint32) {
	switch mode {
	case build.AAOff:
		return false, 1
	case build.AAMultisample:
		if info.SupportsSampleCount(4) {
			return true, 4
		}
		return true, 1
	default:
		return true, 1
	}
}

// clearColor converts an alpha-premultiplied color.RGBA to a clear value.
func clearColor(c color.RGBA) gputypes.Color {
	return gputypes.Color{
		R: float64(c.R) / 0xff,
		G: float64(c.G) / 0xff,
		B: float64(c.B) / 0xff,
		A: float64(c.A) / 0xff,
	}
}

// scissor returns the pixel rectangle enclosing r.
func scissor(r geom.Rect) image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(r.MinX())), int(math.Floor(r.MinY())),
		int(math.Ceil(r.MaxX())), int(math.Ceil(r.MaxY())),
	)
}
