// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/device"
)

// stencilFormat is the format of every stencil attachment.
const stencilFormat = gputypes.TextureFormatDepth24PlusStencil8

// Stencil bit layout: the low seven bits hold winding numbers, the high
// bit marks pixels that survive all clip levels.
const (
	windingBits = 0x7F
	markBit     = 0x80
	allBits     = 0xFF
)

// pipelineKey identifies one render pipeline variant.
type pipelineKey struct {
	front     hal.StencilFaceState
	back      hal.StencilFaceState
	readMask  uint32
	writeMask uint32
	color     bool
	blend     device.Blend
	format    gputypes.TextureFormat
	samples   uint32
}

// stencilOps returns a face state with the given compare and ops.
// Depth testing is disabled, so DepthFailOp never fires.
func stencilOps(compare gputypes.CompareFunction, ops hal.StencilFaceState) hal.StencilFaceState {
	ops.Compare = compare
	ops.DepthFailOp = hal.StencilOperationKeep
	return ops
}

// The passes of one draw. The target format and sample count are filled
// in by pipelineCache.get.

// windingKey accumulates the winding number of a fan into mask: front
// faces increment, back faces decrement.
func windingKey(mask uint32) pipelineKey {
	return pipelineKey{
		front: stencilOps(gputypes.CompareFunctionAlways, hal.StencilFaceState{
			FailOp: hal.StencilOperationKeep,
			PassOp: hal.StencilOperationIncrementWrap,
		}),
		back: stencilOps(gputypes.CompareFunctionAlways, hal.StencilFaceState{
			FailOp: hal.StencilOperationKeep,
			PassOp: hal.StencilOperationDecrementWrap,
		}),
		readMask:  allBits,
		writeMask: mask,
	}
}

func symmetric(f hal.StencilFaceState, readMask, writeMask uint32) pipelineKey {
	return pipelineKey{front: f, back: f, readMask: readMask, writeMask: writeMask}
}

// coverKey paints where the winding bits in readMask are nonzero and zeroes
// the stencil under the whole cover quad.
func coverKey(readMask uint32, blend device.Blend) pipelineKey {
	k := symmetric(stencilOps(gputypes.CompareFunctionNotEqual, hal.StencilFaceState{
		FailOp: hal.StencilOperationZero,
		PassOp: hal.StencilOperationZero,
	}), readMask, allBits)
	k.color = true
	k.blend = blend
	return k
}

// markKey sets the mark bit under the cover quad. The stencil is zero
// there, so inverting through the mark mask sets exactly that bit.
func markKey() pipelineKey {
	return symmetric(stencilOps(gputypes.CompareFunctionAlways, hal.StencilFaceState{
		FailOp: hal.StencilOperationKeep,
		PassOp: hal.StencilOperationInvert,
	}), allBits, markBit)
}

// clipResolveKey clears the whole value, mark included, wherever the
// clip winding is zero.
func clipResolveKey() pipelineKey {
	return symmetric(stencilOps(gputypes.CompareFunctionNotEqual, hal.StencilFaceState{
		FailOp: hal.StencilOperationZero,
		PassOp: hal.StencilOperationKeep,
	}), windingBits, allBits)
}

// clearWindingKey zeroes the winding bits and keeps the mark.
func clearWindingKey() pipelineKey {
	return symmetric(stencilOps(gputypes.CompareFunctionAlways, hal.StencilFaceState{
		FailOp: hal.StencilOperationKeep,
		PassOp: hal.StencilOperationZero,
	}), allBits, windingBits)
}

// unmarkedKey zeroes every pixel without the mark bit.
func unmarkedKey() pipelineKey {
	return symmetric(stencilOps(gputypes.CompareFunctionNotEqual, hal.StencilFaceState{
		FailOp: hal.StencilOperationZero,
		PassOp: hal.StencilOperationKeep,
	}), markBit, allBits)
}

// pipelineCache creates render pipelines on first use.
type pipelineCache struct {
	device    hal.Device
	shader    hal.ShaderModule
	layout    hal.PipelineLayout
	pipelines map[pipelineKey]hal.RenderPipeline
}

func newPipelineCache(dev hal.Device) (*pipelineCache, error) {
	shader, err := createSolidShader(dev)
	if err != nil {
		return nil, err
	}
	layout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "canvas_pipe_layout",
	})
	if err != nil {
		dev.DestroyShaderModule(shader)
		return nil, fmt.Errorf("gpu: create pipeline layout: %w", err)
	}
	return &pipelineCache{
		device:    dev,
		shader:    shader,
		layout:    layout,
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
	}, nil
}

// vertexLayout matches device.VertexStride: float32x2 position, float32x4 color.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{{
		ArrayStride: device.VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
		},
	}}
}

func (c *pipelineCache) get(key pipelineKey, format gputypes.TextureFormat, samples uint32) (hal.RenderPipeline, error) {
	key.format = format
	key.samples = samples
	if p, ok := c.pipelines[key]; ok {
		return p, nil
	}

	target := gputypes.ColorTargetState{
		Format:    format,
		WriteMask: gputypes.ColorWriteMaskNone,
	}
	if key.color {
		target.WriteMask = gputypes.ColorWriteMaskAll
		if key.blend == device.BlendSourceOver {
			premulBlend := gputypes.BlendStatePremultiplied()
			target.Blend = &premulBlend
		}
	}
	p, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "canvas_pipeline",
		Layout: c.layout,
		Vertex: hal.VertexState{
			Module:     c.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     c.shader,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{target},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            stencilFormat,
			DepthWriteEnabled: false,
			DepthCompare:      gputypes.CompareFunctionAlways,
			StencilFront:      key.front,
			StencilBack:       key.back,
			StencilReadMask:   key.readMask,
			StencilWriteMask:  key.writeMask,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: samples,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create pipeline: %w", err)
	}
	canvas.Logger().Debug("gpu: pipeline created",
		"color", key.color, "read", key.readMask, "write", key.writeMask, "samples", samples)
	c.pipelines[key] = p
	return p, nil
}

func (c *pipelineCache) destroy() {
	for k, p := range c.pipelines {
		c.device.DestroyRenderPipeline(p)
		delete(c.pipelines, k)
	}
	if c.layout != nil {
		c.device.DestroyPipelineLayout(c.layout)
		c.layout = nil
	}
	if c.shader != nil {
		c.device.DestroyShaderModule(c.shader)
		c.shader = nil
	}
}
