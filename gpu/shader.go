// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// solidShaderSource passes the vertex color through. Positions arrive in
// normalized device coordinates.
const solidShaderSource = `
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(in.position, 0.0, 1.0);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`

var (
	spirvOnce sync.Once
	spirvCode []uint32
	spirvErr  error
)

// solidSPIRV compiles solidShaderSource once per process.
func solidSPIRV() ([]uint32, error) {
	spirvOnce.Do(func() {
		spirvCode, spirvErr = compileSPIRV(solidShaderSource)
	})
	return spirvCode, spirvErr
}

// compileSPIRV compiles WGSL to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	b, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("gpu: compile shader: %d bytes is not a whole number of words", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}

func createSolidShader(dev hal.Device) (hal.ShaderModule, error) {
	code, err := solidSPIRV()
	if err != nil {
		return nil, err
	}
	mod, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "canvas_solid_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create shader module: %w", err)
	}
	return mod, nil
}
