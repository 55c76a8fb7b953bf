// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/device"
)

// Backend is the registry name of this device.
const Backend = "gpu"

// DefaultSampleCount is used when a command list asks for antialiasing
// with a sample count of 1.
const DefaultSampleCount = 4

// fenceTimeout bounds the wait for one submission.
const fenceTimeout = 5 * time.Second

// copyPitchAlignment is the required BytesPerRow alignment of
// texture-to-buffer copies.
const copyPitchAlignment = 256

// Device renders command lists with the wgpu HAL.
// Device is safe for concurrent use; Submit calls are serialized.
type Device struct {
	mu        sync.Mutex
	ctx       *Context
	device    hal.Device
	queue     hal.Queue
	pipes     *pipelineCache
	att       attachments
	scratch   []byte
	ownsCtx   bool
	destroyed bool
}

// NewDevice creates a device on ctx. The shader is compiled here;
// pipelines are created on first use.
func NewDevice(ctx *Context) (*Device, error) {
	dev, queue, err := ctx.handles()
	if err != nil {
		return nil, device.NewError(Backend, "create device", err)
	}
	pipes, err := newPipelineCache(dev)
	if err != nil {
		return nil, device.NewError(Backend, "create device", err)
	}
	return &Device{ctx: ctx, device: dev, queue: queue, pipes: pipes}, nil
}

// Open creates a Context of the given kind and a device on it. Destroying
// the device closes the context.
func Open(kind Kind) (*Device, error) {
	ctx, err := NewContext(kind)
	if err != nil {
		return nil, err
	}
	d, err := NewDevice(ctx)
	if err != nil {
		ctx.Close()
		return nil, err
	}
	d.ownsCtx = true
	return d, nil
}

// Context returns the context the device was created on.
func (d *Device) Context() *Context { return d.ctx }

// Info implements device.Device.
func (d *Device) Info() device.Info {
	return device.Info{
		Backend:      Backend,
		Name:         d.ctx.AdapterName(),
		SampleCounts: []uint32{1, DefaultSampleCount},
		Formats: []gputypes.TextureFormat{
			gputypes.TextureFormatRGBA8Unorm,
			gputypes.TextureFormatBGRA8Unorm,
		},
	}
}

func (d *Device) alive(op string) error {
	if d.destroyed {
		return device.NewError(Backend, op, device.ErrDestroyed)
	}
	return nil
}

// CreateBuffer implements device.Device.
func (d *Device) CreateBuffer(desc device.BufferDescriptor) (device.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.alive("create buffer"); err != nil {
		return nil, err
	}
	size := (desc.Size + 3) &^ 3
	if size == 0 {
		size = 4
	}
	raw, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: desc.Usage | gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, device.Errorf(Backend, "create buffer", "%w: %w", device.ErrOutOfMemory, err)
	}
	return &Buffer{device: d.device, raw: raw, shadow: make([]byte, desc.Size)}, nil
}

// CreateTexture implements device.Device.
func (d *Device) CreateTexture(desc device.TextureDescriptor) (device.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.alive("create texture"); err != nil {
		return nil, err
	}
	if !d.Info().SupportsFormat(desc.Format) {
		return nil, device.Errorf(Backend, "create texture", "%w: %v", device.ErrUnsupportedFormat, desc.Format)
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, device.Errorf(Backend, "create texture", "%w: empty %dx%d texture", device.ErrInvalidCommand, desc.Width, desc.Height)
	}
	raw, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage | gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, device.Errorf(Backend, "create texture", "%w: %w", device.ErrOutOfMemory, err)
	}
	view, err := d.device.CreateTextureView(raw, &hal.TextureViewDescriptor{Label: desc.Label + "_view"})
	if err != nil {
		d.device.DestroyTexture(raw)
		return nil, device.Errorf(Backend, "create texture", "%w: %w", device.ErrOutOfMemory, err)
	}
	return &Texture{
		device: d.device,
		raw:    raw,
		view:   view,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		owned:  true,
	}, nil
}

// step is one pipeline draw of a command list.
type step struct {
	pipeline hal.RenderPipeline
	r        device.Range
}

// plan resolves every draw into pipeline steps. Pipelines are created
// before encoding starts so a failure never leaves a pass open.
func (d *Device) plan(cl *device.CommandList, format gputypes.TextureFormat, samples uint32) ([]step, error) {
	var steps []step
	add := func(key pipelineKey, r device.Range) error {
		if r.Count == 0 {
			return nil
		}
		p, err := d.pipes.get(key, format, samples)
		if err != nil {
			return err
		}
		steps = append(steps, step{pipeline: p, r: r})
		return nil
	}
	for _, dr := range cl.Draws {
		if dr.Fan.Count == 0 || dr.Cover.Count == 0 {
			continue
		}
		var err error
		if len(dr.Clips) == 0 {
			err = firstErr(
				add(windingKey(allBits), dr.Fan),
				add(coverKey(allBits, dr.Blend), dr.Cover),
			)
		} else {
			err = add(markKey(), dr.Cover)
			for _, c := range dr.Clips {
				err = firstErr(err,
					add(windingKey(windingBits), c),
					add(clipResolveKey(), cl.Viewport),
					add(clearWindingKey(), cl.Viewport),
				)
			}
			err = firstErr(err,
				add(windingKey(windingBits), dr.Fan),
				add(unmarkedKey(), cl.Viewport),
				add(coverKey(windingBits, dr.Blend), dr.Cover),
			)
		}
		if err != nil {
			return nil, err
		}
	}
	return steps, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Submit implements device.Device.
func (d *Device) Submit(cl *device.CommandList) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.alive("submit"); err != nil {
		return err
	}
	if cl == nil {
		return device.Errorf(Backend, "submit", "%w: nil command list", device.ErrInvalidCommand)
	}
	if err := cl.Validate(); err != nil {
		return device.NewError(Backend, "submit", err)
	}
	tex, ok := cl.Target.(*Texture)
	if !ok || tex.view == nil {
		return device.Errorf(Backend, "submit", "%w: target %T is not a live gpu texture", device.ErrInvalidCommand, cl.Target)
	}
	samples := cl.SampleCount
	if cl.Antialias && samples == 1 {
		samples = DefaultSampleCount
	}
	if !d.Info().SupportsSampleCount(samples) {
		return device.Errorf(Backend, "submit", "%w: %d samples", device.ErrInvalidCommand, samples)
	}

	var buf *Buffer
	if len(cl.Draws) > 0 {
		buf, ok = cl.Vertices.(*Buffer)
		if !ok || buf.raw == nil {
			return device.Errorf(Backend, "submit", "%w: buffer %T is not a live gpu buffer", device.ErrInvalidCommand, cl.Vertices)
		}
	}
	steps, err := d.plan(cl, tex.format, samples)
	if err != nil {
		return device.NewError(Backend, "submit", err)
	}
	if err := d.att.ensure(d.device, tex.width, tex.height, tex.format, samples); err != nil {
		return device.Errorf(Backend, "submit", "%w: %w", device.ErrOutOfMemory, err)
	}
	if buf != nil {
		d.scratch = toNDC(d.scratch[:0], buf.shadow, int(cl.VertexCount), float32(tex.width), float32(tex.height))
		d.queue.WriteBuffer(buf.raw, 0, d.scratch)
	}

	start := time.Now()
	if err := d.encodeAndWait(cl, tex, buf, steps, samples); err != nil {
		return err
	}
	canvas.Logger().Debug("gpu: submitted",
		"draws", len(cl.Draws), "steps", len(steps), "samples", samples, "elapsed", time.Since(start))
	return nil
}

// toNDC converts n pixel-space vertices to normalized device coordinates.
func toNDC(dst, src []byte, n int, w, h float32) []byte {
	for i := range n {
		v := device.DecodeVertex(src, i)
		v.X = v.X/w*2 - 1
		v.Y = 1 - v.Y/h*2
		dst = device.AppendVertex(dst, v)
	}
	return dst
}

func (d *Device) encodeAndWait(cl *device.CommandList, tex *Texture, buf *Buffer, steps []step, samples uint32) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "canvas_encoder"})
	if err != nil {
		return device.Errorf(Backend, "submit", "%w: create command encoder: %w", device.ErrOutOfMemory, err)
	}
	if err := encoder.BeginEncoding("canvas_frame"); err != nil {
		return device.Errorf(Backend, "submit", "%w: begin encoding: %w", device.ErrDeviceLost, err)
	}

	color := hal.RenderPassColorAttachment{
		View:       tex.view,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: cl.Clear,
	}
	if samples > 1 {
		color.View = d.att.msaaView
		color.ResolveTarget = tex.view
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "canvas_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{color},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              d.att.stencilView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: 0,
		},
	})
	if buf != nil && len(steps) > 0 {
		rp.SetVertexBuffer(0, buf.raw, 0)
		for _, s := range steps {
			rp.SetPipeline(s.pipeline)
			rp.Draw(s.r.Count, 1, s.r.First, 0)
		}
	}
	rp.End()

	cmdBuf, err := endEncoding(encoder)
	if err != nil {
		return device.Errorf(Backend, "submit", "%w: end encoding: %w", device.ErrDeviceLost, err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)
	return d.submitAndWait(cmdBuf)
}

// endEncoding closes the recording. An encoder that fails to close is
// discarded so the next BeginEncoding starts clean.
func endEncoding(encoder hal.CommandEncoder) (hal.CommandBuffer, error) {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, err
	}
	return cmdBuf, nil
}

func (d *Device) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := d.device.CreateFence()
	if err != nil {
		return device.Errorf(Backend, "submit", "%w: create fence: %w", device.ErrOutOfMemory, err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return device.Errorf(Backend, "submit", "%w: %w", device.ErrDeviceLost, err)
	}
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return device.Errorf(Backend, "submit", "%w: fence wait ok=%v err=%v", device.ErrDeviceLost, ok, err)
	}
	return nil
}

// Present implements device.Device.
func (d *Device) Present(dr device.Drawable) error {
	d.mu.Lock()
	err := d.alive("present")
	d.mu.Unlock()
	if err != nil {
		return err
	}
	if dr == nil {
		return device.Errorf(Backend, "present", "%w: nil drawable", device.ErrPresentation)
	}
	if err := dr.Present(); err != nil {
		return device.Errorf(Backend, "present", "%w: %w", device.ErrPresentation, err)
	}
	return nil
}

// ReadPixels copies tex back to host memory as premultiplied RGBA.
func (d *Device) ReadPixels(tex *Texture) (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.alive("read pixels"); err != nil {
		return nil, err
	}
	if tex == nil || tex.raw == nil {
		return nil, device.Errorf(Backend, "read pixels", "%w: texture destroyed", device.ErrInvalidCommand)
	}
	w, h := tex.width, tex.height
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "canvas_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, device.Errorf(Backend, "read pixels", "%w: %w", device.ErrOutOfMemory, err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "canvas_readback"})
	if err != nil {
		return nil, device.Errorf(Backend, "read pixels", "%w: %w", device.ErrOutOfMemory, err)
	}
	if err := encoder.BeginEncoding("canvas_readback"); err != nil {
		return nil, device.Errorf(Backend, "read pixels", "%w: %w", device.ErrDeviceLost, err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex.raw,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(tex.raw, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex.raw, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex.raw,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	cmdBuf, err := endEncoding(encoder)
	if err != nil {
		return nil, device.Errorf(Backend, "read pixels", "%w: %w", device.ErrDeviceLost, err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)
	if err := d.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, device.Errorf(Backend, "read pixels", "%w: %w", device.ErrDeviceLost, err)
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for row := range int(h) {
		src := readback[row*int(alignedBytesPerRow) : row*int(alignedBytesPerRow)+int(bytesPerRow)]
		copy(img.Pix[row*img.Stride:], src)
	}
	if tex.format == gputypes.TextureFormatBGRA8Unorm {
		swapRB(img.Pix)
	}
	return img, nil
}

// swapRB converts BGRA to RGBA in place.
func swapRB(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

// Destroy implements device.Device. It releases pipelines and attachments,
// and the Context too when the device was made by Open. Later calls fail
// with device.ErrDestroyed.
func (d *Device) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.att.destroy(d.device)
	d.pipes.destroy()
	if d.ownsCtx {
		d.ctx.Close()
	}
}

var _ device.Device = (*Device)(nil)

// String returns the backend and adapter name.
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s)", Backend, d.ctx.AdapterName())
}
