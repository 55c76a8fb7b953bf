// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/canvas"
)

// Kind selects the HAL backend a Context opens.
type Kind uint8

const (
	// KindVulkan opens the first Vulkan adapter, preferring real GPUs.
	KindVulkan Kind = iota

	// KindNoop opens the noop backend. It accepts every command and
	// renders nothing; used for tests and headless dry runs.
	KindNoop
)

// String returns the backend name.
func (k Kind) String() string {
	if k == KindNoop {
		return "noop"
	}
	return "vulkan"
}

var (
	// ErrBackendUnavailable is returned when the requested HAL backend is
	// not compiled in or finds no adapter.
	ErrBackendUnavailable = errors.New("gpu: backend unavailable")

	// ErrNotHALProvider is returned by FromProvider when the provider
	// does not expose HAL objects.
	ErrNotHALProvider = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrClosed is returned when a closed Context is used.
	ErrClosed = errors.New("gpu: context closed")
)

// Context is the process GPU context: instance, adapter, device and queue.
//
// Create one explicitly with NewContext, or adopt a host application's
// device with FromProvider. A Context is safe for concurrent use; HAL
// submissions are serialized by the devices built on it.
type Context struct {
	mu       sync.Mutex
	kind     Kind
	name     string
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool
	closed   bool
}

// NewContext opens a device on the given backend.
func NewContext(kind Kind) (*Context, error) {
	var (
		instance hal.Instance
		err      error
	)
	switch kind {
	case KindNoop:
		instance, err = noop.API{}.CreateInstance(nil)
	case KindVulkan:
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: vulkan not registered", ErrBackendUnavailable)
		}
		instance, err = backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrBackendUnavailable, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s instance: %w", kind, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no %s adapters", ErrBackendUnavailable, kind)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open %s device: %w", kind, err)
	}
	canvas.Logger().Info("gpu: device opened", "backend", kind.String(), "adapter", selected.Info.Name)
	return &Context{
		kind:     kind,
		name:     selected.Info.Name,
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}, nil
}

// FromProvider adopts the device of a host application. The provider must
// also implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue. The returned Context does not own the device: Close
// leaves it open.
func FromProvider(provider gpucontext.DeviceProvider) (*Context, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNotHALProvider, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNotHALProvider, hp.HalQueue())
	}
	canvas.Logger().Info("gpu: adopted host device", "format", provider.SurfaceFormat())
	return &Context{
		kind:     KindVulkan,
		name:     "external",
		device:   device,
		queue:    queue,
		external: true,
	}, nil
}

// Kind returns the backend kind.
func (c *Context) Kind() Kind { return c.kind }

// AdapterName returns the adapter name, or "external" for adopted devices.
func (c *Context) AdapterName() string { return c.name }

// External reports whether the device belongs to a host application.
func (c *Context) External() bool { return c.external }

// HalDevice returns the hal.Device. Together with HalQueue it lets a
// Context be passed wherever a HAL provider is expected.
func (c *Context) HalDevice() any { return c.device }

// HalQueue returns the hal.Queue.
func (c *Context) HalQueue() any { return c.queue }

func (c *Context) handles() (hal.Device, hal.Queue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, nil, ErrClosed
	}
	return c.device, c.queue, nil
}

// Close releases the device and instance unless they are external.
// Devices created from the Context must be destroyed first.
// Close is safe to call multiple times.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.external {
		return
	}
	if c.device != nil {
		c.device.Destroy()
	}
	if c.instance != nil {
		c.instance.Destroy()
	}
}
