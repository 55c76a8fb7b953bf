//go:build !nogpu

package backend

import (
	"github.com/gogpu/canvas/device"
	"github.com/gogpu/canvas/gpu"
)

// init registers the gpu backends on package import.
func init() {
	Register(BackendGPU, openGPU(gpu.KindVulkan))
	Register(BackendVulkan, openGPU(gpu.KindVulkan))
	Register(BackendNoop, openGPU(gpu.KindNoop))
}

func openGPU(kind gpu.Kind) Factory {
	return func() (device.Device, error) {
		d, err := gpu.Open(kind)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
