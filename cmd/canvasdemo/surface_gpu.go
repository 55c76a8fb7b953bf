//go:build !nogpu

package main

import (
	"fmt"
	"image"

	"github.com/gogpu/canvas/device"
	"github.com/gogpu/canvas/device/software"
	"github.com/gogpu/canvas/gpu"
)

// newSurface returns an offscreen surface matching dev, a function
// returning the last presented image and a release function.
func newSurface(dev device.Device, width, height int) (device.Surface, func() *image.RGBA, func(), error) {
	switch d := dev.(type) {
	case *software.Device:
		s := software.NewImageSurface(width, height)
		return s, s.Snapshot, func() {}, nil
	case *gpu.Device:
		s, err := gpu.NewTextureSurface(d, width, height)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s.Image, s.Destroy, nil
	default:
		return nil, nil, nil, fmt.Errorf("no offscreen surface for %T", dev)
	}
}
