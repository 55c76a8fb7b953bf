//go:build nogpu

package main

import (
	"fmt"
	"image"

	"github.com/gogpu/canvas/device"
	"github.com/gogpu/canvas/device/software"
)

func newSurface(dev device.Device, width, height int) (device.Surface, func() *image.RGBA, func(), error) {
	if _, ok := dev.(*software.Device); !ok {
		return nil, nil, nil, fmt.Errorf("no offscreen surface for %T", dev)
	}
	s := software.NewImageSurface(width, height)
	return s, s.Snapshot, func() {}, nil
}
