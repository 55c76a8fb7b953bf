package backend

import (
	"github.com/gogpu/canvas/device"
	"github.com/gogpu/canvas/device/software"
)

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() (device.Device, error) {
		return software.New(), nil
	})
}
