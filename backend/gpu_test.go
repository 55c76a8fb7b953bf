//go:build !nogpu

package backend

import (
	"testing"

	"github.com/gogpu/canvas/gpu"
)

func TestNoopBackend(t *testing.T) {
	for _, name := range []string{BackendGPU, BackendVulkan, BackendNoop} {
		if !IsRegistered(name) {
			t.Errorf("%q should be auto-registered", name)
		}
	}
	dev, err := Get(BackendNoop)
	if err != nil {
		t.Fatalf("Get(noop) error = %v", err)
	}
	defer dev.Destroy()
	d, ok := dev.(*gpu.Device)
	if !ok {
		t.Fatalf("Get(noop) = %T, want *gpu.Device", dev)
	}
	if d.Context().Kind() != gpu.KindNoop {
		t.Errorf("Kind() = %v, want noop", d.Context().Kind())
	}
}
