package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/device"
)

// Backend name constants.
const (
	// BackendSoftware is the CPU device.
	BackendSoftware = "software"
	// BackendGPU is the wgpu HAL device on Vulkan.
	BackendGPU = "gpu"
	// BackendVulkan is an alias of BackendGPU.
	BackendVulkan = "vulkan"
	// BackendNoop is the wgpu noop device.
	BackendNoop = "noop"
)

// ErrBackendNotAvailable is returned when a requested backend is not
// registered or cannot create a device.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Factory creates a new device.
type Factory func() (device.Device, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default (first available wins).
	backendPriority = []string{BackendGPU, BackendSoftware}
)

// Register registers a factory with the given name.
// This is typically called from init() functions.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the sorted names of registered backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get creates a device with the named backend.
func Get(name string) (device.Device, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", ErrBackendNotAvailable, name)
	}
	dev, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendNotAvailable, name, err)
	}
	return dev, nil
}

// Default creates a device with the best available backend and returns
// it with the backend's name. Backends that fail to create a device are
// logged and skipped.
func Default() (device.Device, string, error) {
	var errs []error
	for _, name := range backendPriority {
		if !IsRegistered(name) {
			continue
		}
		dev, err := Get(name)
		if err == nil {
			return dev, name, nil
		}
		canvas.Logger().Info("backend: skipping unavailable backend", "name", name, "err", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, "", fmt.Errorf("%w: no backend registered", ErrBackendNotAvailable)
	}
	return nil, "", errors.Join(errs...)
}

// MustDefault returns the default device or panics.
func MustDefault() device.Device {
	dev, _, err := Default()
	if err != nil {
		panic(err)
	}
	return dev
}
