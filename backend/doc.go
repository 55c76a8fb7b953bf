// Package backend selects a rendering device by name.
//
// Devices are registered via init() functions and created on demand.
// The software device is always available. The gpu devices are compiled
// in unless the nogpu build tag is set.
//
// # Device Selection
//
// Use Default to get the best available device, or Get to request one
// by name:
//
//	// Get the default (best available) device
//	dev, name, err := backend.Default()
//
//	// Or request a specific device
//	dev, err := backend.Get("software")
//
// # Available Backends
//
//   - "software": CPU rasterizer over image.RGBA (always available)
//   - "gpu", "vulkan": wgpu HAL device on the first Vulkan adapter
//   - "noop": wgpu noop device, accepts every command and draws nothing
//
// Default tries "gpu" and falls back to "software". "noop" is never
// chosen by Default.
package backend
