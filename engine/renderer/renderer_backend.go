package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel for the main pass. WebGPU only
// guarantees 1 and 4; 8 and 16 depend on the adapter.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x is the default.
	MSAA4x MSAASampleCount = 4

	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// ParseMSAASampleCount maps a sample count given on the command line to an MSAASampleCount.
//
// Parameters:
//   - count: 1, 4, 8 or 16
//
// Returns:
//   - MSAASampleCount: the matching sample count
//   - error: an error if count is not a supported value
func ParseMSAASampleCount(count int) (MSAASampleCount, error) {
	switch MSAASampleCount(count) {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return MSAASampleCount(count), nil
	}
	return 0, fmt.Errorf("unsupported MSAA sample count %d (want 1, 4, 8 or 16)", count)
}

// SurfaceSource is anything that can hand the renderer a platform surface and its size,
// normally the window.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
