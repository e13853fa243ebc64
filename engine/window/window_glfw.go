package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errNotOpen = errors.New("window is not open")

// glfwWindow is the GLFW half of an engineWindow.
type glfwWindow struct {
	handle  *glfw.Window
	running bool
}

// newPlatformWindow opens a GLFW window without a client API and hooks its key and framebuffer
// callbacks into w. GLFW must stay on the thread that initialised it, so the caller's thread is locked.
//
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	// the surface comes from wgpu, not from a GL context
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("glfw create window: %w", err)
	}
	handle.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if w.handleKey(uint32(key), common.KeyAction(action)) {
			platformRequestClose(w)
		}
	})

	// framebuffer size rather than window size: they differ on high-DPI displays and the
	// surface is configured in pixels
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.handleResize(width, height)
	})

	w.width, w.height = handle.GetFramebufferSize()
	w.internalWindow = &glfwWindow{handle: handle, running: true}
	return nil
}

// platformWindow returns the GLFW window behind w, or nil before it is opened.
func platformWindow(w *engineWindow) *glfwWindow {
	gw, _ := w.internalWindow.(*glfwWindow)
	return gw
}

// platformGetSurfaceDescriptor builds the wgpu surface descriptor for the native window
// (Win32, X11, Wayland or Cocoa, picked by wgpuglfw).
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw := platformWindow(w)
	if gw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.handle)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw := platformWindow(w)
	return gw != nil && gw.running && !gw.handle.ShouldClose()
}

// platformRequestClose ends the message loop. The window stays alive until platformCloseWindow.
func platformRequestClose(w *engineWindow) {
	if gw := platformWindow(w); gw != nil {
		gw.running = false
		gw.handle.SetShouldClose(true)
	}
}

// platformCloseWindow destroys the window and shuts GLFW down.
//
// Returns:
//   - error: errNotOpen when the window was never opened or is already closed
func platformCloseWindow(w *engineWindow) error {
	gw := platformWindow(w)
	if gw == nil {
		return errNotOpen
	}
	gw.running = false
	gw.handle.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages drains pending events without blocking and reports whether the loop should go on.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
