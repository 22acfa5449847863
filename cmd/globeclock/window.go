package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
)

// framebufferSizer is the part of *glfw.Window the adapter reads.
type framebufferSizer interface {
	GetFramebufferSize() (width, height int)
}

// glfwWindow adapts a glfw window to gpucontext.WindowProvider. Size reports
// the framebuffer in physical pixels, so ScaleFactor is always 1 and both
// axes come from one glfw query.
type glfwWindow struct {
	w framebufferSizer
}

var _ gpucontext.WindowProvider = glfwWindow{}

func newWindow(w *glfw.Window) glfwWindow { return glfwWindow{w: w} }

func (w glfwWindow) Size() (width, height int) {
	return w.w.GetFramebufferSize()
}

func (w glfwWindow) ScaleFactor() float64 { return 1 }

// RequestRedraw wakes the event loop so the next iteration redraws.
func (w glfwWindow) RequestRedraw() {
	glfw.PostEmptyEvent()
}
