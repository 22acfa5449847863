//go:build linux && !wayland

package main

import (
	"errors"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns the X11 Display* and Window for surface creation.
func nativeHandles(w *glfw.Window) (display, window uintptr, err error) {
	d := glfw.GetX11Display()
	if d == nil {
		return 0, 0, errors.New("glfw: no X11 display")
	}
	return uintptr(unsafe.Pointer(d)), uintptr(w.GetX11Window()), nil
}
