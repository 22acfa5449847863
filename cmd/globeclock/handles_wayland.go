//go:build linux && wayland

package main

import (
	"errors"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns the wl_display* and wl_surface* for surface creation.
func nativeHandles(w *glfw.Window) (display, window uintptr, err error) {
	d := glfw.GetWaylandDisplay()
	s := w.GetWaylandWindow()
	if d == nil || s == nil {
		return 0, 0, errors.New("glfw: no Wayland display or surface")
	}
	return uintptr(unsafe.Pointer(d)), uintptr(unsafe.Pointer(s)), nil
}
