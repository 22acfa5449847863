//go:build windows

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns the window's HWND; Windows needs no display handle.
func nativeHandles(w *glfw.Window) (display, window uintptr, err error) {
	return 0, uintptr(unsafe.Pointer(w.GetWin32Window())), nil
}
