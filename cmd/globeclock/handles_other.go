//go:build !linux && !windows

package main

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles reports that this platform has no surface path yet. macOS
// needs the window's content NSView, which glfw does not expose.
func nativeHandles(*glfw.Window) (display, window uintptr, err error) {
	return 0, 0, fmt.Errorf("globeclock: window surfaces are not supported on %s", runtime.GOOS)
}
