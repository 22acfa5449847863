package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Background clears the frame to a fixed color. It ignores the viewport.
type Background struct {
	color gputypes.Color
}

// NewBackground returns a layer that clears to c.
func NewBackground(c gputypes.Color) *Background {
	return &Background{color: c}
}

// Name implements compositor.Layer.
func (b *Background) Name() string { return "background" }

// Color returns the clear color.
func (b *Background) Color() gputypes.Color { return b.color }

// Draw records a pass that only clears target.
func (b *Background) Draw(enc *wgpu.CommandEncoder, target *wgpu.TextureView) error {
	pass, err := beginPass(enc, "background", target, gputypes.LoadOpClear, b.color)
	if err != nil {
		return err
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("end background pass: %w", err)
	}
	return nil
}
