package clockface

import "github.com/gogpu/gg"

// DefaultSize is the edge length of the square clock image in pixels.
const DefaultSize = 1024

// Options configures a Rasterizer. Lengths and widths are in normalized
// clock units, where the face spans [-1, 1] on both axes.
type Options struct {
	// Size is the edge length of the output image in pixels.
	Size int

	// MajorTicks is the number of evenly spaced full-length ticks.
	MajorTicks int

	// MinorTicks is the number of shorter ticks between consecutive
	// major ticks.
	MinorTicks int

	TickOuter      float64 // outer radius shared by all ticks
	MajorTickInner float64
	MinorTickInner float64

	HourHandLength   float64
	MinuteHandLength float64

	MajorTickWidth  float64
	MinorTickWidth  float64
	HourHandWidth   float64
	MinuteHandWidth float64

	TickColor gg.RGBA
	HandColor gg.RGBA
}

// DefaultOptions returns the options used by the desktop clock.
func DefaultOptions() Options {
	return Options{
		Size:             DefaultSize,
		MajorTicks:       12,
		MinorTicks:       4,
		TickOuter:        0.96,
		MajorTickInner:   0.84,
		MinorTickInner:   0.91,
		HourHandLength:   0.52,
		MinuteHandLength: 0.82,
		MajorTickWidth:   0.022,
		MinorTickWidth:   0.009,
		HourHandWidth:    0.036,
		MinuteHandWidth:  0.022,
		TickColor:        gg.RGBA2(1, 1, 1, 0.85),
		HandColor:        gg.RGBA2(1, 1, 1, 0.95),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Size <= 0 {
		o.Size = d.Size
	}
	if o.MajorTicks < 0 {
		o.MajorTicks = 0
	}
	if o.MinorTicks < 0 {
		o.MinorTicks = 0
	}
	return o
}
