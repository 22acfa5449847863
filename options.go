package globeclock

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg"
)

// Option adjusts a Config. Use with [NewConfig].
//
// Example:
//
//	cfg := globeclock.NewConfig(
//	    globeclock.WithClockSize(512),
//	    globeclock.WithBackground(gg.Hex("#000000")),
//	)
type Option func(*Config)

// WithClockSize sets the clock face raster size in pixels.
func WithClockSize(px int) Option {
	return func(c *Config) {
		c.ClockSize = px
	}
}

// WithTicks sets the number of major ticks and the number of minor ticks
// between two major ticks.
func WithTicks(major, minor int) Option {
	return func(c *Config) {
		c.MajorTicks = major
		c.MinorTicks = minor
	}
}

// WithBackground sets the frame clear color.
func WithBackground(color gg.RGBA) Option {
	return func(c *Config) {
		c.Background = color
	}
}

// WithAssetsRoot loads shaders and textures from dir instead of the bundled
// copies. An empty dir restores the bundle.
func WithAssetsRoot(dir string) Option {
	return func(c *Config) {
		c.AssetsRoot = dir
	}
}

// WithPhaseOffset sets the globe rotation at 00:00 UTC, in radians.
func WithPhaseOffset(radians float64) Option {
	return func(c *Config) {
		c.PhaseOffset = radians
	}
}

// WithLatitudeBounds clips the globe to [minLat, maxLat], in radians.
func WithLatitudeBounds(minLat, maxLat float64) Option {
	return func(c *Config) {
		c.MinLatitude = minLat
		c.MaxLatitude = maxLat
	}
}

// WithGlobeTransform scales the globe and moves its centre to offset,
// both in clock units where the clock square spans [-1, 1].
func WithGlobeTransform(scale float32, offset mgl32.Vec2) Option {
	return func(c *Config) {
		c.GlobeScale = scale
		c.GlobeOffset = offset
	}
}

// WithDeflectionPoint sets the view centre offset from the sub-solar point
// as (longitude east, latitude) in radians.
func WithDeflectionPoint(p mgl32.Vec2) Option {
	return func(c *Config) {
		c.DeflectionPoint = p
	}
}
