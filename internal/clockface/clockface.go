// Package clockface rasterizes an analog clock face into a CPU pixel buffer.
//
// The rasterizer is a pure function of the two hand angles: every call to
// Rasterize clears the buffer to transparent and re-strokes the tick marks
// and both hands, so no drawing state carries over between frames.
package clockface

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// Rasterizer draws the clock face with gg's software renderer.
//
// Geometry is authored in normalized clock space ([-1, 1], Y up) and mapped
// to pixels through a translate/flip/scale matrix. Tick paths are built once
// in New; hand paths are fixed segments along +Y that are rotated per frame.
type Rasterizer struct {
	opts Options

	pixmap *gg.Pixmap
	dc     *gg.Context

	// base maps normalized clock space to pixel space.
	base gg.Matrix
	// pxPerUnit converts normalized widths to pixel widths.
	pxPerUnit float64

	// Tick paths, already in pixel space.
	majorTicks *gg.Path
	minorTicks *gg.Path

	// Hand paths in normalized space, pointing at 12 o'clock.
	hourHand   *gg.Path
	minuteHand *gg.Path

	majorStroke  gg.Stroke
	minorStroke  gg.Stroke
	hourStroke   gg.Stroke
	minuteStroke gg.Stroke
}

// New creates a rasterizer and precomputes the static tick geometry.
func New(opts Options) *Rasterizer {
	opts = opts.withDefaults()

	pm := gg.NewPixmap(opts.Size, opts.Size)
	half := float64(opts.Size) / 2

	r := &Rasterizer{
		opts:      opts,
		pixmap:    pm,
		dc:        gg.NewContextForPixmap(pm),
		base:      gg.Translate(half, half).Multiply(gg.Scale(half, -half)),
		pxPerUnit: half,
	}

	major, minor := buildTicks(opts)
	r.majorTicks = major.Transform(r.base)
	r.minorTicks = minor.Transform(r.base)
	r.hourHand = handPath(opts.HourHandLength)
	r.minuteHand = handPath(opts.MinuteHandLength)

	r.majorStroke = r.stroke(opts.MajorTickWidth)
	r.minorStroke = r.stroke(opts.MinorTickWidth)
	r.hourStroke = r.stroke(opts.HourHandWidth)
	r.minuteStroke = r.stroke(opts.MinuteHandWidth)
	return r
}

func (r *Rasterizer) stroke(width float64) gg.Stroke {
	return gg.DefaultStroke().
		WithWidth(width * r.pxPerUnit).
		WithCap(gg.LineCapRound)
}

// Size returns the edge length of the output image in pixels.
func (r *Rasterizer) Size() int { return r.opts.Size }

// Rasterize redraws the whole face for the given hand angles and returns the
// premultiplied RGBA pixels, row-major with a stride of Size()*4 bytes.
//
// Angles are in radians, measured clockwise from 12 o'clock. The returned
// slice aliases the rasterizer's buffer and is overwritten by the next call.
func (r *Rasterizer) Rasterize(hourAngle, minuteAngle float64) ([]byte, error) {
	dc := r.dc
	dc.Identity()
	dc.Clear()

	dc.SetRGBA(r.opts.TickColor.R, r.opts.TickColor.G, r.opts.TickColor.B, r.opts.TickColor.A)
	if err := r.strokePath(r.majorTicks, r.majorStroke); err != nil {
		return nil, fmt.Errorf("stroke major ticks: %w", err)
	}
	if err := r.strokePath(r.minorTicks, r.minorStroke); err != nil {
		return nil, fmt.Errorf("stroke minor ticks: %w", err)
	}

	dc.SetRGBA(r.opts.HandColor.R, r.opts.HandColor.G, r.opts.HandColor.B, r.opts.HandColor.A)
	if err := r.strokePath(r.hand(r.hourHand, hourAngle), r.hourStroke); err != nil {
		return nil, fmt.Errorf("stroke hour hand: %w", err)
	}
	if err := r.strokePath(r.hand(r.minuteHand, minuteAngle), r.minuteStroke); err != nil {
		return nil, fmt.Errorf("stroke minute hand: %w", err)
	}

	return r.pixmap.Data(), nil
}

func (r *Rasterizer) strokePath(p *gg.Path, s gg.Stroke) error {
	if p == nil {
		return nil
	}
	r.dc.SetStroke(s)
	return r.dc.StrokePath(p)
}

// hand rotates a normalized hand path clockwise by angle and maps it to
// pixel space. In Y-up space a clockwise turn is a negative rotation.
func (r *Rasterizer) hand(p *gg.Path, angle float64) *gg.Path {
	return p.Transform(r.base.Multiply(gg.Rotate(-angle)))
}

// handPath returns a segment from the centre to length along +Y.
func handPath(length float64) *gg.Path {
	p := gg.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(0, length)
	return p
}

// buildTicks returns the major and minor tick paths in normalized space.
// Each major tick is followed by opts.MinorTicks shorter ticks that split
// the interval to the next major tick evenly.
func buildTicks(opts Options) (major, minor *gg.Path) {
	major = gg.NewPath()
	minor = gg.NewPath()
	if opts.MajorTicks == 0 {
		return major, minor
	}

	majorStep := 2 * math.Pi / float64(opts.MajorTicks)
	minorStep := majorStep / float64(opts.MinorTicks+1)
	for i := 0; i < opts.MajorTicks; i++ {
		a := float64(i) * majorStep
		addTick(major, a, opts.MajorTickInner, opts.TickOuter)
		for j := 1; j <= opts.MinorTicks; j++ {
			addTick(minor, a+float64(j)*minorStep, opts.MinorTickInner, opts.TickOuter)
		}
	}
	return major, minor
}

// addTick appends a radial segment at clockwise angle a from 12 o'clock.
func addTick(p *gg.Path, a, inner, outer float64) {
	sin, cos := math.Sincos(a)
	p.MoveTo(inner*sin, inner*cos)
	p.LineTo(outer*sin, outer*cos)
}
