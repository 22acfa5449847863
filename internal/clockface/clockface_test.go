package clockface

import (
	"bytes"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

const testSize = 256

func newTestRasterizer() *Rasterizer {
	opts := DefaultOptions()
	opts.Size = testSize
	return New(opts)
}

// alphaAt returns the alpha of the pixel at normalized clock coordinates.
func alphaAt(t *testing.T, pix []byte, x, y float64) byte {
	t.Helper()
	half := float64(testSize) / 2
	px := int(half + x*half)
	py := int(half - y*half)
	if px < 0 || py < 0 || px >= testSize || py >= testSize {
		t.Fatalf("point (%v, %v) outside image", x, y)
	}
	return pix[(py*testSize+px)*4+3]
}

func TestRasterizeSize(t *testing.T) {
	r := newTestRasterizer()
	pix, err := r.Rasterize(0, 0)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if want := testSize * testSize * 4; len(pix) != want {
		t.Errorf("len(pix) = %d, want %d", len(pix), want)
	}
	if r.Size() != testSize {
		t.Errorf("Size() = %d, want %d", r.Size(), testSize)
	}
}

func TestNewDefaultsSize(t *testing.T) {
	r := New(Options{})
	if r.Size() != DefaultSize {
		t.Errorf("Size() = %d, want %d", r.Size(), DefaultSize)
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	tests := []struct {
		name         string
		hour, minute float64
	}{
		{"midnight", 0, 0},
		{"noon", math.Pi, 0},
		{"arbitrary", 1.234, 5.678},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestRasterizer()
			first, err := a.Rasterize(tt.hour, tt.minute)
			if err != nil {
				t.Fatalf("Rasterize: %v", err)
			}
			first = bytes.Clone(first)

			// Draw something else in between on the same rasterizer.
			if _, err := a.Rasterize(tt.hour+2, tt.minute+1); err != nil {
				t.Fatalf("Rasterize: %v", err)
			}
			again, err := a.Rasterize(tt.hour, tt.minute)
			if err != nil {
				t.Fatalf("Rasterize: %v", err)
			}
			if !bytes.Equal(first, again) {
				t.Error("same angles on a reused rasterizer produced different pixels")
			}

			fresh, err := newTestRasterizer().Rasterize(tt.hour, tt.minute)
			if err != nil {
				t.Fatalf("Rasterize: %v", err)
			}
			if !bytes.Equal(first, fresh) {
				t.Error("same angles on a fresh rasterizer produced different pixels")
			}
		})
	}
}

func TestRasterizeClearsToTransparent(t *testing.T) {
	r := newTestRasterizer()
	pix, err := r.Rasterize(0.5, 2.5)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}

	// The corners lie outside the tick ring.
	corners := [][2]int{{0, 0}, {testSize - 1, 0}, {0, testSize - 1}, {testSize - 1, testSize - 1}}
	for _, c := range corners {
		i := (c[1]*testSize + c[0]) * 4
		if got := pix[i : i+4]; !bytes.Equal(got, []byte{0, 0, 0, 0}) {
			t.Errorf("corner %v = %v, want transparent", c, got)
		}
	}
}

func TestHandsFollowAngles(t *testing.T) {
	r := newTestRasterizer()

	// Both hands up at midnight.
	pix, err := r.Rasterize(0, 0)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if a := alphaAt(t, pix, 0, 0.3); a < 128 {
		t.Errorf("alpha above centre at 00:00 = %d, want opaque", a)
	}
	if a := alphaAt(t, pix, 0, -0.3); a != 0 {
		t.Errorf("alpha below centre at 00:00 = %d, want 0", a)
	}

	// Hour hand down, minute hand at 3 o'clock: the previous frame's
	// upward hands must be gone.
	pix, err = r.Rasterize(math.Pi, math.Pi/2)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if a := alphaAt(t, pix, 0, 0.3); a != 0 {
		t.Errorf("alpha above centre after redraw = %d, want 0", a)
	}
	if a := alphaAt(t, pix, 0, -0.3); a < 128 {
		t.Errorf("alpha below centre with hour hand at π = %d, want opaque", a)
	}
	if a := alphaAt(t, pix, 0.6, 0); a < 128 {
		t.Errorf("alpha right of centre with minute hand at π/2 = %d, want opaque", a)
	}
	if a := alphaAt(t, pix, -0.6, 0); a != 0 {
		t.Errorf("alpha left of centre = %d, want 0", a)
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name         string
		major, minor int
	}{
		{"clock", 12, 4},
		{"majors only", 24, 0},
		{"none", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.MajorTicks = tt.major
			opts.MinorTicks = tt.minor
			major, minor := buildTicks(opts)

			wantMinor := tt.major * tt.minor
			if got := countSegments(major); got != tt.major {
				t.Errorf("major segments = %d, want %d", got, tt.major)
			}
			if got := countSegments(minor); got != wantMinor {
				t.Errorf("minor segments = %d, want %d", got, wantMinor)
			}
		})
	}
}

func TestMajorTickAtTwelve(t *testing.T) {
	r := newTestRasterizer()
	// Hands pointing down so only the tick is at the top.
	pix, err := r.Rasterize(math.Pi, math.Pi)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if a := alphaAt(t, pix, 0, 0.9); a < 128 {
		t.Errorf("alpha on 12 o'clock tick = %d, want opaque", a)
	}
	if a := alphaAt(t, pix, 0, 0.7); a != 0 {
		t.Errorf("alpha inside tick ring = %d, want 0", a)
	}
}

// countSegments counts MoveTo verbs, one per tick.
func countSegments(p *gg.Path) int {
	n := 0
	p.Iterate(func(verb gg.PathVerb, _ []float64) {
		if verb == gg.MoveTo {
			n++
		}
	})
	return n
}
