package compositor

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// fakeSurface replays a script of acquisition results.
type fakeSurface struct {
	acquireErrs []error // consumed in order; nil or exhausted means success
	configErr   error

	configures   [][2]uint32
	unconfigures int
	frames       []*fakeFrame
	suboptimal   bool
}

func (s *fakeSurface) Configure(w, h uint32) error {
	if s.configErr != nil {
		return s.configErr
	}
	s.configures = append(s.configures, [2]uint32{w, h})
	return nil
}

func (s *fakeSurface) Unconfigure() { s.unconfigures++ }

func (s *fakeSurface) Acquire() (Frame, error) {
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f := &fakeFrame{suboptimal: s.suboptimal}
	s.frames = append(s.frames, f)
	return f, nil
}

type fakeFrame struct {
	presented  bool
	discarded  bool
	suboptimal bool
}

func (f *fakeFrame) View() *wgpu.TextureView { return nil }
func (f *fakeFrame) Suboptimal() bool        { return f.suboptimal }
func (f *fakeFrame) Discard()                { f.discarded = true }

func (f *fakeFrame) Present() error {
	f.presented = true
	return nil
}

type fakeSubmitter struct{ submits int }

func (s *fakeSubmitter) Submit(_ string, record func(*wgpu.CommandEncoder) error) error {
	s.submits++
	return record(nil)
}

// fakeLayer appends its name to a shared log when drawn.
type fakeLayer struct {
	name    string
	log     *[]string
	err     error
	updated time.Time
}

func (l *fakeLayer) Name() string { return l.name }

func (l *fakeLayer) Draw(*wgpu.CommandEncoder, *wgpu.TextureView) error {
	*l.log = append(*l.log, l.name)
	return l.err
}

func (l *fakeLayer) Update(now time.Time) { l.updated = now }

type fakeWindow struct{ w, h int }

func (w *fakeWindow) Size() (int, int)     { return w.w, w.h }
func (w *fakeWindow) ScaleFactor() float64 { return 1 }
func (w *fakeWindow) RequestRedraw()       {}

type harness struct {
	surface   *fakeSurface
	submitter *fakeSubmitter
	window    *fakeWindow
	log       []string
	layers    []*fakeLayer
	comp      *Compositor
}

func newHarness() *harness {
	h := &harness{
		surface:   &fakeSurface{},
		submitter: &fakeSubmitter{},
		window:    &fakeWindow{w: 720, h: 720},
	}
	var layers []Layer
	for _, name := range []string{"background", "globe", "clock_face"} {
		l := &fakeLayer{name: name, log: &h.log}
		h.layers = append(h.layers, l)
		layers = append(layers, l)
	}
	h.comp = New(h.surface, h.submitter, h.window, layers...)
	return h
}

var now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestRedrawDrawsLayersInOrder(t *testing.T) {
	h := newHarness()
	if h.comp.State() != Unconfigured {
		t.Fatalf("initial state = %v, want unconfigured", h.comp.State())
	}

	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}

	want := []string{"background", "globe", "clock_face"}
	if len(h.log) != len(want) {
		t.Fatalf("drawn layers = %v, want %v", h.log, want)
	}
	for i := range want {
		if h.log[i] != want[i] {
			t.Errorf("layer %d = %q, want %q", i, h.log[i], want[i])
		}
	}
	if h.submitter.submits != 1 {
		t.Errorf("submits = %d, want 1", h.submitter.submits)
	}
	if len(h.surface.frames) != 1 || !h.surface.frames[0].presented {
		t.Error("frame was not presented")
	}
	if h.comp.State() != Configured {
		t.Errorf("state = %v, want configured", h.comp.State())
	}
	if got := h.surface.configures; len(got) != 1 || got[0] != [2]uint32{720, 720} {
		t.Errorf("configures = %v, want [[720 720]]", got)
	}
}

func TestLayersIsACopy(t *testing.T) {
	h := newHarness()
	ls := h.comp.Layers()
	ls[0] = nil
	if h.comp.Layers()[0] == nil {
		t.Error("mutating Layers() result changed the compositor")
	}
}

func TestRedrawUpdatesTimeDrivenLayers(t *testing.T) {
	h := newHarness()
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	for _, l := range h.layers {
		if !l.updated.Equal(now) {
			t.Errorf("layer %s updated at %v, want %v", l.name, l.updated, now)
		}
	}
}

func TestRedrawConfiguresOnce(t *testing.T) {
	h := newHarness()
	for i := 0; i < 3; i++ {
		if err := h.comp.Redraw(now.Add(time.Duration(i) * time.Second)); err != nil {
			t.Fatalf("Redraw %d: %v", i, err)
		}
	}
	if n := len(h.surface.configures); n != 1 {
		t.Errorf("configured %d times for a fixed size, want 1", n)
	}
}

func TestSurfaceLostReconfiguresAndCompletes(t *testing.T) {
	h := newHarness()
	h.surface.acquireErrs = []error{wgpu.ErrSurfaceLost}

	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw after surface lost: %v", err)
	}
	if h.surface.unconfigures != 1 {
		t.Errorf("unconfigures = %d, want 1", h.surface.unconfigures)
	}
	if n := len(h.surface.configures); n != 2 {
		t.Errorf("configures = %d, want 2 (initial + recovery)", n)
	}
	if len(h.surface.frames) != 1 || !h.surface.frames[0].presented {
		t.Error("recovered frame was not presented")
	}
	if len(h.log) != 3 {
		t.Errorf("drawn layers = %v, want all three", h.log)
	}
	if h.comp.State() != Configured {
		t.Errorf("state = %v, want configured", h.comp.State())
	}
}

func TestSurfaceLostTwiceSkipsFrame(t *testing.T) {
	h := newHarness()
	h.surface.acquireErrs = []error{wgpu.ErrSurfaceLost, wgpu.ErrSurfaceLost}

	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if len(h.log) != 0 {
		t.Errorf("layers drawn on a skipped frame: %v", h.log)
	}
	if h.comp.State() != Unconfigured {
		t.Errorf("state = %v, want unconfigured", h.comp.State())
	}

	// The next trigger starts over and succeeds.
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("second Redraw: %v", err)
	}
	if len(h.log) != 3 {
		t.Errorf("drawn layers = %v, want all three", h.log)
	}
}

func TestTransientErrorsSkipFrame(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantState State
	}{
		{"timeout", wgpu.ErrTimeout, Configured},
		{"outdated", wgpu.ErrSurfaceOutdated, Unconfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.surface.acquireErrs = []error{tt.err}

			if err := h.comp.Redraw(now); err != nil {
				t.Fatalf("Redraw returned %v, want nil", err)
			}
			if len(h.log) != 0 || h.submitter.submits != 0 {
				t.Errorf("skipped frame drew %v with %d submits", h.log, h.submitter.submits)
			}
			if h.surface.unconfigures != 0 {
				t.Errorf("unconfigures = %d, want 0", h.surface.unconfigures)
			}
			if h.comp.State() != tt.wantState {
				t.Errorf("state = %v, want %v", h.comp.State(), tt.wantState)
			}
		})
	}
}

func TestUnexpectedAcquireErrorIsFatal(t *testing.T) {
	h := newHarness()
	deviceLost := errors.New("device removed")
	h.surface.acquireErrs = []error{deviceLost}

	err := h.comp.Redraw(now)
	if !errors.Is(err, ErrSurfaceAcquire) {
		t.Errorf("error = %v, want ErrSurfaceAcquire", err)
	}
	if !errors.Is(err, deviceLost) {
		t.Errorf("error = %v does not wrap the cause", err)
	}
}

func TestUnexpectedErrorAfterReconfigureIsFatal(t *testing.T) {
	h := newHarness()
	deviceLost := errors.New("device removed")
	h.surface.acquireErrs = []error{wgpu.ErrSurfaceLost, deviceLost}

	if err := h.comp.Redraw(now); !errors.Is(err, ErrSurfaceAcquire) {
		t.Errorf("error = %v, want ErrSurfaceAcquire", err)
	}
}

func TestConfigureErrorPropagates(t *testing.T) {
	h := newHarness()
	h.surface.configErr = errors.New("unsupported size")

	if err := h.comp.Redraw(now); !errors.Is(err, h.surface.configErr) {
		t.Errorf("error = %v, want configure error", err)
	}
	if h.comp.State() != Unconfigured {
		t.Errorf("state = %v, want unconfigured", h.comp.State())
	}
}

func TestLayerErrorDiscardsFrame(t *testing.T) {
	h := newHarness()
	boom := errors.New("boom")
	h.layers[1].err = boom

	err := h.comp.Redraw(now)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want layer error", err)
	}
	if len(h.log) != 2 {
		t.Errorf("drawn layers = %v, want to stop after globe", h.log)
	}
	f := h.surface.frames[0]
	if f.presented || !f.discarded {
		t.Errorf("frame presented=%v discarded=%v, want discarded only", f.presented, f.discarded)
	}
}

func TestWindowResizeReconfigures(t *testing.T) {
	h := newHarness()
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}

	h.window.w = 1440
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	got := h.surface.configures
	if len(got) != 2 || got[1] != [2]uint32{1440, 720} {
		t.Errorf("configures = %v, want second at 1440x720", got)
	}
}

type fakeResizer struct {
	sizes [][2]int
	err   error
}

func (r *fakeResizer) Resize(w, h int) error {
	r.sizes = append(r.sizes, [2]int{w, h})
	return r.err
}

func TestRedrawNotifiesResizersOfPolledSize(t *testing.T) {
	h := newHarness()
	r := &fakeResizer{}
	h.comp.OnResize(r)

	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if len(r.sizes) != 1 || r.sizes[0] != [2]int{720, 720} {
		t.Fatalf("sizes = %v, want [[720 720]]", r.sizes)
	}

	// No Resize call: the size change is only visible through the window.
	h.window.w = 1440
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if len(r.sizes) != 2 || r.sizes[1] != [2]int{1440, 720} {
		t.Errorf("sizes = %v, want second at 1440x720", r.sizes)
	}
}

func TestSameSizeReconfigureSkipsResizers(t *testing.T) {
	h := newHarness()
	r := &fakeResizer{}
	h.comp.OnResize(r)
	h.surface.acquireErrs = []error{nil, wgpu.ErrSurfaceLost}

	for i := 0; i < 2; i++ {
		if err := h.comp.Redraw(now); err != nil {
			t.Fatalf("Redraw %d: %v", i, err)
		}
	}
	if len(h.surface.configures) != 2 {
		t.Fatalf("configures = %v, want a reconfigure after loss", h.surface.configures)
	}
	if len(r.sizes) != 1 {
		t.Errorf("sizes = %v, want only the initial size", r.sizes)
	}
}

func TestResizeNotifiesResizers(t *testing.T) {
	h := newHarness()
	r := &fakeResizer{}
	h.comp.OnResize(r)
	if err := h.comp.Resize(800, 600); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if len(r.sizes) != 1 || r.sizes[0] != [2]int{800, 600} {
		t.Errorf("sizes = %v, want [[800 600]]", r.sizes)
	}
}

func TestResizerErrorPropagates(t *testing.T) {
	h := newHarness()
	boom := errors.New("boom")
	h.comp.OnResize(&fakeResizer{err: boom})
	if err := h.comp.Redraw(now); !errors.Is(err, boom) {
		t.Errorf("Redraw = %v, want %v", err, boom)
	}
	if len(h.log) != 0 {
		t.Errorf("drew %v after a failed resize", h.log)
	}
	if h.comp.State() != Unconfigured {
		t.Errorf("state = %v, want unconfigured so the next redraw retries", h.comp.State())
	}
}

func TestResize(t *testing.T) {
	h := newHarness()
	if err := h.comp.Resize(800, 600); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := h.comp.Resize(0, 0); err != nil {
		t.Fatalf("Resize(0, 0): %v", err)
	}
	if got := h.surface.configures; len(got) != 1 || got[0] != [2]uint32{800, 600} {
		t.Errorf("configures = %v, want [[800 600]]", got)
	}
	if h.comp.State() != Configured {
		t.Errorf("state = %v, want configured", h.comp.State())
	}
}

func TestZeroAreaWindowSkips(t *testing.T) {
	h := newHarness()
	h.window.w, h.window.h = 0, 0
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if len(h.surface.configures) != 0 || len(h.log) != 0 {
		t.Error("zero-area window should neither configure nor draw")
	}
}

func TestScaleFactorSizesSurface(t *testing.T) {
	s := &fakeSurface{}
	var log []string
	c := New(s, &fakeSubmitter{}, gpucontext.NullWindowProvider{W: 720, H: 360, SF: 2},
		&fakeLayer{name: "background", log: &log})

	if err := c.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if got := s.configures; len(got) != 1 || got[0] != [2]uint32{1440, 720} {
		t.Errorf("configures = %v, want [[1440 720]]", got)
	}
}

func TestSuboptimalReconfiguresNextFrame(t *testing.T) {
	h := newHarness()
	h.surface.suboptimal = true
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if h.comp.State() != Unconfigured {
		t.Errorf("state after suboptimal frame = %v, want unconfigured", h.comp.State())
	}

	h.surface.suboptimal = false
	if err := h.comp.Redraw(now); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if n := len(h.surface.configures); n != 2 {
		t.Errorf("configures = %d, want 2", n)
	}
}

func TestChooseFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []gputypes.TextureFormat
		want    gputypes.TextureFormat
		wantErr error
	}{
		{
			name:    "first srgb",
			formats: []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb, gputypes.TextureFormatRGBA8UnormSrgb},
			want:    gputypes.TextureFormatBGRA8UnormSrgb,
		},
		{
			name:    "fallback to first",
			formats: []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm},
			want:    gputypes.TextureFormatRGBA8Unorm,
		},
		{
			name:    "none",
			want:    gputypes.TextureFormatUndefined,
			wantErr: ErrNoSurfaceFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChooseFormat(tt.formats)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("format = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChooseAlphaMode(t *testing.T) {
	if got := ChooseAlphaMode(nil); got != gputypes.CompositeAlphaModeAuto {
		t.Errorf("ChooseAlphaMode(nil) = %v, want auto", got)
	}
	modes := []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeAuto, gputypes.CompositeAlphaModeOpaque}
	if got := ChooseAlphaMode(modes); got != gputypes.CompositeAlphaModeOpaque {
		t.Errorf("ChooseAlphaMode = %v, want opaque", got)
	}
}
