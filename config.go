package globeclock

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/globeclock/internal/clockface"
	"github.com/gogpu/globeclock/internal/timeparam"
)

// ErrInvalidConfig is returned by [Config.Validate] and wraps every
// configuration problem.
var ErrInvalidConfig = errors.New("globeclock: invalid config")

// ConfigEnv names the environment variable holding an optional YAML config
// file path.
const ConfigEnv = "GLOBECLOCK_CONFIG"

// DefaultBackground is the clear color behind the globe.
const DefaultBackground = "#0b0d17"

// Clock raster size limits, in pixels.
const (
	MinClockSize = 16
	MaxClockSize = 8192
)

// Config holds everything a [Scene] needs besides the GPU handles.
type Config struct {
	// ClockSize is the edge length of the clock face raster in pixels.
	ClockSize int

	// MajorTicks is the number of hour ticks; MinorTicks the number of
	// shorter ticks between two hour ticks.
	MajorTicks int
	MinorTicks int

	// Background is the frame clear color.
	Background gg.RGBA

	// AssetsRoot, when set, is a directory with shaders/ and textures/
	// that replaces the bundled assets.
	AssetsRoot string

	// PhaseOffset is the globe rotation at 00:00 UTC, in radians.
	PhaseOffset float64

	// MinLatitude and MaxLatitude clip the drawn globe, in radians.
	MinLatitude float64
	MaxLatitude float64

	// GlobeScale and GlobeOffset place the globe within the clock square.
	GlobeScale  float32
	GlobeOffset mgl32.Vec2

	// DeflectionPoint is the view centre offset from the sub-solar point,
	// as (longitude east, latitude) in radians.
	DeflectionPoint mgl32.Vec2
}

// DefaultConfig returns the desktop clock configuration.
func DefaultConfig() Config {
	bg, _ := gg.ParseHex(DefaultBackground)
	return Config{
		ClockSize:       clockface.DefaultSize,
		MajorTicks:      12,
		MinorTicks:      4,
		Background:      bg,
		PhaseOffset:     timeparam.DefaultPhaseOffset,
		MinLatitude:     -math.Pi / 2,
		MaxLatitude:     math.Pi / 2,
		GlobeScale:      0.8,
		DeflectionPoint: mgl32.Vec2{1.2, 0.4},
	}
}

// NewConfig returns DefaultConfig with opts applied.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Validate reports the first problem found, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.ClockSize < MinClockSize || c.ClockSize > MaxClockSize:
		return fmt.Errorf("%w: clock size %d outside [%d, %d]", ErrInvalidConfig, c.ClockSize, MinClockSize, MaxClockSize)
	case c.MajorTicks < 0 || c.MinorTicks < 0:
		return fmt.Errorf("%w: negative tick count (%d major, %d minor)", ErrInvalidConfig, c.MajorTicks, c.MinorTicks)
	case c.MinorTicks > 0 && c.MajorTicks == 0:
		return fmt.Errorf("%w: minor ticks need at least one major tick", ErrInvalidConfig)
	case c.MinLatitude < -math.Pi/2 || c.MaxLatitude > math.Pi/2:
		return fmt.Errorf("%w: latitude bounds [%g, %g] exceed ±π/2", ErrInvalidConfig, c.MinLatitude, c.MaxLatitude)
	case c.MinLatitude >= c.MaxLatitude:
		return fmt.Errorf("%w: min latitude %g not below max latitude %g", ErrInvalidConfig, c.MinLatitude, c.MaxLatitude)
	case c.GlobeScale <= 0:
		return fmt.Errorf("%w: globe scale %g must be positive", ErrInvalidConfig, c.GlobeScale)
	case math.IsNaN(c.PhaseOffset) || math.IsInf(c.PhaseOffset, 0):
		return fmt.Errorf("%w: phase offset is not finite", ErrInvalidConfig)
	}
	return nil
}

// GlobeTransform returns the local placement matrix of the globe.
func (c *Config) GlobeTransform() mgl32.Mat4 {
	return mgl32.Translate3D(c.GlobeOffset[0], c.GlobeOffset[1], 0).
		Mul4(mgl32.Scale3D(c.GlobeScale, c.GlobeScale, 1))
}

// ClockOptions returns the rasterizer options for this config.
func (c *Config) ClockOptions() clockface.Options {
	opts := clockface.DefaultOptions()
	opts.Size = c.ClockSize
	opts.MajorTicks = c.MajorTicks
	opts.MinorTicks = c.MinorTicks
	return opts
}

// fileConfig is the YAML form of Config. Absent keys keep their defaults.
type fileConfig struct {
	ClockSize        *int      `yaml:"clock_size"`
	MajorTicks       *int      `yaml:"major_ticks"`
	MinorTicks       *int      `yaml:"minor_ticks"`
	Background       *string   `yaml:"background"`
	AssetsRoot       *string   `yaml:"assets_root"`
	PhaseOffsetHours *float64  `yaml:"phase_offset_hours"`
	MinLatitude      *float64  `yaml:"min_latitude_deg"`
	MaxLatitude      *float64  `yaml:"max_latitude_deg"`
	GlobeScale       *float32  `yaml:"globe_scale"`
	GlobeOffset      []float32 `yaml:"globe_offset"`
	DeflectionPoint  []float32 `yaml:"deflection_point"`
}

func (f *fileConfig) apply(cfg *Config) error {
	if f.ClockSize != nil {
		cfg.ClockSize = *f.ClockSize
	}
	if f.MajorTicks != nil {
		cfg.MajorTicks = *f.MajorTicks
	}
	if f.MinorTicks != nil {
		cfg.MinorTicks = *f.MinorTicks
	}
	if f.Background != nil {
		c, err := gg.ParseHex(*f.Background)
		if err != nil {
			return fmt.Errorf("%w: background: %w", ErrInvalidConfig, err)
		}
		cfg.Background = c
	}
	if f.AssetsRoot != nil {
		cfg.AssetsRoot = *f.AssetsRoot
	}
	if f.PhaseOffsetHours != nil {
		cfg.PhaseOffset = *f.PhaseOffsetHours / 24 * 2 * math.Pi
	}
	if f.MinLatitude != nil {
		cfg.MinLatitude = *f.MinLatitude * math.Pi / 180
	}
	if f.MaxLatitude != nil {
		cfg.MaxLatitude = *f.MaxLatitude * math.Pi / 180
	}
	if f.GlobeScale != nil {
		cfg.GlobeScale = *f.GlobeScale
	}
	if f.GlobeOffset != nil {
		v, err := vec2("globe_offset", f.GlobeOffset)
		if err != nil {
			return err
		}
		cfg.GlobeOffset = v
	}
	if f.DeflectionPoint != nil {
		v, err := vec2("deflection_point", f.DeflectionPoint)
		if err != nil {
			return err
		}
		cfg.DeflectionPoint = v
	}
	return nil
}

func vec2(key string, v []float32) (mgl32.Vec2, error) {
	if len(v) != 2 {
		return mgl32.Vec2{}, fmt.Errorf("%w: %s needs 2 values, got %d", ErrInvalidConfig, key, len(v))
	}
	return mgl32.Vec2{v[0], v[1]}, nil
}

// ParseConfig decodes YAML over base. Unknown keys are rejected.
func ParseConfig(data []byte, base Config) (Config, error) {
	var f fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg := base
	if err := f.apply(&cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path over base. An empty path or a
// missing file yields base unchanged.
func LoadConfig(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		Logger().Debug("globeclock: config file not found, using defaults", "path", path)
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data, base)
	if err != nil {
		return base, fmt.Errorf("config %s: %w", path, err)
	}
	Logger().Info("globeclock: config loaded", "path", path)
	return cfg, nil
}

// LoadConfigFromEnv applies the file named by GLOBECLOCK_CONFIG, if any.
func LoadConfigFromEnv(base Config) (Config, error) {
	return LoadConfig(os.Getenv(ConfigEnv), base)
}
