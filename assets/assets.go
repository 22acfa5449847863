// Package assets loads the globe textures and WGSL shaders, either from the
// bundle compiled into the binary or from a directory on disk with the same
// layout:
//
//	shaders/globe.wgsl
//	shaders/clock_face.wgsl
//	textures/day.{png,jpg,jpeg,webp,bmp}
//	textures/night.{png,jpg,jpeg,webp,bmp}
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gogpu/globeclock/internal/logging"
)

//go:embed shaders/*.wgsl textures/*
var bundle embed.FS

// Asset names understood by Loader.
const (
	GlobeShader     = "globe"
	ClockFaceShader = "clock_face"
	DayTexture      = "day"
	NightTexture    = "night"
)

var (
	// ErrShaderInvalid is returned when a shader fails to parse or validate.
	ErrShaderInvalid = errors.New("assets: invalid shader")

	// ErrTextureDecode is returned when a texture cannot be decoded.
	ErrTextureDecode = errors.New("assets: cannot decode texture")
)

var logger logging.Ref

// SetLogger updates the package logger. Called by globeclock.SetLogger.
func SetLogger(l *slog.Logger) { logger.Store(l) }

// Loader reads assets from one file system.
type Loader struct {
	fsys   fs.FS
	origin string
}

// Open returns a loader rooted at root, or the embedded bundle when root is
// empty.
func Open(root string) *Loader {
	if root == "" {
		return &Loader{fsys: bundle, origin: "embedded"}
	}
	return &Loader{fsys: os.DirFS(root), origin: root}
}

// FromFS returns a loader over an arbitrary file system.
func FromFS(fsys fs.FS, origin string) *Loader {
	return &Loader{fsys: fsys, origin: origin}
}

// Origin describes where assets are read from.
func (l *Loader) Origin() string { return l.origin }

// Shader reads shaders/<name>.wgsl and validates it.
func (l *Loader) Shader(name string) (string, error) {
	path := "shaders/" + name + ".wgsl"
	src, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return "", fmt.Errorf("load shader %s from %s: %w", name, l.origin, err)
	}
	if err := validateShader(string(src)); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrShaderInvalid, path, err)
	}
	logger.Load().Debug("shader loaded", "name", name, "origin", l.origin, "bytes", len(src))
	return string(src), nil
}
