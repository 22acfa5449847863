package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"

	// Texture formats accepted for the globe.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var textureExts = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp"}

// Texture decodes textures/<name>.* into tightly packed RGBA. Images whose
// larger side exceeds maxDim are resampled down, keeping the aspect ratio.
// maxDim <= 0 disables the limit.
func (l *Loader) Texture(name string, maxDim int) (*image.RGBA, error) {
	path, err := l.findTexture(name)
	if err != nil {
		return nil, err
	}
	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s from %s: %w", name, l.origin, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrTextureDecode, path, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w %s: empty image", ErrTextureDecode, path)
	}

	w, h := fitWithin(b.Dx(), b.Dy(), maxDim)
	if w != b.Dx() || h != b.Dy() {
		logger.Load().Warn("texture exceeds device limit, downscaling",
			"name", name, "width", b.Dx(), "height", b.Dy(), "max", maxDim)
	}
	logger.Load().Info("texture loaded", "name", name, "format", format,
		"origin", l.origin, "width", w, "height", h)
	return toRGBA(img, w, h), nil
}

func (l *Loader) findTexture(name string) (string, error) {
	for _, ext := range textureExts {
		path := "textures/" + name + ext
		if _, err := fs.Stat(l.fsys, path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("load texture %s from %s: %w", name, l.origin, err)
		}
	}
	return "", fmt.Errorf("load texture %s from %s: %w", name, l.origin, fs.ErrNotExist)
}

// fitWithin scales w×h down so neither side exceeds maxDim.
func fitWithin(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}

// toRGBA converts src to an origin-based RGBA image of w×h.
func toRGBA(src image.Image, w, h int) *image.RGBA {
	b := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) && b.Dx() == w && b.Dy() == h {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
