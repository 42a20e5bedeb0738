// Package texture provides pixel-grid textures and vertex UV maps.
package texture

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// WrapMode controls how out-of-range pixel coordinates map back into a texture
type WrapMode int

const (
	// Clamp pins coordinates to the nearest edge pixel
	Clamp WrapMode = iota
	// Repeat tiles the texture, taking coordinates modulo the dimension
	Repeat
)

func (w WrapMode) String() string {
	switch w {
	case Clamp:
		return "clamp"
	case Repeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Texture2D is a 2D grid of colors addressed by integer pixel coordinates.
// At applies the texture's wrap policy to out-of-range coordinates.
type Texture2D interface {
	Width() int
	Height() int
	At(x, y int) color.RGBA
}

// PixelTexture is a Texture2D backed by an RGBA image
type PixelTexture struct {
	Image *image.RGBA
	Wrap  WrapMode
}

// NewPixelTexture converts any image into a texture
func NewPixelTexture(img image.Image, wrap WrapMode) *PixelTexture {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = clone.AsRGBA(img)
	}
	return &PixelTexture{Image: rgba, Wrap: wrap}
}

// FromColors builds a texture from rows of colors, rows[y][x].
// Every row must have the same length as the first.
func FromColors(rows [][]color.RGBA, wrap WrapMode) *PixelTexture {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y, row := range rows {
		for x := 0; x < width && x < len(row); x++ {
			img.SetRGBA(x, y, row[x])
		}
	}
	return &PixelTexture{Image: img, Wrap: wrap}
}

// Width returns the texture width in pixels
func (t *PixelTexture) Width() int {
	if t == nil || t.Image == nil {
		return 0
	}
	return t.Image.Rect.Dx()
}

// Height returns the texture height in pixels
func (t *PixelTexture) Height() int {
	if t == nil || t.Image == nil {
		return 0
	}
	return t.Image.Rect.Dy()
}

// At returns the pixel at (x, y) after applying the wrap mode.
// An empty texture is fully transparent.
func (t *PixelTexture) At(x, y int) color.RGBA {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return core.Transparent
	}
	x = t.Wrap.apply(x, w)
	y = t.Wrap.apply(y, h)
	origin := t.Image.Rect.Min
	return t.Image.RGBAAt(origin.X+x, origin.Y+y)
}

// apply maps i into [0, n)
func (w WrapMode) apply(i, n int) int {
	if w == Repeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Sample looks up the texel for a UV coordinate: u and v are scaled by the
// texture's width and height and truncated before wrapping.
func Sample(tex Texture2D, uv core.Vec2) color.RGBA {
	if tex == nil {
		return core.Transparent
	}
	x := int(uv.X * float64(tex.Width()))
	y := int(uv.Y * float64(tex.Height()))
	return tex.At(x, y)
}
