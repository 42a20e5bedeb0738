package texture

import (
	"image"
	"image/color"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// Checkerboard creates a checkerboard pattern texture
func Checkerboard(width, height, checkSize int, color1, color2 color.RGBA) *PixelTexture {
	if checkSize < 1 {
		checkSize = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color1
			if (x/checkSize+y/checkSize)%2 != 0 {
				c = color2
			}
			img.SetRGBA(x, y, c)
		}
	}

	return &PixelTexture{Image: img, Wrap: Repeat}
}

// UVDebug creates a texture showing texture coordinates as colors.
// U maps to the red channel, V to the green channel.
func UVDebug(width, height int) *PixelTexture {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := ramp(x, width)
			v := ramp(y, height)
			img.SetRGBA(x, y, core.RGB(uint8(255*u), uint8(255*v), 0))
		}
	}

	return &PixelTexture{Image: img, Wrap: Clamp}
}

// Gradient creates a vertical gradient from top (first row) to bottom (last row)
func Gradient(width, height int, top, bottom color.RGBA) *PixelTexture {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		c := core.BlendRGBA(top, bottom, ramp(y, height))
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	return &PixelTexture{Image: img, Wrap: Clamp}
}

// ramp maps i in [0, n) onto [0, 1]
func ramp(i, n int) float64 {
	if n < 2 {
		return 0
	}
	return float64(i) / float64(n-1)
}
