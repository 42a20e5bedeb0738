package core

import (
	"image/color"
	"math"
)

// Frequently used colors
var (
	Transparent = color.RGBA{}
	Black       = color.RGBA{A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// RGB returns an opaque color
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// BlendRGBA mixes front over back by amount in [0,1], truncating each channel.
// The result is always opaque.
func BlendRGBA(back, front color.RGBA, amount float64) color.RGBA {
	return color.RGBA{
		R: blendChannel(back.R, front.R, amount),
		G: blendChannel(back.G, front.G, amount),
		B: blendChannel(back.B, front.B, amount),
		A: 255,
	}
}

func blendChannel(back, front uint8, amount float64) uint8 {
	return uint8(float64(front)*amount + float64(back)*(1-amount))
}

// MixRGBA is a multiplicative blend, (a*b)/255 per channel, keeping a's alpha
func MixRGBA(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(a.R) * uint16(b.R) / 255),
		G: uint8(uint16(a.G) * uint16(b.G) / 255),
		B: uint8(uint16(a.B) * uint16(b.B) / 255),
		A: a.A,
	}
}

// DarkenRGBA scales each color channel by shade, wrapping modulo 255.
// Alpha is kept.
func DarkenRGBA(c color.RGBA, shade float64) color.RGBA {
	return color.RGBA{
		R: wrapChannel(shade * float64(c.R)),
		G: wrapChannel(shade * float64(c.G)),
		B: wrapChannel(shade * float64(c.B)),
		A: c.A,
	}
}

func wrapChannel(v float64) uint8 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return uint8(math.Mod(math.Trunc(v), 255))
}
