package material

import (
	"image/color"
	"math"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

// DiffuseColor is a Lambertian material with a uniform surface color
type DiffuseColor struct {
	Base
	Color  color.RGBA
	Albedo float64 // Fraction of incoming light reflected
}

// NewDiffuseColor creates a diffuse material with albedo 1
func NewDiffuseColor(c color.RGBA) *DiffuseColor {
	return &DiffuseColor{Color: c, Albedo: 1}
}

// Fragment lights the surface color
func (d *DiffuseColor) Fragment(ctx ShaderContext) color.RGBA {
	return diffuse(ctx, d.Albedo, d.Color)
}

// DiffuseTexture is a Lambertian material whose surface color comes from a texture
type DiffuseTexture struct {
	Base
	Texture texture.Texture2D
	Albedo  float64 // Fraction of incoming light reflected
}

// NewDiffuseTexture creates a textured diffuse material with albedo 1
func NewDiffuseTexture(tex texture.Texture2D) *DiffuseTexture {
	return &DiffuseTexture{Texture: tex, Albedo: 1}
}

// Fragment lights the texel at the interpolated UV
func (d *DiffuseTexture) Fragment(ctx ShaderContext) color.RGBA {
	return diffuse(ctx, d.Albedo, texture.Sample(d.Texture, ctx.UV))
}

// diffuse applies the Lambert term of every light to surface.
// Each light's tint is darkened by its shade and the tints are combined
// multiplicatively, then applied to the surface the same way.
// Without lights the surface is black.
func diffuse(ctx ShaderContext, albedo float64, surface color.RGBA) color.RGBA {
	lighting := core.Black
	for i, light := range ctx.Lights {
		intensity := light.Intensity(ctx.WorldPosition, ctx.WorldNormal)
		direction := light.Direction(ctx.WorldPosition, ctx.WorldNormal)
		shade := (albedo / math.Pi) * intensity * math.Max(direction.Dot(ctx.WorldNormal), 0)

		tint := core.DarkenRGBA(light.Tint(), shade)
		if i == 0 {
			lighting = tint
		} else {
			lighting = core.MixRGBA(lighting, tint)
		}
	}
	return core.MixRGBA(surface, lighting)
}
