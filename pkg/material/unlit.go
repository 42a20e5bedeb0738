package material

import (
	"image/color"

	"github.com/df07/go-soft-renderer/pkg/texture"
)

// Wireframe draws only triangle edges, in a fixed color
type Wireframe struct {
	Base
	Color color.RGBA
}

// NewWireframe creates a two-sided wireframe material
func NewWireframe(c color.RGBA) *Wireframe {
	return &Wireframe{Base: Base{DoubleSided: true}, Color: c}
}

// Edge returns the wireframe color
func (w *Wireframe) Edge(ShaderContext) color.RGBA {
	return w.Color
}

// UnlitColor fills triangles and their edges with a fixed color
type UnlitColor struct {
	Base
	Color color.RGBA
}

// NewUnlitColor creates a single-sided unlit color material
func NewUnlitColor(c color.RGBA) *UnlitColor {
	return &UnlitColor{Color: c}
}

// Fragment returns the material color
func (u *UnlitColor) Fragment(ShaderContext) color.RGBA {
	return u.Color
}

// UnlitTexture fills triangles with a texture sampled at the interpolated UV
type UnlitTexture struct {
	Base
	Texture texture.Texture2D
}

// NewUnlitTexture creates a single-sided unlit texture material
func NewUnlitTexture(tex texture.Texture2D) *UnlitTexture {
	return &UnlitTexture{Texture: tex}
}

// Fragment samples the texture
func (u *UnlitTexture) Fragment(ctx ShaderContext) color.RGBA {
	return texture.Sample(u.Texture, ctx.UV)
}
