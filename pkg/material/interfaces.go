// Package material defines the shading contract used by the rasterizer and its built-in materials.
package material

import (
	"image/color"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/lights"
)

// ShaderContext carries the per-call values available to shading hooks.
// It is passed by value; shaders cannot affect later calls through it.
type ShaderContext struct {
	ModelToWorld   core.Transform // world transform of the renderable being drawn
	CameraPosition core.Vec3      // world position of the rendering camera
	WorldPosition  core.Vec3      // interpolated world position of the shaded point
	WorldNormal    core.Vec3      // face normal in world space
	ScreenPixel    core.Vec3      // X, Y in pixels and Z as view depth
	UV             core.Vec2      // interpolated texture coordinate
	Lights         []lights.Light // lights active for this frame
}

// WorldToModel returns the inverse of ModelToWorld
func (c ShaderContext) WorldToModel() core.Transform {
	return c.ModelToWorld.Inverse()
}

// Material shades the interior of triangles. Materials that also implement
// VertexShader or EdgeShader override those stages; see Resolve for the defaults.
type Material interface {
	// Fragment returns the color of an interior pixel
	Fragment(ctx ShaderContext) color.RGBA

	// TwoSided disables backface culling
	TwoSided() bool
}

// VertexShader is implemented by materials that draw triangle vertices
type VertexShader interface {
	Vertex(ctx ShaderContext) color.RGBA
}

// EdgeShader is implemented by materials that draw triangle edges differently from their interior
type EdgeShader interface {
	Edge(ctx ShaderContext) color.RGBA
}

// ShadeFunc computes the color of one pixel
type ShadeFunc func(ctx ShaderContext) color.RGBA

// Shaders is the resolved set of hooks for one material
type Shaders struct {
	Vertex   ShadeFunc
	Edge     ShadeFunc
	Fragment ShadeFunc
	TwoSided bool
}

// Resolve builds the shading hooks for m. Vertices default to fully
// transparent and edges default to the material's fragment shader.
func Resolve(m Material) Shaders {
	s := Shaders{
		Vertex:   transparent,
		Edge:     m.Fragment,
		Fragment: m.Fragment,
		TwoSided: m.TwoSided(),
	}
	if v, ok := m.(VertexShader); ok {
		s.Vertex = v.Vertex
	}
	if e, ok := m.(EdgeShader); ok {
		s.Edge = e.Edge
	}
	return s
}

func transparent(ShaderContext) color.RGBA {
	return core.Transparent
}

// Base is an embeddable material that draws nothing
type Base struct {
	DoubleSided bool
}

// Fragment returns fully transparent
func (b Base) Fragment(ShaderContext) color.RGBA {
	return core.Transparent
}

// TwoSided reports whether backface culling is disabled
func (b Base) TwoSided() bool {
	return b.DoubleSided
}
