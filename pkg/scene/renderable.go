package scene

import (
	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/material"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

// Renderable is a node component holding a triangle mesh in model space.
// A renderable without a mesh or material is skipped when rendering.
type Renderable struct {
	Mesh     []core.Triangle
	UVs      texture.UVMap // optional; missing entries sample at (0,0)
	Material material.Material
}

// NewRenderable allocates a detached node holding a renderable
func (s *Scene) NewRenderable(mesh []core.Triangle, mat material.Material, uvs texture.UVMap) Node {
	return s.NewNode(&Renderable{Mesh: mesh, UVs: uvs, Material: mat})
}

// Renderable returns the node's renderable component, if it has one
func (n Node) Renderable() (*Renderable, bool) {
	r, ok := n.Component().(*Renderable)
	return r, ok && r != nil
}
