// Package geometry generates triangle meshes for common shapes.
//
// Every generator winds its triangles counter-clockwise when seen from
// outside, so Triangle.Normal points outward.
package geometry

import "github.com/df07/go-soft-renderer/pkg/core"

// Quad returns the parallelogram corner, corner+u, corner+u+v, corner+v as
// two triangles facing along u x v
func Quad(corner, u, v core.Vec3) []core.Triangle {
	p0 := corner
	p1 := corner.Add(u)
	p2 := corner.Add(u).Add(v)
	p3 := corner.Add(v)
	return []core.Triangle{
		core.NewTriangle(p0, p1, p2),
		core.NewTriangle(p0, p2, p3),
	}
}

// Plane returns a square of the given size centered at center, lying in the
// XY plane and facing +Z
func Plane(center core.Vec3, size float64) []core.Triangle {
	h := size / 2
	corner := center.Add(core.NewVec3(-h, -h, 0))
	return Quad(corner, core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0))
}
