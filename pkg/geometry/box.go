package geometry

import "github.com/df07/go-soft-renderer/pkg/core"

// Box returns an axis-aligned box with full extents size, centered at center
func Box(center, size core.Vec3) []core.Triangle {
	h := size.Multiply(0.5)
	lo := center.Subtract(h)
	hi := center.Add(h)

	dx := core.NewVec3(size.X, 0, 0)
	dy := core.NewVec3(0, size.Y, 0)
	dz := core.NewVec3(0, 0, size.Z)

	faces := [][]core.Triangle{
		Quad(core.NewVec3(hi.X, lo.Y, lo.Z), dy, dz), // +X
		Quad(lo, dz, dy),                             // -X
		Quad(core.NewVec3(lo.X, hi.Y, lo.Z), dz, dx), // +Y
		Quad(lo, dx, dz),                             // -Y
		Quad(core.NewVec3(lo.X, lo.Y, hi.Z), dx, dy), // +Z
		Quad(lo, dy, dx),                             // -Z
	}

	mesh := make([]core.Triangle, 0, 12)
	for _, f := range faces {
		mesh = append(mesh, f...)
	}
	return mesh
}

// Cube returns a cube with edge length size, centered at center
func Cube(size float64, center core.Vec3) []core.Triangle {
	return Box(center, core.NewVec3(size, size, size))
}
