package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// MeshBounds returns the box enclosing every vertex of mesh
func MeshBounds(mesh []Triangle) AABB {
	if len(mesh) == 0 {
		return AABB{}
	}
	bounds := NewAABBFromPoints(mesh[0].A, mesh[0].B, mesh[0].C)
	for _, t := range mesh[1:] {
		bounds = bounds.Union(NewAABBFromPoints(t.A, t.B, t.C))
	}
	return bounds
}

// Distance returns the distance from p to the nearest point of the box,
// zero when p is inside
func (aabb AABB) Distance(p Vec3) float64 {
	clamped := Vec3{
		X: math.Max(aabb.Min.X, math.Min(p.X, aabb.Max.X)),
		Y: math.Max(aabb.Min.Y, math.Min(p.Y, aabb.Max.Y)),
		Z: math.Max(aabb.Min.Z, math.Min(p.Z, aabb.Max.Z)),
	}
	return clamped.Distance(p)
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}
