package geometry

import (
	"math"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// Default sphere tessellation
const (
	DefaultSphereSegments = 16
	DefaultSphereRings    = 12
)

// Sphere returns a UV sphere with the poles on the Z axis. segments is the
// number of divisions around the axis and rings the number from pole to pole.
// Vertices on shared edges are bit-identical, so position-keyed UV maps see
// one vertex per grid point.
func Sphere(radius float64, center core.Vec3, segments, rings int) []core.Triangle {
	segments = max(segments, 3)
	rings = max(rings, 2)

	point := func(i, j int) core.Vec3 {
		switch j {
		case 0:
			return center.Add(core.NewVec3(0, 0, radius))
		case rings:
			return center.Add(core.NewVec3(0, 0, -radius))
		}
		theta := math.Pi * float64(j) / float64(rings)
		phi := 2 * math.Pi * float64(i%segments) / float64(segments)
		return center.Add(core.NewVec3(
			radius*math.Sin(theta)*math.Cos(phi),
			radius*math.Sin(theta)*math.Sin(phi),
			radius*math.Cos(theta),
		))
	}

	mesh := make([]core.Triangle, 0, 2*segments*(rings-1))
	for j := 0; j < rings; j++ {
		for i := 0; i < segments; i++ {
			a := point(i, j)
			b := point(i, j+1)
			c := point(i+1, j+1)
			d := point(i+1, j)

			if j != rings-1 {
				mesh = append(mesh, core.NewTriangle(a, b, c))
			}
			if j != 0 {
				mesh = append(mesh, core.NewTriangle(a, c, d))
			}
		}
	}
	return mesh
}
