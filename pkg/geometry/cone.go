package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// Cone returns a cone or frustum from baseCenter to topCenter. A topRadius
// of 0 gives a pointed cone; equal radii give a cylinder. When capped is
// true the circular ends are closed with triangle fans.
func Cone(baseCenter core.Vec3, baseRadius float64, topCenter core.Vec3, topRadius float64, segments int, capped bool) ([]core.Triangle, error) {
	if baseRadius < 0 || topRadius < 0 {
		return nil, fmt.Errorf("radii must be non-negative, got base=%g top=%g", baseRadius, topRadius)
	}
	if baseRadius == 0 && topRadius == 0 {
		return nil, fmt.Errorf("at least one radius must be positive")
	}
	axis := topCenter.Subtract(baseCenter)
	if axis.Length() == 0 {
		return nil, fmt.Errorf("height must be positive (base and top centers cannot be the same)")
	}
	segments = max(segments, 3)
	u, v := perpendicularBasis(axis.Normalize())

	rim := func(center core.Vec3, radius float64, i int) core.Vec3 {
		phi := 2 * math.Pi * float64(i%segments) / float64(segments)
		offset := u.Multiply(radius * math.Cos(phi)).Add(v.Multiply(radius * math.Sin(phi)))
		return center.Add(offset)
	}

	var mesh []core.Triangle
	for i := 0; i < segments; i++ {
		b0, b1 := rim(baseCenter, baseRadius, i), rim(baseCenter, baseRadius, i+1)
		t0, t1 := rim(topCenter, topRadius, i), rim(topCenter, topRadius, i+1)

		// A zero radius collapses one triangle of each side quad
		if baseRadius > 0 {
			mesh = append(mesh, core.NewTriangle(b0, b1, t1))
		}
		if topRadius > 0 {
			mesh = append(mesh, core.NewTriangle(b0, t1, t0))
		}
		if capped && baseRadius > 0 {
			mesh = append(mesh, core.NewTriangle(baseCenter, b1, b0))
		}
		if capped && topRadius > 0 {
			mesh = append(mesh, core.NewTriangle(topCenter, t0, t1))
		}
	}
	return mesh, nil
}

// Cylinder returns a cylinder from baseCenter to topCenter, or nil when the
// axis has zero length or the radius is not positive
func Cylinder(baseCenter, topCenter core.Vec3, radius float64, segments int, capped bool) []core.Triangle {
	if radius <= 0 {
		return nil
	}
	mesh, err := Cone(baseCenter, radius, topCenter, radius, segments, capped)
	if err != nil {
		return nil
	}
	return mesh
}

// Disc returns a flat circle facing along normal
func Disc(center, normal core.Vec3, radius float64, segments int) []core.Triangle {
	if radius <= 0 || normal.Length() == 0 {
		return nil
	}
	segments = max(segments, 3)
	u, v := perpendicularBasis(normal.Normalize())

	point := func(i int) core.Vec3 {
		phi := 2 * math.Pi * float64(i%segments) / float64(segments)
		return center.Add(u.Multiply(radius * math.Cos(phi))).Add(v.Multiply(radius * math.Sin(phi)))
	}

	mesh := make([]core.Triangle, 0, segments)
	for i := 0; i < segments; i++ {
		mesh = append(mesh, core.NewTriangle(center, point(i), point(i+1)))
	}
	return mesh
}

// perpendicularBasis returns u and v such that (u, v, w) is a right-handed
// orthonormal basis for the unit vector w
func perpendicularBasis(w core.Vec3) (u, v core.Vec3) {
	helper := core.UnitX
	if math.Abs(w.X) > 0.9 {
		helper = core.UnitY
	}
	u = helper.Cross(w).Normalize()
	v = w.Cross(u)
	return u, v
}
