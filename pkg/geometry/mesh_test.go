package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// centroid returns the average of the triangle vertices
func centroid(t core.Triangle) core.Vec3 {
	return t.A.Add(t.B).Add(t.C).Multiply(1.0 / 3)
}

// assertOutward checks every face normal points away from center
func assertOutward(t *testing.T, mesh []core.Triangle, center core.Vec3) {
	t.Helper()
	for i, tri := range mesh {
		out := centroid(tri).Subtract(center)
		if tri.Normal().Dot(out) <= 0 {
			t.Errorf("triangle %d faces inward: normal %v, centroid offset %v", i, tri.Normal(), out)
		}
	}
}

func TestQuad(t *testing.T) {
	mesh := Quad(core.Vec3{}, core.UnitX, core.UnitY)
	assert.Len(t, mesh, 2)
	for _, tri := range mesh {
		assert.True(t, tri.Normal().ApproxEquals(core.UnitZ, 1e-12), "got %v", tri.Normal())
	}

	plane := Plane(core.NewVec3(0, 0, 2), 4)
	assert.Equal(t, core.NewVec3(-2, -2, 2), plane[0].A)
	assert.Equal(t, core.NewVec3(2, 2, 2), plane[0].C)
}

func TestCube(t *testing.T) {
	center := core.NewVec3(1, 2, 3)
	mesh := Cube(2, center)

	assert.Len(t, mesh, 12)
	assertOutward(t, mesh, center)

	for _, tri := range mesh {
		for _, v := range tri.Vertices() {
			d := v.Subtract(center)
			assert.InDelta(t, 1, math.Abs(d.X), 1e-12)
			assert.InDelta(t, 1, math.Abs(d.Y), 1e-12)
			assert.InDelta(t, 1, math.Abs(d.Z), 1e-12)
		}
	}
}

func TestSphere(t *testing.T) {
	tests := []struct {
		name           string
		segments, rngs int
		expected       int
	}{
		{"coarse", 4, 2, 8},
		{"default", DefaultSphereSegments, DefaultSphereRings, 2 * DefaultSphereSegments * (DefaultSphereRings - 1)},
		{"clamped", 1, 1, 2 * 3 * 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center := core.NewVec3(0, 1, 0)
			mesh := Sphere(0.5, center, tt.segments, tt.rngs)
			assert.Len(t, mesh, tt.expected)
			assertOutward(t, mesh, center)

			for _, tri := range mesh {
				for _, v := range tri.Vertices() {
					assert.InDelta(t, 0.5, v.Distance(center), 1e-12)
				}
			}
		})
	}
}

func TestSphere_SharedVertices(t *testing.T) {
	mesh := Sphere(1, core.Vec3{}, 8, 4)
	unique := map[core.Vec3]bool{}
	for _, tri := range mesh {
		for _, v := range tri.Vertices() {
			unique[v] = true
		}
	}
	// Two poles plus segments vertices on each inner ring
	assert.Len(t, unique, 2+8*3)
}

func TestCylinder(t *testing.T) {
	base := core.Vec3{}
	top := core.NewVec3(0, 0, 2)

	open := Cylinder(base, top, 1, 8, false)
	assert.Len(t, open, 16)
	assertOutward(t, open, core.NewVec3(0, 0, 1))

	capped := Cylinder(base, top, 1, 8, true)
	assert.Len(t, capped, 32)
	assertOutward(t, capped, core.NewVec3(0, 0, 1))

	assert.Nil(t, Cylinder(base, base, 1, 8, true), "a zero-length axis has no mesh")
}

func TestCone(t *testing.T) {
	base := core.Vec3{}
	top := core.NewVec3(0, 0, 3)

	pointed, err := Cone(base, 1, top, 0, 6, true)
	assert.NoError(t, err)
	assert.Len(t, pointed, 12, "one side and one cap triangle per segment")
	assertOutward(t, pointed, core.NewVec3(0, 0, 1))

	frustum, err := Cone(base, 2, top, 1, 6, false)
	assert.NoError(t, err)
	assert.Len(t, frustum, 12)
	assertOutward(t, frustum, core.NewVec3(0, 0, 1.5))

	open, err := Cone(base, 1, top, 0, 6, false)
	assert.NoError(t, err)
	for _, tri := range open {
		for _, p := range tri.Vertices() {
			r := math.Hypot(p.X, p.Y)
			assert.InDelta(t, 1-p.Z/3, r, 1e-9, "vertex %v off the cone surface", p)
		}
	}

	tests := []struct {
		name  string
		baseR float64
		topR  float64
		top   core.Vec3
	}{
		{"negative radius", -1, 0, top},
		{"both radii zero", 0, 0, top},
		{"zero height", 1, 0, base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Cone(base, tt.baseR, tt.top, tt.topR, 6, true)
			assert.Error(t, err)
		})
	}
}

func TestDisc(t *testing.T) {
	normal := core.NewVec3(1, 1, 0)
	mesh := Disc(core.NewVec3(0, 0, 1), normal, 2, 10)
	assert.Len(t, mesh, 10)
	for _, tri := range mesh {
		assert.True(t, tri.Normal().ApproxEquals(normal.Normalize(), 1e-9), "got %v", tri.Normal())
		assert.InDelta(t, 2, tri.B.Distance(tri.A), 1e-9)
	}

	assert.Nil(t, Disc(core.Vec3{}, core.Vec3{}, 1, 8))
	assert.Nil(t, Disc(core.Vec3{}, core.UnitZ, 0, 8))
}
