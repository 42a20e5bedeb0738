package texture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-soft-renderer/pkg/core"
)

func TestUV_Lookup(t *testing.T) {
	m := NewUV()
	p := core.NewVec3(0.1, 0.2, 0.3)
	m.Set(p, core.NewVec2(0.5, 0.75))

	assert.Equal(t, core.NewVec2(0.5, 0.75), m.Lookup(p))
	assert.Equal(t, core.NewVec2(0.5, 0.75), m.Lookup(core.NewVec3(0.1+1e-12, 0.2, 0.3)),
		"positions within the key grid share a coordinate")
	assert.Equal(t, core.Vec2{}, m.Lookup(core.NewVec3(1, 1, 1)), "a miss yields (0,0)")

	m.Delete(p)
	assert.Equal(t, 0, m.Len())

	var empty *UV
	assert.Equal(t, core.Vec2{}, empty.Lookup(p))
}

func TestUV_DistantVertices(t *testing.T) {
	m := NewUV()
	points := []core.Vec3{
		core.NewVec3(1e10, 0, 0),
		core.NewVec3(2e10, 0, 0),
		core.NewVec3(-1e10, 0, 0),
		core.NewVec3(0, 0, 1e300),
	}
	for i, p := range points {
		m.Set(p, core.NewVec2(float64(i), 0))
	}

	require.Equal(t, len(points), m.Len(), "distant vertices keep separate keys")
	for i, p := range points {
		assert.Equal(t, core.NewVec2(float64(i), 0), m.Lookup(p))
	}
}

func TestSpherical(t *testing.T) {
	const tolerance = 1e-9

	tests := []struct {
		name  string
		point core.Vec3
		u, v  float64
	}{
		{"north pole", core.NewVec3(0, 0, 1), 0.5, 0},
		{"south pole", core.NewVec3(0, 0, -1), 0.5, 1},
		{"equator +X", core.NewVec3(1, 0, 0), 0.5, 0.5},
		{"equator +Y", core.NewVec3(0, 1, 0), 0.75, 0.5},
		{"equator -Y", core.NewVec3(0, -1, 0), 0.25, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uv := SphericalUV(tt.point)
			if math.Abs(uv.X-tt.u) > tolerance || math.Abs(uv.Y-tt.v) > tolerance {
				t.Errorf("SphericalUV(%v) = %v, want (%v, %v)", tt.point, uv, tt.u, tt.v)
			}
		})
	}
}

func TestSpherical_Mesh(t *testing.T) {
	mesh := []core.Triangle{
		core.NewTriangle(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)),
		core.NewTriangle(core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), core.NewVec3(-1, 0, 0)),
	}

	m := Spherical(mesh)
	require.Equal(t, 4, m.Len(), "shared vertices are stored once")

	for p, uv := range m.All() {
		assert.Equal(t, SphericalUV(p), uv)
	}
	assert.InDelta(t, 0.5, m.Lookup(core.NewVec3(1, 0, 0)).Y, 1e-9)
}
