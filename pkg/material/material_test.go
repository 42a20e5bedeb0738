package material

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/lights"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

func TestResolve_Defaults(t *testing.T) {
	red := core.RGB(255, 0, 0)
	ctx := ShaderContext{}

	tests := []struct {
		name     string
		material Material
		vertex   color.RGBA
		edge     color.RGBA
		fragment color.RGBA
		twoSided bool
	}{
		{"base", Base{}, core.Transparent, core.Transparent, core.Transparent, false},
		{"wireframe", NewWireframe(red), core.Transparent, red, core.Transparent, true},
		{"unlit color", NewUnlitColor(red), core.Transparent, red, red, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Resolve(tt.material)
			assert.Equal(t, tt.vertex, s.Vertex(ctx), "vertex")
			assert.Equal(t, tt.edge, s.Edge(ctx), "edge")
			assert.Equal(t, tt.fragment, s.Fragment(ctx), "fragment")
			assert.Equal(t, tt.twoSided, s.TwoSided, "two-sided")
		})
	}
}

// dotted overrides the vertex stage only
type dotted struct {
	UnlitColor
}

func (d *dotted) Vertex(ShaderContext) color.RGBA { return core.White }

func TestResolve_Overrides(t *testing.T) {
	m := &dotted{UnlitColor{Color: core.RGB(0, 0, 255)}}
	s := Resolve(m)

	assert.Equal(t, core.White, s.Vertex(ShaderContext{}))
	assert.Equal(t, core.RGB(0, 0, 255), s.Edge(ShaderContext{}), "edge falls through to the embedded fragment")
}

func TestUnlitTexture(t *testing.T) {
	tex := texture.FromColors([][]color.RGBA{{core.RGB(1, 2, 3), core.RGB(4, 5, 6)}}, texture.Clamp)
	m := NewUnlitTexture(tex)
	s := Resolve(m)

	ctx := ShaderContext{UV: core.NewVec2(0.75, 0)}
	assert.Equal(t, core.RGB(4, 5, 6), s.Fragment(ctx))
	assert.Equal(t, core.RGB(4, 5, 6), s.Edge(ctx))
}

func TestDiffuseColor(t *testing.T) {
	normal := core.NewVec3(0, -1, 0)
	point := lights.NewPoint()
	m := NewDiffuseColor(core.RGB(200, 100, 50))

	tests := []struct {
		name     string
		lights   []lights.Light
		expected color.RGBA
	}{
		{"no lights", nil, color.RGBA{A: 255}},
		{"facing light", []lights.Light{{Source: point, Origin: core.NewVec3(0, -1, 0)}}, color.RGBA{A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ShaderContext{WorldNormal: normal, Lights: tt.lights}
			assert.Equal(t, tt.expected, m.Fragment(ctx))
		})
	}

	// Light behind the surface: the incidence direction runs light -> point.
	// shade = 0.5 gives a mid grey light.
	half := &lights.Point{Color: core.White, SourceIntensity: math.Pi / 2}
	ctx := ShaderContext{
		WorldNormal: normal,
		Lights:      []lights.Light{{Source: half, Origin: core.NewVec3(0, 1, 0)}},
	}
	assert.Equal(t, core.RGB(99, 49, 24), m.Fragment(ctx))
}

func TestDiffuse_AmbientDirection(t *testing.T) {
	// The ambient direction is the negated normal, so it contributes no shade
	// and multiplies every other light down to black.
	m := NewDiffuseColor(core.White)
	half := &lights.Point{Color: core.White, SourceIntensity: math.Pi / 2}
	normal := core.NewVec3(0, -1, 0)

	ctx := ShaderContext{
		WorldNormal: normal,
		Lights: []lights.Light{
			{Source: half, Origin: core.NewVec3(0, 1, 0)},
			{Source: lights.NewAmbient()},
		},
	}
	assert.Equal(t, core.Black, m.Fragment(ctx))
}

func TestDiffuseTexture(t *testing.T) {
	tex := texture.FromColors([][]color.RGBA{{core.RGB(255, 255, 255)}}, texture.Repeat)
	m := NewDiffuseTexture(tex)
	half := &lights.Point{Color: core.RGB(255, 0, 255), SourceIntensity: math.Pi / 2}

	ctx := ShaderContext{
		WorldNormal: core.NewVec3(0, 0, 1),
		Lights:      []lights.Light{{Source: half, Origin: core.NewVec3(0, 0, -1)}},
	}
	assert.Equal(t, core.RGB(127, 0, 127), m.Fragment(ctx))
}

func TestShaderContext_WorldToModel(t *testing.T) {
	ctx := ShaderContext{ModelToWorld: core.Translation(core.NewVec3(1, 2, 3))}
	p := core.NewVec3(1, 2, 3)
	assert.True(t, ctx.WorldToModel().Apply(p).ApproxEquals(core.Vec3{}, 1e-12))
}
