package lights

import (
	"math"
	"testing"

	"github.com/df07/go-soft-renderer/pkg/core"
)

func TestAmbient(t *testing.T) {
	a := NewAmbient()
	normal := core.NewVec3(0, 0, 1)

	for _, pos := range []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(100, -3, 7)} {
		if got := a.Intensity(core.Vec3{}, pos, normal); got != DefaultAmbientIntensity {
			t.Errorf("ambient intensity at %v: got %v, want %v", pos, got, DefaultAmbientIntensity)
		}
	}

	if got := a.Direction(core.Vec3{}, core.Vec3{}, normal); got != normal.Negate() {
		t.Errorf("ambient direction should be the negated normal, got %v", got)
	}
}

func TestPoint(t *testing.T) {
	p := &Point{Color: core.White, SourceIntensity: 8}
	light := Light{Source: p, Origin: core.NewVec3(0, 0, 2)}
	normal := core.NewVec3(0, 0, 1)

	tests := []struct {
		name     string
		position core.Vec3
		expected float64
	}{
		{"distance 2", core.NewVec3(0, 0, 0), 2},
		{"distance 1", core.NewVec3(0, 0, 1), 8},
		{"distance 4", core.NewVec3(0, 0, -2), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := light.Intensity(tt.position, normal); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}

	// Direction runs from the light to the shaded point
	dir := light.Direction(core.NewVec3(0, 0, 0), normal)
	if !dir.ApproxEquals(core.NewVec3(0, 0, -1), 1e-12) {
		t.Errorf("point direction: got %v, want (0,0,-1)", dir)
	}
	if light.Tint() != core.White {
		t.Errorf("tint: got %v", light.Tint())
	}
}
