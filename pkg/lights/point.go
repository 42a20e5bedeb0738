package lights

import (
	"image/color"
	"math"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// DefaultPointIntensity is the strength of a point light created with NewPoint
const DefaultPointIntensity = 1.0

// Point emits from its node's position with inverse-square falloff
type Point struct {
	Color           color.RGBA
	SourceIntensity float64
}

// NewPoint creates a white point light with the default intensity
func NewPoint() *Point {
	return &Point{Color: core.White, SourceIntensity: DefaultPointIntensity}
}

// Tint returns the light color
func (p *Point) Tint() color.RGBA { return p.Color }

// Intensity falls off with the squared distance from origin to position
func (p *Point) Intensity(origin, position, normal core.Vec3) float64 {
	d2 := origin.Subtract(position).LengthSquared()
	return p.SourceIntensity * math.Max(1/d2, 0)
}

// Direction points from the light toward the shaded position
func (p *Point) Direction(origin, position, normal core.Vec3) core.Vec3 {
	return position.Subtract(origin).Normalize()
}
