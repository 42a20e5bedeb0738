// Package lights provides the light sources used by diffuse shading.
package lights

import (
	"image/color"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// LightType names a kind of light source in scene descriptions
type LightType string

const (
	LightTypeAmbient LightType = "ambient"
	LightTypePoint   LightType = "point"
)

// Source contributes light to shaded points. origin is the world position of
// the node the source is attached to.
type Source interface {
	// Tint is the light's color
	Tint() color.RGBA

	// Intensity returns the non-negative light strength reaching position
	Intensity(origin, position, normal core.Vec3) float64

	// Direction returns the unit incidence direction used against the surface normal
	Direction(origin, position, normal core.Vec3) core.Vec3
}

// Light is a source fixed at a world position for the duration of one frame
type Light struct {
	Source Source
	Origin core.Vec3
}

// Tint returns the source color
func (l Light) Tint() color.RGBA {
	return l.Source.Tint()
}

// Intensity evaluates the source at a world position and normal
func (l Light) Intensity(position, normal core.Vec3) float64 {
	return l.Source.Intensity(l.Origin, position, normal)
}

// Direction evaluates the incidence direction at a world position and normal
func (l Light) Direction(position, normal core.Vec3) core.Vec3 {
	return l.Source.Direction(l.Origin, position, normal)
}
