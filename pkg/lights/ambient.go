package lights

import (
	"image/color"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// DefaultAmbientIntensity is the strength of an ambient light created with NewAmbient
const DefaultAmbientIntensity = 0.1

// Ambient lights every surface equally, regardless of position
type Ambient struct {
	Color           color.RGBA
	SourceIntensity float64
}

// NewAmbient creates a white ambient light with the default intensity
func NewAmbient() *Ambient {
	return &Ambient{Color: core.White, SourceIntensity: DefaultAmbientIntensity}
}

// Tint returns the light color
func (a *Ambient) Tint() color.RGBA { return a.Color }

// Intensity is constant
func (a *Ambient) Intensity(origin, position, normal core.Vec3) float64 {
	return a.SourceIntensity
}

// Direction is the negated normal, so the diffuse term sees full alignment
func (a *Ambient) Direction(origin, position, normal core.Vec3) core.Vec3 {
	return normal.Negate()
}
