// Package skybox provides the backgrounds drawn behind rendered geometry.
package skybox

import (
	"image/color"
	"math"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

// Camera maps screen pixels back into world space
type Camera interface {
	ScreenToWorldPoint(screen core.Vec2) core.Vec3
}

// Skybox colors a background pixel from the view ray through it.
// The ray is the camera's ScreenToWorldPoint for the pixel, read as a direction.
type Skybox interface {
	Pixel(cam Camera, x, y int) color.RGBA
}

func ray(cam Camera, x, y int) core.Vec3 {
	return cam.ScreenToWorldPoint(core.NewVec2(float64(x), float64(y)))
}

// polarAngle returns the angle between v and +Z in [0, pi]
func polarAngle(v core.Vec3) (angle float64, length float64) {
	length = v.Length()
	if length == 0 {
		return 0, 0
	}
	cos := math.Max(-1, math.Min(1, v.Z/length))
	return math.Acos(cos), length
}

// Solid fills the background with one color
type Solid struct {
	Color color.RGBA
}

// NewSolid creates a solid black skybox
func NewSolid() *Solid {
	return &Solid{Color: core.Black}
}

// Pixel returns the fill color
func (s *Solid) Pixel(Camera, int, int) color.RGBA {
	return s.Color
}

// Gradient blends from Top, looking along +Z, to Bottom, looking along -Z,
// by the polar angle of the view ray
type Gradient struct {
	Top    color.RGBA
	Bottom color.RGBA
}

// NewGradient creates a gradient skybox
func NewGradient(top, bottom color.RGBA) *Gradient {
	return &Gradient{Top: top, Bottom: bottom}
}

// Pixel blends the two colors by angle/pi
func (g *Gradient) Pixel(cam Camera, x, y int) color.RGBA {
	angle, _ := polarAngle(ray(cam, x, y))
	return core.BlendRGBA(g.Top, g.Bottom, angle/math.Pi)
}

// Textured samples an equirectangular texture: the polar angle selects the
// row and the horizontal angle selects the column
type Textured struct {
	Texture texture.Texture2D
}

// NewTextured creates a textured skybox
func NewTextured(tex texture.Texture2D) *Textured {
	return &Textured{Texture: tex}
}

// Pixel samples the texture along the view ray
func (s *Textured) Pixel(cam Camera, x, y int) color.RGBA {
	if s.Texture == nil {
		return core.Black
	}
	r := ray(cam, x, y)
	vAngle, length := polarAngle(r)

	hAngle := math.Pi / 2
	if sin := math.Sin(vAngle); length != 0 && sin != 0 {
		ratio := math.Max(-1, math.Min(1, r.Y/(length*sin)))
		hAngle = math.Asin(ratio) + math.Pi/2
	}

	row := int(vAngle / math.Pi * float64(s.Texture.Height()))
	column := int(hAngle / math.Pi * float64(s.Texture.Width()))
	return s.Texture.At(column, row)
}
