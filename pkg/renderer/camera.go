// Package renderer implements the perspective camera and its scanline rasterizer.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/scene"
	"github.com/df07/go-soft-renderer/pkg/skybox"
)

// ErrInvalidSize is returned when a camera is created with a non-positive frame size
var ErrInvalidSize = errors.New("frame size must be positive")

// Default camera settings
const (
	DefaultNear        = 0.1
	DefaultFar         = 1000.0
	DefaultFocalLength = 1.0
)

// PerspectiveCamera renders a scene into fixed-size color and depth buffers.
// The camera looks along its node's local +Y axis with +Z up.
type PerspectiveCamera struct {
	node   scene.Node
	width  int
	height int

	pixels *image.RGBA
	depth  []float64 // row-major, width*height

	near   float64
	far    float64
	focal  float64
	skybox skybox.Skybox
	logger *slog.Logger
	stats  RenderStats
}

// NewPerspectiveCamera creates a camera node inside s. The node starts
// detached; it may be added to the scene or under any other node.
func NewPerspectiveCamera(s *scene.Scene, width, height int) (*PerspectiveCamera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("camera %dx%d: %w", width, height, ErrInvalidSize)
	}

	c := &PerspectiveCamera{
		width:  width,
		height: height,
		pixels: image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:  make([]float64, width*height),
		near:   DefaultNear,
		far:    DefaultFar,
		focal:  DefaultFocalLength,
		skybox: skybox.NewSolid(),
		logger: slog.Default(),
	}
	c.node = s.NewNode(c)
	return c, nil
}

// Node returns the scene node carrying the camera's transform
func (c *PerspectiveCamera) Node() scene.Node {
	return c.node
}

// Size returns the frame width and height in pixels
func (c *PerspectiveCamera) Size() (width, height int) {
	return c.width, c.height
}

// Pixels returns the color buffer. It is overwritten by every Render.
func (c *PerspectiveCamera) Pixels() *image.RGBA {
	return c.pixels
}

// Depth returns the depth buffer in row-major order. It is overwritten by every Render.
func (c *PerspectiveCamera) Depth() []float64 {
	return c.depth
}

// DepthAt returns the stored depth of a pixel, or +Inf outside the frame
func (c *PerspectiveCamera) DepthAt(x, y int) float64 {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return math.Inf(1)
	}
	return c.depth[y*c.width+x]
}

// Stats returns the statistics of the last render
func (c *PerspectiveCamera) Stats() RenderStats {
	return c.stats
}

// ClippingDistance returns the near and far clip distances
func (c *PerspectiveCamera) ClippingDistance() (near, far float64) {
	return c.near, c.far
}

// SetClippingDistance sets the clip distances, swapping them if near > far
func (c *PerspectiveCamera) SetClippingDistance(near, far float64) {
	c.near = math.Min(near, far)
	c.far = math.Max(near, far)
}

// FocalLength returns the distance of the projection plane
func (c *PerspectiveCamera) FocalLength() float64 {
	return c.focal
}

// Skybox returns the background
func (c *PerspectiveCamera) Skybox() skybox.Skybox {
	return c.skybox
}

// SetSkybox replaces the background. nil restores the solid black default.
func (c *PerspectiveCamera) SetSkybox(sky skybox.Skybox) {
	if sky == nil {
		sky = skybox.NewSolid()
	}
	c.skybox = sky
}

// SetLogger sets the logger used for per-frame debug output
func (c *PerspectiveCamera) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	c.logger = logger
}

// WorldToScreenPoint projects a world point to pixel coordinates.
// X and Y are in pixels; Z is the signed distance from the camera,
// negative for points behind it.
func (c *PerspectiveCamera) WorldToScreenPoint(world core.Vec3) core.Vec3 {
	return c.project(c.node.WorldToLocal(), world)
}

func (c *PerspectiveCamera) project(worldToLocal core.Transform, world core.Vec3) core.Vec3 {
	local := worldToLocal.Apply(world)

	zAngle := math.Atan2(local.X, local.Y)
	xAngle := math.Atan2(local.Z, local.Y)
	screenX := math.Tan(zAngle) * c.focal
	screenY := math.Tan(xAngle) * c.focal

	halfW := float64(c.width) / 2
	halfH := float64(c.height) / 2
	return core.Vec3{
		X: screenX*halfW + halfW,
		Y: screenY*halfH + halfH,
		Z: sign(local.Y) * local.Length(),
	}
}

// ScreenToWorldPoint returns the world position of a pixel on the plane at
// the focal distance in front of the camera
func (c *PerspectiveCamera) ScreenToWorldPoint(screen core.Vec2) core.Vec3 {
	return c.unproject(c.node.LocalToWorld(), screen)
}

func (c *PerspectiveCamera) unproject(localToWorld core.Transform, screen core.Vec2) core.Vec3 {
	local := core.Vec3{
		X: screen.X - float64(c.width)/2,
		Y: c.focal,
		Z: screen.Y - float64(c.height)/2,
	}
	return localToWorld.Apply(local)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
