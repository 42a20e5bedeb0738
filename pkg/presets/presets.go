// Package presets builds the demo scenes shared by the command line tool,
// the web server and the desktop viewer.
package presets

import (
	"errors"
	"fmt"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/geometry"
	"github.com/df07/go-soft-renderer/pkg/lights"
	"github.com/df07/go-soft-renderer/pkg/material"
	"github.com/df07/go-soft-renderer/pkg/renderer"
	"github.com/df07/go-soft-renderer/pkg/scene"
	"github.com/df07/go-soft-renderer/pkg/skybox"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

// ErrUnknownScene is returned when a scene id matches no preset or scene file
var ErrUnknownScene = errors.New("unknown scene")

// Default frame size for presets
const (
	DefaultWidth  = 120
	DefaultHeight = 120
)

// Setup is a ready-to-render scene. Subjects are the nodes a viewer spins.
type Setup struct {
	Scene    *scene.Scene
	Camera   *renderer.PerspectiveCamera
	Subjects []scene.Node
}

// Spin rotates every subject about the world Z axis by angle radians
func (s *Setup) Spin(angle float64) {
	for _, n := range s.Subjects {
		n.Rotate(core.UnitZ, angle)
	}
}

// Render draws the scene into the camera's buffers
func (s *Setup) Render() {
	s.Camera.Render(s.Scene)
}

// Builder creates a preset at the given frame size
type Builder func(width, height int) (*Setup, error)

var builtins = map[string]Builder{
	"wireframe-cube": NewWireframeCube,
	"basic":          NewBasic,
	"planet":         NewPlanet,
	"lit":            NewLit,
}

// Build creates the built-in preset with the given id
func Build(id string, width, height int) (*Setup, error) {
	build, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}
	return build(width, height)
}

// newSetup creates a scene with a camera five units back along -Y
func newSetup(width, height int) (*Setup, error) {
	s := scene.New()
	cam, err := renderer.NewPerspectiveCamera(s, width, height)
	if err != nil {
		return nil, err
	}
	cam.Node().SetTransform(core.Translation(core.NewVec3(0, -5, 0)))
	if err := s.Add(cam.Node()); err != nil {
		return nil, err
	}
	return &Setup{Scene: s, Camera: cam}, nil
}

// add places a renderable at the root and records it as a subject
func (s *Setup) add(n scene.Node) error {
	if err := s.Scene.Add(n); err != nil {
		return err
	}
	s.Subjects = append(s.Subjects, n)
	return nil
}

// NewWireframeCube is a red wireframe unit cube
func NewWireframeCube(width, height int) (*Setup, error) {
	setup, err := newSetup(width, height)
	if err != nil {
		return nil, err
	}

	cube := setup.Scene.NewRenderable(geometry.Cube(1, core.Zero3), material.NewWireframe(core.RGB(255, 0, 0)), nil)
	if err := setup.add(cube); err != nil {
		return nil, err
	}
	return setup, nil
}

// NewBasic is a red and a blue post either side of a yellow ball
func NewBasic(width, height int) (*Setup, error) {
	setup, err := newSetup(width, height)
	if err != nil {
		return nil, err
	}
	s := setup.Scene

	post := geometry.Cube(1, core.Zero3)
	postScale := core.Scale(core.NewVec3(0.2, 1, 0.2))

	left := s.NewRenderable(post, material.NewUnlitColor(core.RGB(255, 0, 0)), nil)
	left.SetTransform(core.Translation(core.NewVec3(-1, 0, 0)).Mul(postScale))

	right := s.NewRenderable(post, material.NewUnlitColor(core.RGB(0, 0, 255)), nil)
	right.SetTransform(core.Translation(core.NewVec3(1, 0, 0)).Mul(postScale))

	ball := s.NewRenderable(
		geometry.Sphere(0.2, core.Zero3, geometry.DefaultSphereSegments, geometry.DefaultSphereRings),
		material.NewUnlitColor(core.RGB(255, 255, 0)),
		nil,
	)

	for _, n := range []scene.Node{left, right, ball} {
		if err := setup.add(n); err != nil {
			return nil, err
		}
	}
	return setup, nil
}

// Planet sky colors
var (
	SkyTop    = core.RGB(58, 58, 82)
	SkyBottom = core.RGB(2, 1, 17)
)

// NewPlanet is a checkered planet with a satellite in tow under a gradient sky
func NewPlanet(width, height int) (*Setup, error) {
	setup, err := newSetup(width, height)
	if err != nil {
		return nil, err
	}
	s := setup.Scene
	setup.Camera.SetSkybox(skybox.NewGradient(SkyTop, SkyBottom))

	planetMesh := geometry.Sphere(1, core.Zero3, 24, 16)
	surface := texture.Checkerboard(64, 32, 8, core.RGB(46, 139, 87), core.RGB(30, 80, 160))
	planet := s.NewRenderable(planetMesh, material.NewUnlitTexture(surface), texture.Spherical(planetMesh))

	moonMesh := geometry.Sphere(0.3, core.Zero3, 12, 8)
	moon := s.NewRenderable(moonMesh, material.NewUnlitTexture(texture.UVDebug(32, 32)), texture.Spherical(moonMesh))
	moon.SetTransform(core.Translation(core.NewVec3(-1.6, 1.6, 0.1)))

	if err := planet.Add(moon); err != nil {
		return nil, err
	}
	if err := setup.add(planet); err != nil {
		return nil, err
	}
	return setup, nil
}

// NewLit shows diffuse shading from a point light placed beyond the
// subjects, which lights the faces turned toward the camera.
func NewLit(width, height int) (*Setup, error) {
	setup, err := newSetup(width, height)
	if err != nil {
		return nil, err
	}
	s := setup.Scene
	setup.Camera.SetSkybox(skybox.NewGradient(SkyTop, SkyBottom))

	cube := s.NewRenderable(geometry.Cube(1, core.Zero3), material.NewDiffuseColor(core.RGB(255, 140, 0)), nil)
	cube.SetTransform(core.Translation(core.NewVec3(-0.9, 0, 0)).Mul(core.RotationZ(30 * core.DegToRad)))

	ballMesh := geometry.Sphere(0.6, core.Zero3, geometry.DefaultSphereSegments, geometry.DefaultSphereRings)
	ballTexture := texture.Checkerboard(32, 16, 4, core.RGB(220, 220, 220), core.RGB(180, 30, 30))
	ball := s.NewRenderable(ballMesh, material.NewDiffuseTexture(ballTexture), texture.Spherical(ballMesh))
	ball.SetTransform(core.Translation(core.NewVec3(0.9, 0, 0)))

	for _, n := range []scene.Node{cube, ball} {
		if err := setup.add(n); err != nil {
			return nil, err
		}
	}

	lamp := lights.NewPoint()
	lamp.SourceIntensity = 35
	light := s.NewNode(lamp)
	light.SetTransform(core.Translation(core.NewVec3(0, 4, 0.5)))
	if err := s.Add(light); err != nil {
		return nil, err
	}
	return setup, nil
}
