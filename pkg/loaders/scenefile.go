package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/geometry"
	"github.com/df07/go-soft-renderer/pkg/lights"
	"github.com/df07/go-soft-renderer/pkg/material"
	"github.com/df07/go-soft-renderer/pkg/renderer"
	"github.com/df07/go-soft-renderer/pkg/scene"
	"github.com/df07/go-soft-renderer/pkg/skybox"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

// ErrSceneFile is wrapped by every semantic error in a scene description
var ErrSceneFile = errors.New("invalid scene file")

// DefaultSceneSize is the frame size used when a scene file names none
const DefaultSceneSize = "120x120"

// SceneFile is the on-disk description of a scene, its camera and its lights
type SceneFile struct {
	Camera CameraConfig  `toml:"camera" yaml:"camera"`
	Meshes []MeshConfig  `toml:"meshes" yaml:"meshes"`
	Lights []LightConfig `toml:"lights" yaml:"lights"`
}

// Vec is a 3-component vector written as [x, y, z]
type Vec [3]float64

func (v Vec) vec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// Color is a hex color: #rgb, #rrggbb or #rrggbbaa. The zero value means unset.
type Color struct {
	RGBA color.RGBA
	Set  bool
}

// UnmarshalText parses a hex color string
func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return fmt.Errorf("color %q: %w", text, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	parsed, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("color %q: %w", text, err)
	}
	r, g, b := parsed.RGB255()
	c.RGBA = color.RGBA{R: r, G: g, B: b, A: alpha}
	c.Set = true
	return nil
}

func (c Color) or(fallback color.RGBA) color.RGBA {
	if c.Set {
		return c.RGBA
	}
	return fallback
}

// Placement positions a node relative to its parent.
// Rotation is in degrees about X, then Y, then Z.
type Placement struct {
	Position Vec  `toml:"position" yaml:"position"`
	Rotation Vec  `toml:"rotation" yaml:"rotation"`
	Scale    *Vec `toml:"scale" yaml:"scale"`
}

// Transform returns the local transform described by p
func (p Placement) Transform() core.Transform {
	t := core.Translation(p.Position.vec3()).
		Mul(core.RotationZ(p.Rotation[2] * core.DegToRad)).
		Mul(core.RotationY(p.Rotation[1] * core.DegToRad)).
		Mul(core.RotationX(p.Rotation[0] * core.DegToRad))
	if p.Scale != nil {
		t = t.Mul(core.Scale(p.Scale.vec3()))
	}
	return t
}

// CameraConfig describes the camera. The camera looks along +Y with +Z up.
type CameraConfig struct {
	Placement `toml:",inline" yaml:",inline"`
	Size      string    `toml:"size" yaml:"size"` // "WxH" or a resolution name
	Near      float64   `toml:"near" yaml:"near"`
	Far       float64   `toml:"far" yaml:"far"`
	Parent    string    `toml:"parent" yaml:"parent"`
	Sky       SkyConfig `toml:"sky" yaml:"sky"`
}

// SkyConfig selects the background: "solid", "gradient" or "texture"
type SkyConfig struct {
	Type    string `toml:"type" yaml:"type"`
	Color   Color  `toml:"color" yaml:"color"`
	Top     Color  `toml:"top" yaml:"top"`
	Bottom  Color  `toml:"bottom" yaml:"bottom"`
	Texture string `toml:"texture" yaml:"texture"`
}

// MeshConfig describes one renderable node
type MeshConfig struct {
	Placement `toml:",inline" yaml:",inline"`
	Name      string         `toml:"name" yaml:"name"`
	Parent    string         `toml:"parent" yaml:"parent"`
	Shape     string         `toml:"shape" yaml:"shape"` // cube, box, sphere, cylinder, cone, disc, quad, plane, ply
	Size      float64        `toml:"size" yaml:"size"`
	Extents   Vec            `toml:"extents" yaml:"extents"`
	Radius    float64        `toml:"radius" yaml:"radius"`
	TopRadius float64        `toml:"top_radius" yaml:"top_radius"` // cone only
	Height    float64        `toml:"height" yaml:"height"`
	Segments  int            `toml:"segments" yaml:"segments"`
	Rings     int            `toml:"rings" yaml:"rings"`
	Capped    bool           `toml:"capped" yaml:"capped"`
	Path      string         `toml:"path" yaml:"path"`
	UV        string         `toml:"uv" yaml:"uv"` // "", "spherical" or "file"
	Material  MaterialConfig `toml:"material" yaml:"material"`
}

// MaterialConfig selects a material: "wireframe", "unlit" or "diffuse".
// A texture path replaces the color for unlit and diffuse materials.
type MaterialConfig struct {
	Type     string  `toml:"type" yaml:"type"`
	Color    Color   `toml:"color" yaml:"color"`
	Texture  string  `toml:"texture" yaml:"texture"`
	Wrap     string  `toml:"wrap" yaml:"wrap"` // "clamp" or "repeat"
	Albedo   float64 `toml:"albedo" yaml:"albedo"`
	TwoSided bool    `toml:"two_sided" yaml:"two_sided"`
}

// LightConfig describes an "ambient" or "point" light
type LightConfig struct {
	Name      string           `toml:"name" yaml:"name"`
	Parent    string           `toml:"parent" yaml:"parent"`
	Type      lights.LightType `toml:"type" yaml:"type"`
	Color     Color            `toml:"color" yaml:"color"`
	Intensity float64          `toml:"intensity" yaml:"intensity"`
	Position  Vec              `toml:"position" yaml:"position"`
}

// LoadedScene is a scene built from a scene file
type LoadedScene struct {
	Scene  *scene.Scene
	Camera *renderer.PerspectiveCamera
	Named  map[string]scene.Node
}

// DecodeSceneFile parses a scene description. format is "toml" or "yaml";
// unknown keys are rejected.
func DecodeSceneFile(r io.Reader, format string) (*SceneFile, error) {
	var file SceneFile
	switch strings.ToLower(format) {
	case "toml":
		if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&file); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, fmt.Errorf("%w: %s", ErrSceneFile, strict.String())
			}
			return nil, fmt.Errorf("failed to decode TOML: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("scene format %q: %w", format, ErrUnsupportedFormat)
	}
	return &file, nil
}

// LoadSceneFile reads and builds a .toml, .yaml or .yml scene file.
// Relative texture and mesh paths resolve against the file's directory.
func LoadSceneFile(filename string) (*LoadedScene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	file, err := DecodeSceneFile(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	loaded, err := file.Build(filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return loaded, nil
}

// Build creates the scene, camera, meshes and lights the file describes.
// Nodes are attached to their parents after all are created, so a parent
// may be declared after its children.
func (f *SceneFile) Build(baseDir string) (*LoadedScene, error) {
	b := &sceneBuilder{
		baseDir:  baseDir,
		scene:    scene.New(),
		named:    make(map[string]scene.Node),
		textures: make(map[string]*texture.PixelTexture),
	}

	cam, err := b.camera(f.Camera)
	if err != nil {
		return nil, err
	}

	for i, m := range f.Meshes {
		node, err := b.mesh(m)
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, m.Name, err)
		}
		if err := b.register(m.Name, node, m.Parent); err != nil {
			return nil, err
		}
	}

	for i, l := range f.Lights {
		node, err := b.light(l)
		if err != nil {
			return nil, fmt.Errorf("light %d (%s): %w", i, l.Name, err)
		}
		if err := b.register(l.Name, node, l.Parent); err != nil {
			return nil, err
		}
	}

	if err := b.register("", cam.Node(), f.Camera.Parent); err != nil {
		return nil, err
	}
	if err := b.attach(); err != nil {
		return nil, err
	}

	return &LoadedScene{Scene: b.scene, Camera: cam, Named: b.named}, nil
}

type pendingNode struct {
	node   scene.Node
	parent string
}

type sceneBuilder struct {
	baseDir  string
	scene    *scene.Scene
	named    map[string]scene.Node
	pending  []pendingNode
	textures map[string]*texture.PixelTexture
}

func (b *sceneBuilder) register(name string, node scene.Node, parent string) error {
	if name != "" {
		if _, dup := b.named[name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrSceneFile, name)
		}
		b.named[name] = node
	}
	b.pending = append(b.pending, pendingNode{node: node, parent: parent})
	return nil
}

func (b *sceneBuilder) attach() error {
	for _, p := range b.pending {
		if p.parent == "" {
			if err := b.scene.Add(p.node); err != nil {
				return err
			}
			continue
		}
		parent, ok := b.named[p.parent]
		if !ok {
			return fmt.Errorf("%w: unknown parent %q", ErrSceneFile, p.parent)
		}
		if err := parent.Add(p.node); err != nil {
			return fmt.Errorf("%w: parent %q: %w", ErrSceneFile, p.parent, err)
		}
	}
	return nil
}

func (b *sceneBuilder) path(p string) string {
	if filepath.IsAbs(p) || b.baseDir == "" {
		return p
	}
	return filepath.Join(b.baseDir, p)
}

func (b *sceneBuilder) texture(p string, wrap texture.WrapMode) (*texture.PixelTexture, error) {
	key := wrap.String() + ":" + p
	if tex, ok := b.textures[key]; ok {
		return tex, nil
	}
	tex, err := LoadTexture(b.path(p), TextureOptions{Wrap: wrap})
	if err != nil {
		return nil, err
	}
	b.textures[key] = tex
	return tex, nil
}

func (b *sceneBuilder) camera(cfg CameraConfig) (*renderer.PerspectiveCamera, error) {
	size := cfg.Size
	if size == "" {
		size = DefaultSceneSize
	}
	width, height, err := renderer.ParseSize(size)
	if err != nil {
		return nil, fmt.Errorf("%w: camera size: %w", ErrSceneFile, err)
	}

	cam, err := renderer.NewPerspectiveCamera(b.scene, width, height)
	if err != nil {
		return nil, err
	}
	cam.Node().SetTransform(cfg.Transform())

	near, far := cam.ClippingDistance()
	if cfg.Near > 0 {
		near = cfg.Near
	}
	if cfg.Far > 0 {
		far = cfg.Far
	}
	if far <= near {
		return nil, fmt.Errorf("%w: clipping range [%v, %v]", ErrSceneFile, near, far)
	}
	cam.SetClippingDistance(near, far)

	sky, err := b.sky(cfg.Sky)
	if err != nil {
		return nil, err
	}
	cam.SetSkybox(sky)
	return cam, nil
}

func (b *sceneBuilder) sky(cfg SkyConfig) (skybox.Skybox, error) {
	switch cfg.Type {
	case "", "solid":
		return &skybox.Solid{Color: cfg.Color.or(core.Black)}, nil
	case "gradient":
		return skybox.NewGradient(cfg.Top.or(core.White), cfg.Bottom.or(core.Black)), nil
	case "texture":
		if cfg.Texture == "" {
			return nil, fmt.Errorf("%w: texture sky needs a texture path", ErrSceneFile)
		}
		tex, err := b.texture(cfg.Texture, texture.Repeat)
		if err != nil {
			return nil, err
		}
		return skybox.NewTextured(tex), nil
	default:
		return nil, fmt.Errorf("%w: unknown sky type %q", ErrSceneFile, cfg.Type)
	}
}

func (b *sceneBuilder) mesh(cfg MeshConfig) (scene.Node, error) {
	var (
		mesh []core.Triangle
		uvs  texture.UVMap
	)

	size := cfg.Size
	if size == 0 {
		size = 1
	}
	radius := cfg.Radius
	if radius == 0 {
		radius = 0.5
	}

	switch cfg.Shape {
	case "cube":
		mesh = geometry.Cube(size, core.Zero3)
	case "box":
		mesh = geometry.Box(core.Zero3, cfg.Extents.vec3())
	case "sphere":
		segments, rings := segmentsOr(cfg.Segments), cfg.Rings
		if rings == 0 {
			rings = geometry.DefaultSphereRings
		}
		mesh = geometry.Sphere(radius, core.Zero3, segments, rings)
	case "cylinder", "cone":
		height := cfg.Height
		if height == 0 {
			height = 1
		}
		top := radius
		if cfg.Shape == "cone" {
			top = cfg.TopRadius
		}
		var err error
		mesh, err = geometry.Cone(core.Zero3, radius, core.NewVec3(0, 0, height), top, segmentsOr(cfg.Segments), cfg.Capped)
		if err != nil {
			return scene.Node{}, fmt.Errorf("%w: %s: %v", ErrSceneFile, cfg.Shape, err)
		}
	case "disc":
		mesh = geometry.Disc(core.Zero3, core.UnitZ, radius, segmentsOr(cfg.Segments))
	case "quad":
		mesh = geometry.Quad(core.NewVec3(-size/2, -size/2, 0), core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0))
	case "plane":
		mesh = geometry.Plane(core.Zero3, size)
	case "ply":
		if cfg.Path == "" {
			return scene.Node{}, fmt.Errorf("%w: ply shape needs a path", ErrSceneFile)
		}
		loaded, err := LoadPLY(b.path(cfg.Path))
		if err != nil {
			return scene.Node{}, err
		}
		mesh = loaded.Triangles
		if loaded.UVs != nil {
			uvs = loaded.UVs
		}
	default:
		return scene.Node{}, fmt.Errorf("%w: unknown shape %q", ErrSceneFile, cfg.Shape)
	}

	switch cfg.UV {
	case "", "file":
	case "spherical":
		uvs = texture.Spherical(mesh)
	default:
		return scene.Node{}, fmt.Errorf("%w: unknown uv mode %q", ErrSceneFile, cfg.UV)
	}

	mat, err := b.material(cfg.Material)
	if err != nil {
		return scene.Node{}, err
	}

	node := b.scene.NewRenderable(mesh, mat, uvs)
	node.SetTransform(cfg.Transform())
	return node, nil
}

func (b *sceneBuilder) material(cfg MaterialConfig) (material.Material, error) {
	wrap := texture.Clamp
	switch cfg.Wrap {
	case "", "clamp":
	case "repeat":
		wrap = texture.Repeat
	default:
		return nil, fmt.Errorf("%w: unknown wrap mode %q", ErrSceneFile, cfg.Wrap)
	}

	var tex *texture.PixelTexture
	if cfg.Texture != "" {
		var err error
		if tex, err = b.texture(cfg.Texture, wrap); err != nil {
			return nil, err
		}
	}

	c := cfg.Color.or(core.White)
	albedo := cfg.Albedo
	if albedo == 0 {
		albedo = 1
	}

	switch cfg.Type {
	case "wireframe":
		return material.NewWireframe(c), nil
	case "", "unlit":
		if tex != nil {
			m := material.NewUnlitTexture(tex)
			m.DoubleSided = cfg.TwoSided
			return m, nil
		}
		m := material.NewUnlitColor(c)
		m.DoubleSided = cfg.TwoSided
		return m, nil
	case "diffuse":
		if tex != nil {
			m := material.NewDiffuseTexture(tex)
			m.Albedo, m.DoubleSided = albedo, cfg.TwoSided
			return m, nil
		}
		m := material.NewDiffuseColor(c)
		m.Albedo, m.DoubleSided = albedo, cfg.TwoSided
		return m, nil
	default:
		return nil, fmt.Errorf("%w: unknown material %q", ErrSceneFile, cfg.Type)
	}
}

func (b *sceneBuilder) light(cfg LightConfig) (scene.Node, error) {
	var source lights.Source
	switch cfg.Type {
	case lights.LightTypeAmbient:
		a := lights.NewAmbient()
		a.Color = cfg.Color.or(a.Color)
		if cfg.Intensity != 0 {
			a.SourceIntensity = cfg.Intensity
		}
		source = a
	case lights.LightTypePoint:
		p := lights.NewPoint()
		p.Color = cfg.Color.or(p.Color)
		if cfg.Intensity != 0 {
			p.SourceIntensity = cfg.Intensity
		}
		source = p
	default:
		return scene.Node{}, fmt.Errorf("%w: unknown light type %q", ErrSceneFile, cfg.Type)
	}

	node := b.scene.NewNode(source)
	node.SetTransform(core.Translation(cfg.Position.vec3()))
	return node, nil
}

func segmentsOr(n int) int {
	if n == 0 {
		return geometry.DefaultSphereSegments
	}
	return n
}
