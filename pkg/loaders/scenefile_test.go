package loaders

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/lights"
	"github.com/df07/go-soft-renderer/pkg/material"
	"github.com/df07/go-soft-renderer/pkg/skybox"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

const redCubeTOML = `
[camera]
size = "120x120"
position = [0, -5, 0]

[camera.sky]
type = "gradient"
top = "#3a3a52"
bottom = "#020111"

[[meshes]]
name = "cube"
shape = "cube"
size = 1

[meshes.material]
type = "unlit"
color = "#ff0000"
`

const nestedYAML = `
camera:
  size: icon-taskbar
  position: [0, -5, 0]
  near: 0.5
  far: 50
meshes:
  - name: ball
    parent: pivot
    shape: sphere
    radius: 0.2
    position: [1, 0, 0]
    uv: spherical
    material:
      type: diffuse
      color: "00ff00"
      albedo: 2
  - name: pivot
    shape: box
    extents: [0.2, 0.2, 1]
    rotation: [0, 0, 90]
    material:
      type: wireframe
      color: "#0000ff80"
lights:
  - name: lamp
    type: point
    position: [0, 5, 0]
    intensity: 30
    color: "#ffffff"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSceneFile_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cube.toml", redCubeTOML)

	loaded, err := LoadSceneFile(path)
	require.NoError(t, err)

	w, h := loaded.Camera.Size()
	assert.Equal(t, 120, w)
	assert.Equal(t, 120, h)
	assert.True(t, loaded.Camera.Node().Position().ApproxEquals(core.NewVec3(0, -5, 0), 1e-12))

	sky, ok := loaded.Camera.Skybox().(*skybox.Gradient)
	require.True(t, ok)
	assert.Equal(t, core.RGB(58, 58, 82), sky.Top)
	assert.Equal(t, core.RGB(2, 1, 17), sky.Bottom)

	cube, ok := loaded.Named["cube"]
	require.True(t, ok)
	r, ok := cube.Renderable()
	require.True(t, ok)
	assert.Len(t, r.Mesh, 12)

	loaded.Camera.Render(loaded.Scene)
	assert.Equal(t, core.RGB(255, 0, 0), loaded.Camera.Pixels().RGBAAt(60, 60))
}

func TestLoadSceneFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "nested.yaml", nestedYAML)

	loaded, err := LoadSceneFile(path)
	require.NoError(t, err)

	w, h := loaded.Camera.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 32, h)
	near, far := loaded.Camera.ClippingDistance()
	assert.Equal(t, 0.5, near)
	assert.Equal(t, 50.0, far)

	ball, pivot := loaded.Named["ball"], loaded.Named["pivot"]
	parent, ok := ball.Parent()
	require.True(t, ok)
	assert.Equal(t, pivot, parent)

	// The pivot turns the ball's +X offset onto +Y
	assert.True(t, ball.Position().ApproxEquals(core.NewVec3(0, 1, 0), 1e-9), ball.Position())

	r, ok := ball.Renderable()
	require.True(t, ok)
	diffuse, ok := r.Material.(*material.DiffuseColor)
	require.True(t, ok)
	assert.Equal(t, core.RGB(0, 255, 0), diffuse.Color)
	assert.Equal(t, 2.0, diffuse.Albedo)
	assert.NotNil(t, r.UVs)

	r, ok = pivot.Renderable()
	require.True(t, ok)
	wire, ok := r.Material.(*material.Wireframe)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{B: 255, A: 128}, wire.Color)

	lamp, ok := loaded.Named["lamp"].Component().(*lights.Point)
	require.True(t, ok)
	assert.Equal(t, 30.0, lamp.SourceIntensity)

	roots := loaded.Scene.Roots()
	assert.Len(t, roots, 3, "pivot, lamp and camera are roots")

	decoded, err := DecodeSceneFile(strings.NewReader(nestedYAML), "yaml")
	require.NoError(t, err)
	require.Len(t, decoded.Lights, 1)
	assert.Equal(t, lights.LightTypePoint, decoded.Lights[0].Type)
}

func TestLoadSceneFile_Assets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveImage(quadrants(), filepath.Join(dir, "quad.png")))

	ply := "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
		"property float u\nproperty float v\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n" +
		"0 0 0 0 0\n1 0 0 1 0\n0 0 1 0 1\n3 0 1 2\n"
	writeFile(t, dir, "tri.ply", ply)

	path := writeFile(t, dir, "assets.toml", `
[camera.sky]
type = "texture"
texture = "quad.png"

[[meshes]]
name = "tri"
shape = "ply"
path = "tri.ply"
[meshes.material]
type = "unlit"
texture = "quad.png"
wrap = "repeat"
`)

	loaded, err := LoadSceneFile(path)
	require.NoError(t, err)

	_, ok := loaded.Camera.Skybox().(*skybox.Textured)
	assert.True(t, ok)

	r, ok := loaded.Named["tri"].Renderable()
	require.True(t, ok)
	assert.Len(t, r.Mesh, 1)
	require.NotNil(t, r.UVs)
	assert.Equal(t, core.NewVec2(1, 0), r.UVs.Lookup(core.NewVec3(1, 0, 0)))

	unlit, ok := r.Material.(*material.UnlitTexture)
	require.True(t, ok)
	tex, ok := unlit.Texture.(*texture.PixelTexture)
	require.True(t, ok)
	assert.Equal(t, texture.Repeat, tex.Wrap)
}

func TestDecodeSceneFile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		src    string
	}{
		{"unknown toml key", "toml", "[camera]\nzoom = 2\n"},
		{"unknown yaml key", "yaml", "camera:\n  zoom: 2\n"},
		{"bad color", "toml", "[[meshes]]\nshape = \"cube\"\n[meshes.material]\ncolor = \"#gg0000\"\n"},
		{"unsupported format", "json", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSceneFile(strings.NewReader(tt.src), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestSceneFileBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		file SceneFile
	}{
		{"unknown shape", SceneFile{Meshes: []MeshConfig{{Shape: "teapot"}}}},
		{"unknown material", SceneFile{Meshes: []MeshConfig{{Shape: "cube", Material: MaterialConfig{Type: "metal"}}}}},
		{"unknown parent", SceneFile{Meshes: []MeshConfig{{Shape: "cube", Parent: "nobody"}}}},
		{"duplicate name", SceneFile{Meshes: []MeshConfig{{Name: "a", Shape: "cube"}, {Name: "a", Shape: "cube"}}}},
		{"cycle", SceneFile{Meshes: []MeshConfig{{Name: "a", Parent: "b", Shape: "cube"}, {Name: "b", Parent: "a", Shape: "cube"}}}},
		{"unknown light", SceneFile{Lights: []LightConfig{{Type: "spot"}}}},
		{"bad size", SceneFile{Camera: CameraConfig{Size: "huge"}}},
		{"bad clipping", SceneFile{Camera: CameraConfig{Near: 10, Far: 5}}},
		{"unknown sky", SceneFile{Camera: CameraConfig{Sky: SkyConfig{Type: "stars"}}}},
		{"unknown uv", SceneFile{Meshes: []MeshConfig{{Shape: "cube", UV: "cubic"}}}},
		{"negative cone radius", SceneFile{Meshes: []MeshConfig{{Shape: "cone", TopRadius: -1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.file.Build(t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestSceneFileBuild_Shapes(t *testing.T) {
	tests := []struct {
		mesh      MeshConfig
		triangles int
	}{
		{MeshConfig{Shape: "cube"}, 12},
		{MeshConfig{Shape: "box", Extents: Vec{1, 2, 3}}, 12},
		{MeshConfig{Shape: "sphere", Segments: 8, Rings: 4}, 48},
		{MeshConfig{Shape: "cylinder", Segments: 8}, 16},
		{MeshConfig{Shape: "cylinder", Segments: 8, Capped: true}, 32},
		{MeshConfig{Shape: "cone", Segments: 8, Capped: true}, 16},
		{MeshConfig{Shape: "cone", Segments: 8, TopRadius: 0.25}, 16},
		{MeshConfig{Shape: "disc", Segments: 8}, 8},
		{MeshConfig{Shape: "quad"}, 2},
		{MeshConfig{Shape: "plane", Size: 10}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.mesh.Shape, func(t *testing.T) {
			tt.mesh.Name = "subject"
			loaded, err := (&SceneFile{Meshes: []MeshConfig{tt.mesh}}).Build(t.TempDir())
			require.NoError(t, err)
			r, ok := loaded.Named["subject"].Renderable()
			require.True(t, ok)
			assert.Len(t, r.Mesh, tt.triangles)
		})
	}
}

func TestLoadSceneFile_UnknownExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scene.ini", "")
	_, err := LoadSceneFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
