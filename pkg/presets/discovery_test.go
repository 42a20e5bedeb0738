package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeScene = `# Scene: Red Cube
# Description: A single unlit cube
# Group: Test Scenes

[camera]
size = "40x30"
position = [0, -5, 0]

[[meshes]]
shape = "cube"
[meshes.material]
color = "#ff0000"
`

const ballScene = `# Description: yaml ball
meshes:
  - shape: sphere
    material:
      type: wireframe
`

func writeScenes(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "red-cube.toml"), []byte(cubeScene), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blue_ball.yaml"), []byte(ballScene), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	return dir
}

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"red-cube", "Red Cube"},
		{"blue_ball", "Blue Ball"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, titleCase(tc.input))
		})
	}
}

func TestParseSceneMetadata(t *testing.T) {
	dir := writeScenes(t)

	info, err := ParseSceneMetadata(filepath.Join(dir, "red-cube.toml"))
	require.NoError(t, err)
	assert.Equal(t, SceneInfo{
		ID:          "file:red-cube",
		Name:        "Red Cube",
		Description: "A single unlit cube",
		Group:       "Test Scenes",
		Type:        TypeFile,
		FilePath:    filepath.Join(dir, "red-cube.toml"),
	}, info)

	info, err = ParseSceneMetadata(filepath.Join(dir, "blue_ball.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Blue Ball", info.Name, "falls back to the file name")
	assert.Equal(t, "yaml ball", info.Description)
	assert.Equal(t, GroupFiles, info.Group)
}

func TestListAllScenes(t *testing.T) {
	dir := writeScenes(t)

	response, err := ListAllScenes(dir)
	require.NoError(t, err)
	require.Len(t, response.Groups, 3)

	assert.Equal(t, GroupBuiltin, response.Groups[0].Name)
	assert.Len(t, response.Groups[0].Scenes, len(Builtins()))
	assert.Equal(t, GroupFiles, response.Groups[1].Name)
	assert.Equal(t, "file:blue_ball", response.Groups[1].Scenes[0].ID)
	assert.Equal(t, "Test Scenes", response.Groups[2].Name)
}

func TestListSceneFilesMissingDir(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, scenes)

	response, err := ListAllScenes("")
	require.NoError(t, err)
	assert.Len(t, response.Groups, 1)
}

func TestLoad(t *testing.T) {
	dir := writeScenes(t)

	t.Run("builtin default size", func(t *testing.T) {
		setup, err := Load("basic", dir, 0, 0)
		require.NoError(t, err)
		w, h := setup.Camera.Size()
		assert.Equal(t, DefaultWidth, w)
		assert.Equal(t, DefaultHeight, h)
	})

	t.Run("file keeps its size", func(t *testing.T) {
		setup, err := Load("file:red-cube", dir, 0, 0)
		require.NoError(t, err)
		w, h := setup.Camera.Size()
		assert.Equal(t, 40, w)
		assert.Equal(t, 30, h)
		assert.Len(t, setup.Subjects, 1)
	})

	t.Run("file size override", func(t *testing.T) {
		setup, err := Load("file:blue_ball", dir, 16, 8)
		require.NoError(t, err)
		w, h := setup.Camera.Size()
		assert.Equal(t, 16, w)
		assert.Equal(t, 8, h)
	})

	t.Run("unknown file", func(t *testing.T) {
		_, err := Load("file:missing", dir, 0, 0)
		assert.ErrorIs(t, err, ErrUnknownScene)
	})
}
