package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-soft-renderer/pkg/loaders"
	"github.com/df07/go-soft-renderer/pkg/presets"
)

const testSceneFile = `# Scene: Test Cube
[camera]
size = "24x16"
position = [0, -5, 0]

[[meshes]]
shape = "cube"
[meshes.material]
color = "#00ff00"
`

func TestCreateScene(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "cube.toml")
	require.NoError(t, os.WriteFile(sceneFile, []byte(testSceneFile), 0644))

	tests := []struct {
		name        string
		opts        options
		width       int
		height      int
		expectError bool
	}{
		{"wireframe cube", options{scene: "wireframe-cube"}, 120, 120, false},
		{"basic with size", options{scene: "basic", size: "64x32"}, 64, 32, false},
		{"planet by resolution", options{scene: "planet", size: "icon-desktop"}, 96, 96, false},
		{"lit", options{scene: "lit"}, 120, 120, false},
		{"scene file", options{file: sceneFile}, 24, 16, false},
		{"scene file resized", options{file: sceneFile, size: "8x8"}, 8, 8, false},
		{"discovered file", options{scene: "file:cube", scenesDir: dir}, 24, 16, false},

		{"unknown scene", options{scene: "nonexistent"}, 0, 0, true},
		{"empty scene name", options{}, 0, 0, true},
		{"bad size", options{scene: "basic", size: "big"}, 0, 0, true},
		{"missing file", options{file: filepath.Join(dir, "missing.toml")}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup, err := createScene(tt.opts)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, setup)
				return
			}
			require.NoError(t, err)
			w, h := setup.Camera.Size()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"-scene", "basic", "-size", "32x32", "-frames", "3", "-workers", "2", "-v"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.workers)
	assert.Equal(t, "basic", opts.scene)
	assert.Equal(t, "32x32", opts.size)
	assert.Equal(t, 3, opts.frames)
	assert.True(t, opts.verbose)

	_, err = parseFlags([]string{"-frames", "0"}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-watch"}, &stderr)
	assert.Error(t, err, "watch needs a scene file")

	_, err = parseFlags([]string{"-bogus"}, &stderr)
	assert.Error(t, err)
}

func TestOutputPaths(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	paths := outputPaths(options{scene: "basic", frames: 1}, now)
	assert.Equal(t, []string{filepath.Join("output", "basic", "render_20240506_070809.png")}, paths)

	paths = outputPaths(options{scene: "file:cube", frames: 1}, now)
	assert.Equal(t, filepath.Join("output", "file-cube", "render_20240506_070809.png"), paths[0])

	paths = outputPaths(options{out: "spin.bmp", frames: 3}, now)
	assert.Equal(t, []string{"spin_000.bmp", "spin_001.bmp", "spin_002.bmp"}, paths)
}

func TestRunWritesImages(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frames", "basic.png")
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-scene", "basic", "-size", "40x40", "-frames", "3", "-workers", "2", "-out", out}, &stdout, &stderr)
	require.NoError(t, err)

	first, _, err := loaders.LoadImage(filepath.Join(dir, "frames", "basic_000.png"))
	require.NoError(t, err)
	second, _, err := loaders.LoadImage(filepath.Join(dir, "frames", "basic_001.png"))
	require.NoError(t, err)
	assert.Equal(t, 40, first.Bounds().Dx())
	assert.NotEqual(t, first, second, "subjects spin between frames")

	assert.FileExists(t, filepath.Join(dir, "frames", "basic_002.png"))
	assert.Equal(t, 3, strings.Count(stderr.String(), "render saved"))
}

func TestRunUnknownScene(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-scene", "teapot", "-out", filepath.Join(t.TempDir(), "x.png")}, &stdout, &stderr)
	assert.ErrorIs(t, err, presets.ErrUnknownScene)
}

func TestRunList(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-list", "-scenes", t.TempDir()}, &stdout, &stderr))

	assert.Contains(t, stdout.String(), "Built-in Scenes:")
	assert.Contains(t, stdout.String(), "wireframe-cube")
	assert.Contains(t, stdout.String(), "icon-web")
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(testSceneFile), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	done := make(chan error, 1)
	var logs bytes.Buffer
	go func() {
		done <- watchFile(ctx, path, slog.New(slog.NewTextHandler(&logs, nil)), func() { changes.Add(1) })
	}()

	// Sibling files share the watched directory
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)
		_ = os.WriteFile(path, []byte(testSceneFile), 0644)
		return changes.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
