package presets

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-soft-renderer/pkg/loaders"
	"github.com/df07/go-soft-renderer/pkg/scene"
)

// Scene types
const (
	TypeBuiltin = "builtin"
	TypeFile    = "file"
)

// Group names
const (
	GroupBuiltin = "Built-in Scenes"
	GroupFiles   = "Scene Files"
)

const fileIDPrefix = "file:"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // scene file path (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Builtins lists the built-in presets in display order
func Builtins() []SceneInfo {
	return []SceneInfo{
		{
			ID:          "wireframe-cube",
			Name:        "Wireframe Cube",
			Description: "Red wireframe unit cube",
			Group:       GroupBuiltin,
			Type:        TypeBuiltin,
		},
		{
			ID:          "basic",
			Name:        "Basic",
			Description: "Two posts and a ball in flat colors",
			Group:       GroupBuiltin,
			Type:        TypeBuiltin,
		},
		{
			ID:          "planet",
			Name:        "Planet",
			Description: "Textured planet and satellite under a gradient sky",
			Group:       GroupBuiltin,
			Type:        TypeBuiltin,
		},
		{
			ID:          "lit",
			Name:        "Lit",
			Description: "Diffuse cube and ball lit by a point light",
			Group:       GroupBuiltin,
			Type:        TypeBuiltin,
		},
	}
}

// ListSceneFiles scans dir for .toml, .yaml and .yml scene files.
// A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}

	var scenes []SceneInfo
	for _, pattern := range []string{"*.toml", "*.yaml", "*.yml"} {
		files, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		for _, path := range files {
			info, err := ParseSceneMetadata(path)
			if err != nil {
				slog.Warn("failed to parse scene metadata", "path", path, "error", err)
				continue
			}
			scenes = append(scenes, info)
		}
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads "# Scene:", "# Description:" and "# Group:" lines
// from the comment block at the top of a scene file
func ParseSceneMetadata(path string) (SceneInfo, error) {
	filename := filepath.Base(path)
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       fileIDPrefix + base,
		Name:     titleCase(base),
		Group:    GroupFiles,
		Type:     TypeFile,
		FilePath: path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Scene":
			info.Name = value
		case "Description":
			info.Description = value
		case "Group":
			info.Group = value
		}
	}
	return info, scanner.Err()
}

// ListAllScenes returns built-in presets and the scene files in dir, grouped
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	files, err := ListSceneFiles(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	all := append(Builtins(), files...)

	groupMap := make(map[string][]SceneInfo)
	for _, s := range all {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	var groupNames []string
	for name := range groupMap {
		if name != GroupBuiltin {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{Name: GroupBuiltin, Scenes: groupMap[GroupBuiltin]})
	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return response, nil
}

// Load creates the scene with the given id: a built-in preset name or
// "file:<name>" for a scene file in dir. Non-zero width and height
// override the frame size a scene file asks for.
func Load(id, dir string, width, height int) (*Setup, error) {
	name, isFile := strings.CutPrefix(id, fileIDPrefix)
	if !isFile {
		if width <= 0 || height <= 0 {
			width, height = DefaultWidth, DefaultHeight
		}
		return Build(id, width, height)
	}

	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		base := strings.TrimSuffix(filepath.Base(info.FilePath), filepath.Ext(info.FilePath))
		if base == name {
			return LoadFile(info.FilePath, width, height)
		}
	}
	return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
}

// LoadFile builds a scene file, optionally overriding its frame size.
// Its root renderables become the subjects.
func LoadFile(path string, width, height int) (*Setup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	file, err := loaders.DecodeSceneFile(f, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if width > 0 && height > 0 {
		file.Camera.Size = fmt.Sprintf("%dx%d", width, height)
	}

	loaded, err := file.Build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Setup{Scene: loaded.Scene, Camera: loaded.Camera, Subjects: Subjects(loaded.Scene)}, nil
}

// Subjects returns the root renderables of s
func Subjects(s *scene.Scene) []scene.Node {
	var nodes []scene.Node
	for _, n := range s.Roots() {
		if _, ok := n.Renderable(); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// titleCase converts a filename-style string to title case
// e.g., "red-cube" -> "Red Cube"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
