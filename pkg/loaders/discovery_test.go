package loaders

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-empty", "Cornell Empty"},
		{"dragon_gold", "Dragon Gold"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if result := titleCase(tc.input); result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDiscoverScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "bunny-metal.json", `{
		"name": "Stanford Bunny",
		"description": "Metal bunny on a plane",
		"group": "Meshes",
		"camera": {"position": [0, 0, 3], "look_at": [0, 0, 0]},
		"objects": [{"sphere": {"center": [0, 0, 0], "radius": 1}}]
	}`)
	writeSceneFile(t, dir, "two_spheres.json", `{
		"camera": {"position": [0, 0, 3], "look_at": [0, 0, 0]},
		"objects": [
			{"sphere": {"center": [0, 0, 0], "radius": 1}},
			{"sphere": {"center": [2, 0, 0], "radius": 1}}
		]
	}`)
	writeSceneFile(t, dir, "broken.json", `{"objects": [`)
	writeSceneFile(t, dir, "notes.txt", `not a scene`)

	scenes, err := DiscoverScenes(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d: %+v", len(scenes), scenes)
	}

	// Sorted by name
	bunny, spheres := scenes[0], scenes[1]
	if bunny.ID != "bunny-metal" || bunny.Name != "Stanford Bunny" || bunny.Group != "Meshes" {
		t.Errorf("Unexpected metadata %+v", bunny)
	}
	if bunny.Description != "Metal bunny on a plane" || bunny.Objects != 1 {
		t.Errorf("Unexpected metadata %+v", bunny)
	}
	if spheres.Name != "Two Spheres" || spheres.Group != DefaultGroup || spheres.Objects != 2 {
		t.Errorf("Expected fallback metadata, got %+v", spheres)
	}
	if spheres.FilePath != filepath.Join(dir, "two_spheres.json") {
		t.Errorf("Expected file path, got %s", spheres.FilePath)
	}
}

func TestDiscoverScenes_EmptyDirectory(t *testing.T) {
	scenes, err := DiscoverScenes(t.TempDir())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) != 0 {
		t.Errorf("Expected no scenes, got %d", len(scenes))
	}
}

func TestGroupScenes(t *testing.T) {
	scenes := []SceneInfo{
		{ID: "a", Group: "Meshes"},
		{ID: "b", Group: "Basics"},
		{ID: "c", Group: "Meshes"},
	}

	groups := GroupScenes(scenes)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "Basics" || len(groups[0].Scenes) != 1 {
		t.Errorf("Unexpected first group %+v", groups[0])
	}
	if groups[1].Name != "Meshes" || groups[1].Scenes[0].ID != "a" || groups[1].Scenes[1].ID != "c" {
		t.Errorf("Unexpected second group %+v", groups[1])
	}
}

func TestBundledScenesLoad(t *testing.T) {
	scenes, err := DiscoverScenes(filepath.Join("..", "..", "scenes"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) == 0 {
		t.Skip("No bundled scenes found")
	}

	for _, info := range scenes {
		t.Run(info.ID, func(t *testing.T) {
			s, err := LoadScene(info.FilePath, Options{AspectRatio: 1})
			if err != nil {
				t.Fatalf("Failed to load %s: %v", info.FilePath, err)
			}
			if len(s.Objects()) != info.Objects {
				t.Errorf("Expected %d objects, got %d", info.Objects, len(s.Objects()))
			}
		})
	}
}
