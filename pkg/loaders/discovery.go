package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultGroup is used for scene files without a group
const DefaultGroup = "Scenes"

// SceneInfo describes a scene file found on disk
type SceneInfo struct {
	ID          string // File name without extension
	Name        string
	Description string
	Group       string
	FilePath    string
	Objects     int
}

// SceneGroup is a named set of scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

// DiscoverScenes scans dir for JSON scene files and reads their metadata.
// Files that fail to decode are logged and skipped.
func DiscoverScenes(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ReadSceneInfo(filePath)
		if err != nil {
			logger.Warningf("skipping %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ReadSceneInfo decodes a scene file and returns its metadata, falling back
// to a name derived from the file name
func ReadSceneInfo(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	id := strings.TrimSuffix(filename, filepath.Ext(filename))

	f, err := os.Open(filePath)
	if err != nil {
		return SceneInfo{}, err
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return SceneInfo{}, err
	}

	info := SceneInfo{
		ID:          id,
		Name:        file.Name,
		Description: file.Description,
		Group:       file.Group,
		FilePath:    filePath,
		Objects:     len(file.Objects),
	}
	if info.Name == "" {
		info.Name = titleCase(id)
	}
	if info.Group == "" {
		info.Group = DefaultGroup
	}
	return info, nil
}

// GroupScenes groups scenes by their Group field. Groups are sorted by name
// and keep the order of the input within each group.
func GroupScenes(scenes []SceneInfo) []SceneGroup {
	groupMap := make(map[string][]SceneInfo)
	for _, info := range scenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var names []string
	for name := range groupMap {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]SceneGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-box" -> "Cornell Box"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
