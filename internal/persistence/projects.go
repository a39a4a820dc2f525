package persistence

import (
	"path/filepath"
	"strings"

	"github.com/agentstation/halloffame/pkg/projects"
)

// SaveProjects writes the canonical project set. Files ending in .json are
// written as JSON, everything else as YAML.
func SaveProjects(path string, set map[string]*projects.Info) error {
	if set == nil {
		set = map[string]*projects.Info{}
	}
	return writeFile(path, isJSONPath(path), set)
}

// LoadProjects reads a canonical project set written by SaveProjects.
// A missing file is an empty set.
func LoadProjects(path string) (map[string]*projects.Info, error) {
	set := make(map[string]*projects.Info)
	if _, err := readFile(path, isJSONPath(path), &set); err != nil {
		return nil, err
	}
	return set, nil
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
