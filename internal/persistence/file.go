package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
)

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// FileStore keeps the cache in a single file. Files ending in .json are
// written as JSON, everything else as YAML.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) isJSON() bool { return isJSONPath(s.path) }

// Load reads the cached records.
func (s *FileStore) Load(_ context.Context) ([]*projects.Record, error) {
	var snapshots []projects.Snapshot
	found, err := readFile(s.path, s.isJSON(), &snapshots)
	if err != nil || !found {
		return nil, err
	}
	return projects.Records(snapshots), nil
}

// Save writes the records, replacing the file.
func (s *FileStore) Save(_ context.Context, records []*projects.Record) error {
	return writeFile(s.path, s.isJSON(), projects.Snapshots(records))
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

// readFile decodes the file at path into v. It reports false when the
// file does not exist.
func readFile(path string, isJSON bool, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapIO("read", path, err)
	}

	format := "yaml"
	if isJSON {
		format = "json"
		err = json.Unmarshal(data, v)
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return false, errors.WrapParse(format, path, err)
	}
	return true, nil
}

// writeFile encodes v and writes it to path, creating parent directories.
func writeFile(path string, isJSON bool, v any) error {
	var (
		data []byte
		err  error
	)
	if isJSON {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = yaml.MarshalWithOptions(v, yaml.IndentSequence(true))
	}
	if err != nil {
		return errors.WrapResource("encode", "cache", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
