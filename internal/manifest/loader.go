package manifest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/platform"
)

// FileLoader reads a manifest from disk, choosing the format by extension.
type FileLoader struct {
	Path     string
	Detector platform.Detector // used by Lua manifests
}

// NewFileLoader creates a loader for path.
func NewFileLoader(path string, detector platform.Detector) *FileLoader {
	return &FileLoader{Path: path, Detector: detector}
}

// Load reads and parses the manifest.
func (l *FileLoader) Load(ctx context.Context) (*Manifest, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, &LoadError{Message: "cannot read manifest", Detail: err.Error(), Err: err}
	}

	var m *Manifest
	switch strings.ToLower(filepath.Ext(l.Path)) {
	case ".lua":
		m, err = ParseLua(ctx, string(data), l.Detector)
	default:
		m, err = ParseJSON(data)
	}
	if err != nil {
		return nil, err
	}

	m.Source = l.Path
	return m, nil
}

// DefaultPath returns the manifest path inside dir: package.json when it
// exists, otherwise manifest.lua when that exists, otherwise package.json.
func DefaultPath(dir string) string {
	jsonPath := filepath.Join(dir, PackageJSONName)
	if _, err := os.Stat(jsonPath); err == nil || !errors.Is(err, fs.ErrNotExist) {
		return jsonPath
	}
	luaPath := filepath.Join(dir, LuaName)
	if _, err := os.Stat(luaPath); err == nil {
		return luaPath
	}
	return jsonPath
}
