package manifest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLoader_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, PackageJSONName,
		`{"mcp-server-binaries": {"mcp-digitalocean-linux-x64": "server-linux-x64"}}`)

	m, err := NewFileLoader(path, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, m.Source)

	got, ok := m.Lookup("mcp-digitalocean-linux-x64")
	assert.True(t, ok)
	assert.Equal(t, "server-linux-x64", got)
}

func TestFileLoader_Lua(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, LuaName, `
launcher = { binaries = { [platform.key("mcp-digitalocean")] = "server" } }`)

	m, err := NewFileLoader(path, staticDetector("darwin", "arm64")).Load(context.Background())
	require.NoError(t, err)

	got, ok := m.Lookup("mcp-digitalocean-darwin-arm64")
	assert.True(t, ok)
	assert.Equal(t, "server", got)
}

func TestFileLoader_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), PackageJSONName)

	_, err := NewFileLoader(path, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "cannot read manifest", loadErr.Message)
}

func TestDefaultPath(t *testing.T) {
	t.Run("prefers package.json", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, PackageJSONName, `{}`)
		writeFile(t, dir, LuaName, ``)
		assert.Equal(t, filepath.Join(dir, PackageJSONName), DefaultPath(dir))
	})

	t.Run("falls back to manifest.lua", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, LuaName, ``)
		assert.Equal(t, filepath.Join(dir, LuaName), DefaultPath(dir))
	})

	t.Run("package.json when nothing exists", func(t *testing.T) {
		dir := t.TempDir()
		assert.Equal(t, filepath.Join(dir, PackageJSONName), DefaultPath(dir))
	})
}
