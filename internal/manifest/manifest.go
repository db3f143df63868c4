// Package manifest loads the mapping from platform key to executable
// filename that ships next to the launcher.
//
// Two formats are understood. The npm layout keeps the mapping in the
// package's own package.json under "mcp-server-binaries"; the document is
// validated against an embedded JSON Schema before it is decoded. A Lua
// manifest (manifest.lua) runs in a sandboxed gopher-lua VM with a read-only
// platform table, so a single file can choose names with conditionals.
//
// A Manifest is immutable once loaded.
package manifest

import (
	"context"
	"fmt"
	"regexp"
	"sort"
)

// Well-known manifest file names, looked up in the install directory.
const (
	PackageJSONName = "package.json"
	LuaName         = "manifest.lua"
)

// JSON member names in package.json.
const (
	jsonFieldBinaries  = "mcp-server-binaries"
	jsonFieldChecksums = "mcp-server-checksums"
	jsonFieldKeyring   = "mcp-server-keyring"
)

// Lua globals and fields.
const (
	luaGlobalLauncher = "launcher"
	luaFieldBinaries  = "binaries"
	luaFieldChecksums = "checksums"
	luaFieldKeyring   = "keyring"
)

var sha256Pattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Manifest maps platform keys to executable filenames.
type Manifest struct {
	// Source is the file the manifest was read from, if any.
	Source string

	binaries  map[string]string
	checksums map[string]string
	keyring   string
}

// New builds a manifest from in-memory maps. The maps are copied.
func New(binaries, checksums map[string]string, keyring string) (*Manifest, error) {
	m := &Manifest{
		binaries:  copyMap(binaries),
		checksums: copyMap(checksums),
		keyring:   keyring,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Lookup returns the executable filename for key. Empty names count as absent.
func (m *Manifest) Lookup(key string) (string, bool) {
	name, ok := m.binaries[key]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Checksum returns the expected SHA-256 (hex) of the executable for key.
func (m *Manifest) Checksum(key string) (string, bool) {
	sum, ok := m.checksums[key]
	return sum, ok
}

// Keyring returns the filename of the OpenPGP keyring used to check
// executable signatures, or "" when signatures are not required.
func (m *Manifest) Keyring() string {
	return m.keyring
}

// Keys returns the platform keys in sorted order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.binaries))
	for k := range m.binaries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Manifest) validate() error {
	for key, sum := range m.checksums {
		if !sha256Pattern.MatchString(sum) {
			return &LoadError{
				Message: "invalid manifest",
				Detail:  fmt.Sprintf("checksum for %q is not a hex SHA-256 digest", key),
			}
		}
	}
	return nil
}

// Loader loads a manifest.
type Loader interface {
	Load(ctx context.Context) (*Manifest, error)
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
