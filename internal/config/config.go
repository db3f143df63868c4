// Package config resolves where the launcher is installed and which
// manifest it reads.
//
// Defaults follow the npm layout: the install directory is the directory of
// the launcher executable itself (symlinks resolved, since package managers
// link bin entries), and the manifest is the package.json beside it.
// MCPLAUNCH_DIR and MCPLAUNCH_MANIFEST override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/manifest"
)

// DefaultPrefix is the product prefix of every manifest key.
const DefaultPrefix = "mcp-digitalocean"

// Environment variables.
const (
	EnvDir      = "MCPLAUNCH_DIR"
	EnvManifest = "MCPLAUNCH_MANIFEST"
)

// Config holds the resolved launcher settings.
type Config struct {
	// InstallDir is where the platform executables live.
	InstallDir string
	// ManifestPath is the manifest file to load.
	ManifestPath string
	// Prefix is the product prefix of manifest keys.
	Prefix string
}

// Env abstracts the process environment for Load.
type Env struct {
	Getenv     func(string) string
	Executable func() (string, error)
}

// OSEnv is the real process environment.
func OSEnv() Env {
	return Env{Getenv: os.Getenv, Executable: os.Executable}
}

// Load resolves the configuration from env.
func Load(env Env) (*Config, error) {
	dir := env.Getenv(EnvDir)
	if dir == "" {
		exe, err := env.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate launcher executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Dir(exe)
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve install directory: %w", err)
	}

	manifestPath := env.Getenv(EnvManifest)
	switch {
	case manifestPath == "":
		manifestPath = manifest.DefaultPath(dir)
	case !filepath.IsAbs(manifestPath):
		manifestPath = filepath.Join(dir, manifestPath)
	}

	cfg := &Config{
		InstallDir:   dir,
		ManifestPath: manifestPath,
		Prefix:       DefaultPrefix,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.InstallDir == "" {
		return fmt.Errorf("install directory is required")
	}
	if c.ManifestPath == "" {
		return fmt.Errorf("manifest path is required")
	}
	if c.Prefix == "" {
		return fmt.Errorf("key prefix is required")
	}
	return nil
}
