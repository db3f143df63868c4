// Package testutil provides utilities for testing the launcher in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Environment variables read by the launcher.
const (
	envDir      = "MCPLAUNCH_DIR"
	envManifest = "MCPLAUNCH_MANIFEST"
)

// SetupTestEnv creates an isolated install directory and points the
// launcher at it, so tests never read a manifest next to the test binary.
//
// The directory is removed by t.TempDir(); callers don't need to clean up.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(envDir, dir)
	t.Setenv(envManifest, filepath.Join(dir, "package.json"))

	return dir
}

// WriteFile writes content to dir/name with the given permissions and
// returns the path.
func WriteFile(t *testing.T, dir, name, content string, perm os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	// WriteFile honours the umask; set the mode explicitly.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("failed to chmod %s: %v", path, err)
	}
	return path
}
