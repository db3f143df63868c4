package binary

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "server-linux-x64"), []byte("bin"), 0o755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tests := []struct {
		name     string
		exec     string
		wantPath string
		wantErr  error
	}{
		{"exists", "server-linux-x64", filepath.Join(dir, "server-linux-x64"), nil},
		{"missing", "server-darwin-arm64", filepath.Join(dir, "server-darwin-arm64"), ErrNotFound},
		{"directory", "subdir", filepath.Join(dir, "subdir"), nil},
		{"empty", "", "", ErrInvalidName},
		{"parent", "..", "", ErrInvalidName},
		{"traversal", "../server", "", ErrInvalidName},
		{"nested", "bin/server", "", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Locate(dir, tt.exec)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Locate() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Locate() error = %v, want %v", err, tt.wantErr)
			}
			if path != tt.wantPath {
				t.Errorf("Locate() path = %q, want %q", path, tt.wantPath)
			}
		})
	}
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not meaningful on Windows")
	}

	dir := t.TempDir()
	exe := filepath.Join(dir, "exe")
	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(exe, []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(plain, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if ok, err := IsExecutable(exe); err != nil || !ok {
		t.Errorf("IsExecutable(exe) = %v, %v; want true", ok, err)
	}
	if ok, err := IsExecutable(plain); err != nil || ok {
		t.Errorf("IsExecutable(plain) = %v, %v; want false", ok, err)
	}
	if _, err := IsExecutable(filepath.Join(dir, "missing")); err == nil {
		t.Error("IsExecutable(missing) should fail")
	}
}
