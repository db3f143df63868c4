package binary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned when the executable does not exist.
	ErrNotFound = errors.New("executable not found")
	// ErrInvalidName is returned for names that are not plain file names.
	ErrInvalidName = errors.New("invalid executable name")
)

// Locate returns the path of the executable name inside dir. The path is
// returned alongside ErrNotFound so callers can report it. Any existing
// entry counts, directories included; starting it is what fails.
func Locate(dir, name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	path := filepath.Join(dir, name)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, ErrNotFound
		}
		return path, fmt.Errorf("stat executable: %w", err)
	}

	return path, nil
}

// IsExecutable reports whether path has any execute bit set. It is only
// meaningful on Unix-like systems.
func IsExecutable(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat executable: %w", err)
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0, nil
}
