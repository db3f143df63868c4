package testutil

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// Environment variables that turn a test binary into a stand-in platform
// executable.
const (
	EnvHelper   = "MCPLAUNCH_TEST_HELPER"
	EnvArgsFile = "MCPLAUNCH_TEST_ARGS_FILE"
	EnvExitCode = "MCPLAUNCH_TEST_EXIT_CODE"
	EnvStdout   = "MCPLAUNCH_TEST_STDOUT"
)

// RunHelperIfRequested makes the current process behave as a platform
// executable when EnvHelper is set: it records its arguments, echoes
// EnvStdout and exits with EnvExitCode. Call it first in TestMain, before
// flags are parsed.
func RunHelperIfRequested() {
	if os.Getenv(EnvHelper) != "1" {
		return
	}

	if path := os.Getenv(EnvArgsFile); path != "" {
		data, err := json.Marshal(os.Args[1:])
		if err == nil {
			err = os.WriteFile(path, data, 0o600)
		}
		if err != nil {
			os.Stderr.WriteString("helper: " + err.Error() + "\n")
			os.Exit(90)
		}
	}

	if out := os.Getenv(EnvStdout); out != "" {
		os.Stdout.WriteString(out)
	}

	code, _ := strconv.Atoi(os.Getenv(EnvExitCode))
	os.Exit(code)
}

// InstallHelper copies the running test binary into dir as name, executable.
func InstallHelper(t *testing.T, dir, name string) string {
	t.Helper()

	self, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to locate test binary: %v", err)
	}

	src, err := os.Open(self)
	if err != nil {
		t.Fatalf("failed to open test binary: %v", err)
	}
	defer src.Close()

	path := filepath.Join(dir, name)
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		t.Fatalf("failed to create helper: %v", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		t.Fatalf("failed to copy helper: %v", err)
	}
	if err := dst.Close(); err != nil {
		t.Fatalf("failed to close helper: %v", err)
	}

	return path
}

// ExpectHelper enables helper mode for child processes started by this test
// and makes them exit with code. It returns the file the child records its
// arguments in.
func ExpectHelper(t *testing.T, code int) string {
	t.Helper()

	argsFile := filepath.Join(t.TempDir(), "args.json")
	t.Setenv(EnvHelper, "1")
	t.Setenv(EnvExitCode, strconv.Itoa(code))
	t.Setenv(EnvArgsFile, argsFile)
	return argsFile
}

// HelperArgs returns the arguments recorded by a helper child.
func HelperArgs(t *testing.T, argsFile string) []string {
	t.Helper()

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("helper did not record arguments: %v", err)
	}
	var args []string
	if err := json.Unmarshal(data, &args); err != nil {
		t.Fatalf("failed to decode helper arguments: %v", err)
	}
	return args
}
