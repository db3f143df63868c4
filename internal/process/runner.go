// Package process spawns the platform executable with the launcher's own
// standard streams and relays its exit code.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner runs a command to completion and returns its exit code.
type Runner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// StartError reports a child process that could not be started.
type StartError struct {
	Path string
	Err  error
}

func (e *StartError) Error() string {
	return e.Err.Error()
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec. The streams are handed to the child
// as they are: no shell, no capturing, no buffering.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner wired to the parent's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts the command and waits for it without a timeout. ctx is only
// checked before the child starts; a running child is never cancelled.
//
// The returned error is non-nil only when the child did not run, in which
// case it is a *StartError or the context error. A child terminated without
// an exit code (by a signal) reports 0.
func (r *ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	if err := ctx.Err(); err != nil {
		return 1, err
	}

	cmd := exec.Command(c.Path, c.Args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Start(); err != nil {
		return 1, &StartError{Path: c.Path, Err: err}
	}

	return exitCode(cmd, cmd.Wait())
}

func exitCode(cmd *exec.Cmd, waitErr error) (int, error) {
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		return normalizeExitCode(cmd.ProcessState.ExitCode()), nil
	case errors.As(waitErr, &exitErr):
		return normalizeExitCode(exitErr.ExitCode()), nil
	case cmd.ProcessState != nil:
		// The child exited but copying one of its streams failed.
		return normalizeExitCode(cmd.ProcessState.ExitCode()), nil
	default:
		return 1, fmt.Errorf("wait for process: %w", waitErr)
	}
}

// normalizeExitCode maps "no exit code" (-1, signal termination) to 0.
func normalizeExitCode(code int) int {
	if code < 0 {
		return 0
	}
	return code
}
