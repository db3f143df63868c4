// Package launcher resolves the platform executable for the running host and
// runs it in place of the launcher.
//
// The sequence is linear and every failure is terminal: load the manifest,
// detect the platform, look up the executable, check it exists next to the
// launcher, optionally verify it, run it and hand back its exit code. Each
// failure is reported with one line on the error stream and exit code 1.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"

	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/binary"
	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/config"
	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/logging"
	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/manifest"
	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/platform"
	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/process"
)

// Verifier checks an executable before it runs.
type Verifier interface {
	Verify(path string, opts binary.VerifyOptions) (*binary.VerificationResult, error)
}

// Options configures a Launcher. Only Config is required.
type Options struct {
	Config   *config.Config
	Loader   manifest.Loader
	Detector platform.Detector
	Verifier Verifier
	Runner   process.Runner
	Stderr   io.Writer
}

// Launcher runs the platform executable named by the manifest.
type Launcher struct {
	cfg      *config.Config
	loader   manifest.Loader
	detector platform.Detector
	verifier Verifier
	runner   process.Runner
	stderr   io.Writer
}

// New creates a Launcher, filling unset collaborators with the real ones.
func New(opts Options) (*Launcher, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l := &Launcher{
		cfg:      opts.Config,
		loader:   opts.Loader,
		detector: opts.Detector,
		verifier: opts.Verifier,
		runner:   opts.Runner,
		stderr:   opts.Stderr,
	}

	if l.detector == nil {
		l.detector = platform.Cached(platform.NewDetector())
	}
	if l.loader == nil {
		l.loader = manifest.NewFileLoader(l.cfg.ManifestPath, l.detector)
	}
	if l.verifier == nil {
		l.verifier = binary.NewVerifier()
	}
	if l.runner == nil {
		l.runner = process.NewExecRunner()
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}

	return l, nil
}

// Run executes the platform executable with args and returns the exit code
// the launcher should exit with. It never panics.
func (l *Launcher) Run(ctx context.Context, args []string) (code int) {
	report := logging.NewReporter(l.stderr)
	defer func() {
		if r := recover(); r != nil {
			report.Reportf("Error running executable: %v", r)
			code = 1
		}
	}()

	verbose, childArgs := SplitVerbose(args)
	log := l.logger(verbose)

	m, err := l.loader.Load(ctx)
	if err != nil {
		report.Reportf("Error loading manifest: %s", manifest.FormatError(err, verbose))
		return 1
	}
	log.Debug("loaded manifest", "source", m.Source, "entries", len(m.Keys()))

	info, err := l.detector.Detect(ctx)
	if err != nil {
		report.Reportf("Error running executable: %v", err)
		return 1
	}
	log.Debug("detected platform", "os", info.OS, "goos", info.GOOS)
	log.Debug("detected architecture", "arch", info.Arch, "goarch", info.GOARCH)
	if distro := info.GetDistro(); distro != nil {
		log.Debug("detected distribution", "id", distro.ID, "family", distro.Family, "version", distro.Version)
	}

	key := platform.Key(l.cfg.Prefix, info)
	name, ok := m.Lookup(key)
	if !ok {
		report.Reportf("No executable found for platform: %s", info.Pair())
		return 1
	}
	log.Debug("found executable in manifest", "key", key, "name", name)

	path, err := binary.Locate(l.cfg.InstallDir, name)
	switch {
	case errors.Is(err, binary.ErrNotFound):
		report.Reportf("Executable \"%s\" not found.", path)
		return 1
	case err != nil:
		report.Reportf("Error running executable: %v", err)
		return 1
	}
	log.Debug("executable path", "path", path)
	l.checkExecutableBit(log, path)

	if opts := l.verifyOptions(m, key); opts.Enabled() {
		result, err := l.verifier.Verify(path, opts)
		if err != nil {
			report.Reportf("Executable \"%s\" failed verification: %v", path, err)
			return 1
		}
		log.Debug("verified executable", "method", result.String(), "signer", result.Signer)
	}

	cmd, err := process.NewCommand(path, childArgs)
	if err != nil {
		report.Reportf("Error running executable: %v", err)
		return 1
	}

	log.Debug("starting executable", "command", cmd.String())
	code, err = l.runner.Run(ctx, cmd)
	if err != nil {
		var startErr *process.StartError
		if errors.As(err, &startErr) {
			report.Reportf("Error executing package: %v", startErr)
		} else {
			report.Reportf("Error running executable: %v", err)
		}
		return 1
	}

	log.Debug("executable exited", "code", code)
	return code
}

func (l *Launcher) logger(verbose bool) logging.Logger {
	if !verbose {
		return logging.Nop()
	}
	return logging.NewConsoleLogger(l.stderr, logging.LevelDebug).With("run", newRunID())
}

// verifyOptions collects the checks the manifest declares for key.
func (l *Launcher) verifyOptions(m *manifest.Manifest, key string) binary.VerifyOptions {
	var opts binary.VerifyOptions
	if sum, ok := m.Checksum(key); ok {
		opts.SHA256 = sum
	}
	if keyring := m.Keyring(); keyring != "" {
		if !filepath.IsAbs(keyring) {
			keyring = filepath.Join(l.cfg.InstallDir, keyring)
		}
		opts.KeyringPath = keyring
	}
	return opts
}

// checkExecutableBit warns about a missing execute bit; the spawn itself
// reports the failure.
func (l *Launcher) checkExecutableBit(log logging.Logger, path string) {
	if runtime.GOOS == "windows" {
		return
	}
	if ok, err := binary.IsExecutable(path); err == nil && !ok {
		log.Warn("executable bit not set", "path", path)
	}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
