// Package platform detects the host operating system and CPU architecture
// and names them the way the npm package keys its platform executables.
//
// OS and architecture come from the Go runtime and are translated to the
// names Node.js reports (os.platform() and os.arch()), since the manifest
// shipped in package.json is keyed with those names. On Linux, distribution
// details are detected with gopsutil for diagnostics and Lua manifests only;
// they never take part in the platform key.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyGentoo  = "gentoo"
	FamilyUnknown = "unknown"
)

// Info contains platform detection information.
type Info struct {
	OS     string // manifest naming: "linux", "darwin", "win32", ...
	Arch   string // manifest naming: "x64", "arm64", "ia32", ...
	GOOS   string // runtime.GOOS as detected
	GOARCH string // runtime.GOARCH as detected

	// Linux only, best effort.
	Platform string // distro ID, e.g. "ubuntu"
	Family   string // canonical family, e.g. "debian"
	Version  string // distro version, e.g. "22.04"
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information, or nil on non-Linux platforms and
// when distro detection failed.
func (i *Info) GetDistro() *Distro {
	if !i.IsLinux() || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// Pair returns "<os>-<arch>", the form used in user-facing messages.
func (i *Info) Pair() string {
	return i.OS + "-" + i.Arch
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "win32"
}

// IsX64 returns true on 64-bit x86.
func (i *Info) IsX64() bool {
	return i.Arch == "x64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector reports a fixed Info. It is used when the platform is
// already known, for example to evaluate a manifest for another host.
type StaticDetector struct {
	Info *Info
}

// Detect returns a copy of the configured info.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := *d.Info
	return &info, nil
}
