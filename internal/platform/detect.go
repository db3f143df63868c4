package platform

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using the running host.
type RealDetector struct {
	goos   string
	goarch string
}

// NewDetector creates a new platform detector for the running host.
func NewDetector() Detector {
	return &RealDetector{goos: runtime.GOOS, goarch: runtime.GOARCH}
}

// Detect reports the host OS and architecture in manifest naming.
//
// Architecture and OS never fail to detect: values without a Node.js
// equivalent pass through unchanged and simply miss in the manifest.
// Distribution details are best effort on Linux; only a cancelled context
// turns a gopsutil failure into an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:     nodeOS(d.goos),
		Arch:   nodeArch(d.goarch),
		GOOS:   d.goos,
		GOARCH: d.goarch,
	}

	if d.goos != "linux" {
		return info, nil
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}

// cachedDetector runs the wrapped detector once and replays the result.
type cachedDetector struct {
	next Detector
	once sync.Once
	info *Info
	err  error
}

// Cached wraps d so that detection runs at most once. The manifest loader
// and the launcher share one detection this way.
func Cached(d Detector) Detector {
	return &cachedDetector{next: d}
}

func (c *cachedDetector) Detect(ctx context.Context) (*Info, error) {
	c.once.Do(func() {
		c.info, c.err = c.next.Detect(ctx)
	})
	if c.err != nil {
		return nil, c.err
	}
	if c.info == nil {
		return nil, fmt.Errorf("platform detection returned no information")
	}
	info := *c.info
	return &info, nil
}
