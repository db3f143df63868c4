package platform

import (
	"strings"
)

// osNames maps GOOS values whose Node.js name differs.
var osNames = map[string]string{
	"windows": "win32",
	"solaris": "sunos",
	"illumos": "sunos",
}

// archNames maps GOARCH values whose Node.js name differs.
var archNames = map[string]string{
	"amd64":   "x64",
	"386":     "ia32",
	"ppc64le": "ppc64",
	"mipsle":  "mipsel",
}

// familyMap maps distribution family strings reported by gopsutil to
// canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// Key composes the manifest key "<prefix>-<os>-<arch>".
func Key(prefix string, info *Info) string {
	return prefix + "-" + info.OS + "-" + info.Arch
}

func nodeOS(goos string) string {
	if name, ok := osNames[goos]; ok {
		return name
	}
	return goos
}

func nodeArch(goarch string) string {
	if name, ok := archNames[goarch]; ok {
		return name
	}
	return goarch
}

func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizePlatform(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
