// Package platform identifies the Linux distribution a container base image
// is built on, so building blocks can pick the right package manager and
// repository layout.
package platform

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Family groups distributions that share a package format.
type Family string

const (
	// FamilyDeb covers Debian and Ubuntu (apt, .deb).
	FamilyDeb Family = "deb"
	// FamilyRPM covers RHEL, CentOS, Rocky and Alma Linux (yum/dnf, .rpm).
	FamilyRPM Family = "rpm"
)

// String returns the family name.
func (f Family) String() string {
	return string(f)
}

// Distro describes the distribution of a base image.
type Distro struct {
	Name    string // ubuntu, debian, centos, rockylinux, almalinux, rhel
	Version string // 22.04, 9, ...
	Family  Family
}

// Errors for distribution parsing.
var (
	ErrUnknownDistro = errors.New("unknown distribution")
)

// defaultVersions are used when an image reference names a distribution
// without a version (e.g. "ubuntu" or "rockylinux:latest").
var defaultVersions = map[string]string{
	"ubuntu":     "22.04",
	"debian":     "12",
	"centos":     "7",
	"rockylinux": "9",
	"almalinux":  "9",
	"rhel":       "9",
}

var families = map[string]Family{
	"ubuntu":     FamilyDeb,
	"debian":     FamilyDeb,
	"centos":     FamilyRPM,
	"rockylinux": FamilyRPM,
	"almalinux":  FamilyRPM,
	"rhel":       FamilyRPM,
}

var ubuntuCodenames = map[string]string{
	"18.04": "bionic",
	"20.04": "focal",
	"22.04": "jammy",
	"24.04": "noble",
}

var debianCodenames = map[string]string{
	"10": "buster",
	"11": "bullseye",
	"12": "bookworm",
}

// imageDistroPattern finds a distribution name and optional version anywhere
// in an image reference, e.g. "nvidia/cuda:12.0.0-devel-ubuntu20.04".
var imageDistroPattern = regexp.MustCompile(`(ubuntu|debian|centos|rockylinux|almalinux|rhel|ubi)[:\-_]?(\d+(?:\.\d+)?)?`)

// overridePattern matches explicit overrides such as "ubuntu22", "ubuntu22.04"
// or "rockylinux9".
var overridePattern = regexp.MustCompile(`^(ubuntu|debian|centos|rockylinux|almalinux|rhel)(\d+(?:\.\d+)?)?$`)

// Default returns the distribution assumed when nothing else is known.
func Default() Distro {
	return Distro{Name: "ubuntu", Version: "22.04", Family: FamilyDeb}
}

// Detect derives the distribution from a base image reference.
// The boolean is false when the reference does not name a known distribution.
func Detect(image string) (Distro, bool) {
	ref := strings.ToLower(image)
	// Only look at the repository basename and tag, registries may contain
	// anything.
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}

	m := imageDistroPattern.FindStringSubmatch(ref)
	if m == nil {
		return Distro{}, false
	}

	name := m[1]
	if name == "ubi" {
		name = "rhel"
	}
	return newDistro(name, m[2]), true
}

// Parse parses an explicit distribution override such as "ubuntu20",
// "ubuntu22.04" or "rockylinux9".
func Parse(value string) (Distro, error) {
	m := overridePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(value)))
	if m == nil {
		return Distro{}, fmt.Errorf("%w: %q", ErrUnknownDistro, value)
	}
	return newDistro(m[1], m[2]), nil
}

func newDistro(name, version string) Distro {
	if version == "" {
		version = defaultVersions[name]
	}
	if name == "ubuntu" && !strings.Contains(version, ".") {
		// "ubuntu22" is shorthand for the 22.04 LTS release.
		version += ".04"
	}
	return Distro{Name: name, Version: version, Family: families[name]}
}

// IsZero reports whether the distro is unset.
func (d Distro) IsZero() bool {
	return d.Name == ""
}

// IsDeb reports whether the distro uses apt.
func (d Distro) IsDeb() bool {
	return d.Family == FamilyDeb
}

// IsRPM reports whether the distro uses yum/dnf.
func (d Distro) IsRPM() bool {
	return d.Family == FamilyRPM
}

// Major returns the major version number, or 0 when unparsable.
func (d Distro) Major() int {
	major, _, _ := strings.Cut(d.Version, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0
	}
	return n
}

// AtLeast reports whether the distro version is >= major.
func (d Distro) AtLeast(major int) bool {
	return d.Major() >= major
}

// Codename returns the release codename used in apt sources, or "" when
// unknown.
func (d Distro) Codename() string {
	switch d.Name {
	case "ubuntu":
		return ubuntuCodenames[d.Version]
	case "debian":
		return debianCodenames[d.Version]
	}
	return ""
}

// RepoTag returns the tag NVIDIA and other vendors use for per-distribution
// repositories, e.g. "ubuntu2004" or "rhel8".
func (d Distro) RepoTag() string {
	switch d.Family {
	case FamilyDeb:
		return d.Name + strings.ReplaceAll(d.Version, ".", "")
	case FamilyRPM:
		return "rhel" + strconv.Itoa(d.Major())
	}
	return ""
}

// String returns e.g. "ubuntu 22.04".
func (d Distro) String() string {
	if d.IsZero() {
		return "unknown"
	}
	return d.Name + " " + d.Version
}
