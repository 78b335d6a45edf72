package buildutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidVersion is returned for versions that are not dotted numbers.
var ErrInvalidVersion = errors.New("invalid version")

func canonical(v string) string {
	return "v" + strings.TrimPrefix(v, "v")
}

// ValidateVersion checks that v looks like "17", "3.29" or "1.17.0".
func ValidateVersion(v string) error {
	if v == "" || !semver.IsValid(canonical(v)) || semver.Prerelease(canonical(v)) != "" {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return nil
}

// MajorMinor returns "3.29" for "3.29.0".
func MajorMinor(v string) string {
	return strings.TrimPrefix(semver.MajorMinor(canonical(v)), "v")
}

// Major returns "17" for "17.0.6".
func Major(v string) string {
	return strings.TrimPrefix(semver.Major(canonical(v)), "v")
}

// AtLeast reports whether v >= min.
func AtLeast(v, min string) bool {
	return semver.Compare(canonical(v), canonical(min)) >= 0
}
