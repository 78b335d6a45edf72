// Package validation checks the strings that end up inside generated shell
// commands: package names, repositories, keys and source locations.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrInvalidPPA         = errors.New("invalid PPA format")
	ErrInvalidURL         = errors.New("invalid URL")
	ErrInvalidRepository  = errors.New("invalid package repository")
	ErrInvalidPipPackage  = errors.New("invalid pip package name")
	ErrInvalidGitBranch   = errors.New("invalid git branch")
	ErrInvalidGitRemote   = errors.New("invalid git remote URL")
	ErrCommandInjection   = errors.New("potential command injection detected")
)

var (
	// packageNameRegex matches apt and yum package names, with an optional
	// apt "=version" or yum "-version" suffix.
	// Examples: "gcc-12", "g++-12", "libnuma-dev", "python3.11", "cuda-nvcc=12.4.*"
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+:-]*(=[a-zA-Z0-9._+:~*-]+)?$`)

	// ppaRegex matches "ppa:owner/name" or "owner/name".
	// Examples: "ppa:ubuntu-toolchain-r/test", "deadsnakes/ppa"
	ppaRegex = regexp.MustCompile(`^(ppa:)?[a-zA-Z0-9_-]+/[a-zA-Z0-9_-]+$`)

	// urlRegex matches HTTP and HTTPS URLs.
	// Examples: "https://apt.llvm.org/llvm-snapshot.gpg.key", "http://mirror:8080/x.tar.gz"
	urlRegex = regexp.MustCompile(`^https?://[a-zA-Z0-9][a-zA-Z0-9.:_/~+%=-]*$`)

	// aptSourceRegex matches a one-line apt source entry.
	// Example: "deb [arch=amd64] http://apt.llvm.org/jammy/ llvm-toolchain-jammy-17 main"
	aptSourceRegex = regexp.MustCompile(`^deb(-src)? (\[[^\]]+\] )?https?://\S+( \S+)+$`)

	// pipPackageRegex matches pip requirement specifiers with an optional version.
	// Examples: "numpy", "black==23.1.0", "ruff>=0.1.0", "scipy~=1.11"
	pipPackageRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*(\[[a-zA-Z0-9,_-]+\])?([=<>!~]=?[a-zA-Z0-9._*-]+)?$`)

	// gitBranchRegex allows alphanumerics, hyphens, underscores, slashes and dots.
	gitBranchRegex = regexp.MustCompile(`^[a-zA-Z0-9/_.-]+$`)

	gitRemoteRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^https?://[a-zA-Z0-9.:-]+/[a-zA-Z0-9_./~-]+?(\.git)?$`),
		regexp.MustCompile(`^git@[a-zA-Z0-9.-]+:[a-zA-Z0-9_./-]+?(\.git)?$`),
		regexp.MustCompile(`^ssh://[a-zA-Z0-9@.:-]+/[a-zA-Z0-9_./-]+?(\.git)?$`),
	}

	// shellMetaChars contains characters that change the meaning of a
	// generated RUN line.
	shellMetaChars = []string{";", "|", "&", "$", "`", "(", ")", "{", "}", "<", ">", "\n", "\r", "\\", "\"", "'"}
)

// ValidatePackageName validates an apt or yum package name.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if len(name) > 256 {
		return fmt.Errorf("%w: name too long (max 256 characters)", ErrInvalidPackageName)
	}
	if containsShellMeta(name) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, name)
	}
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidPackageName, name)
	}
	return nil
}

// ValidatePPA validates an APT PPA name.
func ValidatePPA(ppa string) error {
	if ppa == "" {
		return ErrEmptyInput
	}
	if containsShellMeta(ppa) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, ppa)
	}
	if !ppaRegex.MatchString(ppa) {
		return fmt.Errorf("%w: %q must be in 'ppa:owner/name' or 'owner/name' format", ErrInvalidPPA, ppa)
	}
	return nil
}

// ValidateURL validates a download, key or yum repository URL.
func ValidateURL(urlStr string) error {
	if urlStr == "" {
		return ErrEmptyInput
	}
	if len(urlStr) > 2048 {
		return fmt.Errorf("%w: URL too long", ErrInvalidURL)
	}
	if containsShellMeta(urlStr) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, urlStr)
	}
	if !urlRegex.MatchString(urlStr) {
		return fmt.Errorf("%w: %q must be a valid HTTP/HTTPS URL", ErrInvalidURL, urlStr)
	}
	return nil
}

// ValidateAptRepository validates an apt source line such as
// "deb http://apt.llvm.org/jammy/ llvm-toolchain-jammy main".
func ValidateAptRepository(line string) error {
	if line == "" {
		return ErrEmptyInput
	}
	if containsShellMeta(line) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, line)
	}
	if !aptSourceRegex.MatchString(line) {
		return fmt.Errorf("%w: %q must look like 'deb URL suite [components]'", ErrInvalidRepository, line)
	}
	return nil
}

// ValidatePipPackage validates a pip package with an optional version specifier.
// Examples: "requests", "black==23.1.0", "ruff>=0.1.0", "numpy~=1.24.0"
func ValidatePipPackage(pkg string) error {
	if pkg == "" {
		return ErrEmptyInput
	}
	if len(pkg) > 256 {
		return fmt.Errorf("%w: package name too long", ErrInvalidPipPackage)
	}
	if containsShellMeta(strings.NewReplacer(">", "", "<", "").Replace(pkg)) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, pkg)
	}
	if !pipPackageRegex.MatchString(pkg) {
		return fmt.Errorf("%w: %q is not a valid pip package name", ErrInvalidPipPackage, pkg)
	}
	return nil
}

// ValidateGitBranch validates a git branch or tag name. Empty selects the
// remote's default branch.
func ValidateGitBranch(branch string) error {
	if branch == "" {
		return nil
	}
	if len(branch) > 255 {
		return fmt.Errorf("%w: name too long (max 255 characters)", ErrInvalidGitBranch)
	}
	if containsShellMeta(branch) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, branch)
	}
	if !gitBranchRegex.MatchString(branch) || strings.Contains(branch, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidGitBranch, branch)
	}
	return nil
}

// ValidateGitRemoteURL validates the URL of a repository to clone.
func ValidateGitRemoteURL(url string) error {
	if url == "" {
		return ErrEmptyInput
	}
	if len(url) > 2048 {
		return fmt.Errorf("%w: URL too long", ErrInvalidGitRemote)
	}
	if containsShellMeta(url) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, url)
	}
	for _, re := range gitRemoteRegexes {
		if re.MatchString(url) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q must be an HTTPS or SSH URL", ErrInvalidGitRemote, url)
}

// containsShellMeta checks if a string contains shell metacharacters.
func containsShellMeta(s string) bool {
	for _, char := range shellMetaChars {
		if strings.Contains(s, char) {
			return true
		}
	}
	return false
}
