// Package llvm provides the LLVM/Clang compiler block with OpenMP support.
package llvm

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/platform"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// UpstreamKey signs the apt.llvm.org repositories.
const UpstreamKey = "https://apt.llvm.org/llvm-snapshot.gpg.key"

// Errors for the llvm block.
var (
	ErrUpstreamVersion = errors.New("upstream LLVM requires a version")
	ErrUpstreamDistro  = errors.New("upstream LLVM packages are only published for Debian and Ubuntu")
	ErrUnknownCodename = errors.New("no apt.llvm.org repository for this release")
	ErrVersionedRPM    = errors.New("versioned LLVM packages are not available on RHEL-family images")
)

// Config represents an llvm block.
type Config struct {
	Version  string
	Upstream bool
	OpenMP   bool
	Toolset  bool
	Runtime  bool
}

// ParseConfig reads an llvm block.
func ParseConfig(ctx compiler.CompileContext) (*Config, error) {
	cfg := &Config{
		Version:  ctx.String("version", ""),
		Upstream: ctx.Bool("upstream", false),
		OpenMP:   ctx.Bool("openmp", true),
		Toolset:  ctx.Bool("toolset", false),
		Runtime:  ctx.Bool("runtime", false),
	}
	if cfg.Version != "" {
		if err := buildutil.ValidateVersion(cfg.Version); err != nil {
			return nil, err
		}
		cfg.Version = buildutil.Major(cfg.Version)
	}
	return cfg, cfg.validate(ctx.Distro())
}

func (c *Config) validate(d platform.Distro) error {
	if c.Upstream {
		switch {
		case c.Version == "":
			return ErrUpstreamVersion
		case d.IsRPM():
			return ErrUpstreamDistro
		case d.Codename() == "":
			return fmt.Errorf("%w: %s", ErrUnknownCodename, d)
		}
	}
	if c.Version != "" && d.IsRPM() {
		return ErrVersionedRPM
	}
	return nil
}

// suffix returns the package suffix for versioned packages, e.g. "-17".
func (c *Config) suffix() string {
	if c.Version == "" {
		return ""
	}
	return "-" + c.Version
}

// AptPackages returns the Debian package list.
func (c *Config) AptPackages() []string {
	s := c.suffix()
	pkgs := []string{"clang" + s}
	if c.OpenMP {
		if s == "" {
			pkgs = append(pkgs, "libomp-dev")
		} else {
			pkgs = append(pkgs, "libomp"+s+"-dev")
		}
	}
	if c.Toolset {
		for _, t := range []string{"clang-format", "clang-tidy", "lld", "lldb", "llvm"} {
			pkgs = append(pkgs, t+s)
		}
	}
	return pkgs
}

// YumPackages returns the RHEL package list.
func (c *Config) YumPackages() []string {
	pkgs := []string{"clang"}
	if c.OpenMP {
		pkgs = append(pkgs, "libomp-devel")
	}
	if c.Toolset {
		pkgs = append(pkgs, "clang-tools-extra", "lld", "lldb", "llvm")
	}
	return pkgs
}

// RuntimePackages returns the shared libraries programs built with the
// compiler need at run time.
func (c *Config) RuntimePackages() (apt, yum []string) {
	s := c.suffix()
	apt = []string{"libclang1" + s}
	yum = []string{"llvm-libs"}
	if c.OpenMP {
		if s == "" {
			apt = append(apt, "libomp5")
		} else {
			apt = append(apt, "libomp5"+s)
		}
		yum = append(yum, "libomp")
	}
	return apt, yum
}

// Repository returns the apt.llvm.org source line for d.
func (c *Config) Repository(d platform.Distro) string {
	code := d.Codename()
	return fmt.Sprintf("deb http://apt.llvm.org/%s/ llvm-toolchain-%s-%s main", code, code, c.Version)
}

// Alternatives returns the tools made the default when a version is set.
func (c *Config) Alternatives() []string {
	tools := []string{"clang", "clang++"}
	if c.Toolset {
		tools = append(tools, "clang-format", "clang-tidy", "lld", "lldb", "llvm-config")
	}
	return tools
}
