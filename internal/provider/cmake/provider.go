// Package cmake provides the CMake build system block.
package cmake

import (
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// Defaults for the cmake block.
const (
	DefaultVersion = "3.29.0"
	DefaultPrefix  = "/usr/local"
)

// Config represents a cmake block.
type Config struct {
	Version string
	EULA    bool
	Prefix  string
}

// ParseConfig reads a cmake block.
func ParseConfig(ctx compiler.CompileContext) (*Config, error) {
	cfg := &Config{
		Version: ctx.String("version", DefaultVersion),
		EULA:    ctx.Bool("eula", false),
		Prefix:  ctx.Path("prefix", DefaultPrefix),
	}
	if err := buildutil.ValidateVersion(cfg.Version); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InstallerURL returns the Linux x86_64 self-extracting installer.
func InstallerURL(version string) string {
	return fmt.Sprintf("https://github.com/Kitware/CMake/releases/download/v%s/cmake-%s-linux-x86_64.sh", version, version)
}

// SourceURL returns the source tarball.
func SourceURL(version string) string {
	return fmt.Sprintf("https://github.com/Kitware/CMake/releases/download/v%s/cmake-%s.tar.gz", version, version)
}

// Provider installs CMake. Accepting the EULA installs the prebuilt binary
// distribution; otherwise CMake is bootstrapped from source.
type Provider struct{}

// NewProvider creates a new cmake Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "cmake"
}

// Shorthand implements compiler.Shorthander.
func (p *Provider) Shorthand() string {
	return "version"
}

// Compile installs CMake into the prefix.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cfg, err := ParseConfig(ctx)
	if err != nil {
		return nil, err
	}

	var cmds []string
	pkgs := &recipe.Packages{Distro: ctx.Distro(), Apt: []string{"wget"}, Yum: []string{"wget"}}

	if cfg.EULA {
		fetch, file := buildutil.Download(InstallerURL(cfg.Version))
		cmds = []string{
			fetch,
			"mkdir -p " + cfg.Prefix,
			fmt.Sprintf("/bin/sh %s --prefix=%s --skip-license", file, cfg.Prefix),
			buildutil.Cleanup(file),
		}
	} else {
		pkgs.Apt = []string{"libssl-dev", "make", "wget"}
		pkgs.Yum = []string{"make", "openssl-devel", "wget"}
		archive, err := buildutil.NewArchive(SourceURL(cfg.Version))
		if err != nil {
			return nil, err
		}
		cmds = archive.Fetch()
		cmds = append(cmds,
			"cd "+archive.Dir,
			fmt.Sprintf("./bootstrap --prefix=%s --parallel=$(nproc)", cfg.Prefix),
			"make -j$(nproc)",
			"make install",
			archive.Cleanup(),
		)
	}

	sh := &recipe.Shell{Commands: cmds, Chdir: true}
	buildutil.Provide(sh, cfg.Prefix)
	sh.Provide(fmt.Sprintf("%s/share/cmake-%s", cfg.Prefix, buildutil.MajorMinor(cfg.Version)))

	return []recipe.Directive{
		&recipe.Comment{Text: fmt.Sprintf("CMake version %s", cfg.Version), Reformat: true},
		pkgs,
		sh,
		buildutil.Environment(map[string]string{"PATH": cfg.Prefix + "/bin:$PATH"}),
	}, nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs CMake",
		"Set eula to true to accept the Kitware license and install the prebuilt binaries; "+
			"otherwise CMake is built from source.",
		[]string{"https://cmake.org/download/"},
	)
}

var _ compiler.Block = (*Provider)(nil)
