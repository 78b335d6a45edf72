// Package gnu provides the GNU compiler collection block.
package gnu

import (
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// ToolchainPPA carries newer GCC releases for Ubuntu.
const ToolchainPPA = "ppa:ubuntu-toolchain-r/test"

// Config represents a gnu block.
type Config struct {
	Version         string
	Fortran         bool
	ExtraRepository bool
}

// ParseConfig reads a gnu block.
func ParseConfig(ctx compiler.CompileContext) (*Config, error) {
	cfg := &Config{
		Version:         ctx.String("version", ""),
		Fortran:         ctx.Bool("fortran", true),
		ExtraRepository: ctx.Bool("extra_repository", false),
	}
	if cfg.Version != "" {
		if err := buildutil.ValidateVersion(cfg.Version); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Provider installs gcc, g++ and gfortran from the distribution.
type Provider struct{}

// NewProvider creates a new gnu Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "gnu"
}

// Shorthand implements compiler.Shorthander.
func (p *Provider) Shorthand() string {
	return "version"
}

// Compile installs the compilers. With a version on Ubuntu the versioned
// packages are installed and made the default through update-alternatives.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cfg, err := ParseConfig(ctx)
	if err != nil {
		return nil, err
	}

	distro := ctx.Distro()
	tools := []string{"gcc", "g++"}
	if cfg.Fortran {
		tools = append(tools, "gfortran")
	}

	suffix := ""
	if cfg.Version != "" {
		suffix = "-" + buildutil.Major(cfg.Version)
	}

	apt := make([]string, 0, len(tools))
	for _, t := range []string{"g++", "gcc", "gfortran"} {
		if t == "gfortran" && !cfg.Fortran {
			continue
		}
		apt = append(apt, t+suffix)
	}

	yum := []string{"gcc", "gcc-c++"}
	if cfg.Fortran {
		yum = append(yum, "gcc-gfortran")
	}
	if cfg.Version != "" && distro.IsRPM() {
		// Versioned compilers come from the gcc-toolset software collection.
		toolset := "gcc-toolset-" + buildutil.Major(cfg.Version)
		yum = []string{toolset + "-gcc", toolset + "-gcc-c++"}
		if cfg.Fortran {
			yum = append(yum, toolset+"-gcc-gfortran")
		}
	}

	pkgs := &recipe.Packages{Distro: distro, Apt: apt, Yum: yum}
	if cfg.ExtraRepository {
		pkgs.PPAs = []string{ToolchainPPA}
	}

	title := "GNU compiler"
	if cfg.Version != "" {
		title = fmt.Sprintf("GNU compiler %s", cfg.Version)
	}
	directives := []recipe.Directive{
		&recipe.Comment{Text: title, Reformat: true},
		pkgs,
	}

	if cfg.Version == "" {
		return directives, nil
	}

	if distro.IsRPM() {
		toolset := "/opt/rh/gcc-toolset-" + buildutil.Major(cfg.Version) + "/root/usr"
		directives = append(directives, buildutil.Environment(map[string]string{
			"PATH":            toolset + "/bin:$PATH",
			"LD_LIBRARY_PATH": toolset + "/lib64:$LD_LIBRARY_PATH",
		}))
		return directives, nil
	}

	sh := &recipe.Shell{Commands: []string{buildutil.UpdateAlternatives(append(tools, "gcov"), suffix, 30)}}
	return append(directives, sh), nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs the GNU C, C++ and Fortran compilers",
		"Without a version the distribution default is installed. With a version the versioned "+
			"packages become the default gcc and g++.",
		[]string{"https://gcc.gnu.org/"},
	)
}

var _ compiler.Block = (*Provider)(nil)
