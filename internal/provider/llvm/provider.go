package llvm

import (
	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// Provider installs Clang and the LLVM OpenMP runtime from distribution or
// apt.llvm.org packages.
type Provider struct{}

// NewProvider creates a new llvm Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "llvm"
}

// Shorthand implements compiler.Shorthander.
func (p *Provider) Shorthand() string {
	return "version"
}

// Compile installs the compiler, the OpenMP runtime and optionally the
// runtime libraries as a separate package step.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cfg, err := ParseConfig(ctx)
	if err != nil {
		return nil, err
	}

	distro := ctx.Distro()
	title := "LLVM compiler"
	if cfg.Version != "" {
		title += " " + cfg.Version
	}

	pkgs := &recipe.Packages{Distro: distro, Apt: cfg.AptPackages(), Yum: cfg.YumPackages()}
	if cfg.Upstream {
		pkgs.AptKeys = []string{UpstreamKey}
		pkgs.AptRepositories = []string{cfg.Repository(distro)}
	}

	directives := []recipe.Directive{
		&recipe.Comment{Text: title, Reformat: true},
		pkgs,
	}

	if cfg.Version != "" {
		directives = append(directives, &recipe.Shell{Commands: []string{
			buildutil.UpdateAlternatives(cfg.Alternatives(), "-"+cfg.Version, 30),
		}})
	}

	if cfg.Runtime {
		apt, yum := cfg.RuntimePackages()
		rt := &recipe.Packages{Distro: distro, Apt: apt, Yum: yum}
		if cfg.Upstream {
			rt.AptKeys = pkgs.AptKeys
			rt.AptRepositories = pkgs.AptRepositories
		}
		directives = append(directives, rt)
	}

	return directives, nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs Clang with the LLVM OpenMP runtime",
		"upstream installs a versioned toolchain from apt.llvm.org and makes it the default "+
			"clang. toolset adds clang-format, clang-tidy, lld, lldb and llvm; runtime installs "+
			"the shared runtime libraries.",
		[]string{"https://apt.llvm.org/", "https://openmp.llvm.org/"},
	)
}

var _ compiler.Block = (*Provider)(nil)
