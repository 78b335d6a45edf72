package primitive

import (
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/validation"
)

// PackagesConfig represents a packages block.
type PackagesConfig struct {
	OSPackages      []string
	Apt             []string
	Yum             []string
	PPAs            []string
	AptKeys         []string
	AptRepositories []string
	YumKeys         []string
	YumRepositories []string
	Epel            bool
}

// ParsePackagesConfig reads a packages block.
func ParsePackagesConfig(ctx compiler.CompileContext) *PackagesConfig {
	return &PackagesConfig{
		OSPackages:      ctx.Strings("ospackages"),
		Apt:             ctx.Strings("apt"),
		Yum:             ctx.Strings("yum"),
		PPAs:            ctx.Strings("ppas"),
		AptKeys:         ctx.Strings("apt_keys"),
		AptRepositories: ctx.Strings("apt_repositories"),
		YumKeys:         ctx.Strings("yum_keys"),
		YumRepositories: ctx.Strings("yum_repositories"),
		Epel:            ctx.Bool("epel", false),
	}
}

// Validate checks every string that ends up in the install commands.
func (c *PackagesConfig) Validate() error {
	checks := []struct {
		what   string
		values []string
		check  func(string) error
	}{
		{"package", c.OSPackages, validation.ValidatePackageName},
		{"package", c.Apt, validation.ValidatePackageName},
		{"package", c.Yum, validation.ValidatePackageName},
		{"PPA", c.PPAs, validation.ValidatePPA},
		{"key", c.AptKeys, validation.ValidateURL},
		{"repository", c.AptRepositories, validation.ValidateAptRepository},
		{"key", c.YumKeys, validation.ValidateURL},
		{"repository", c.YumRepositories, validation.ValidateURL},
	}
	for _, chk := range checks {
		for _, v := range chk.values {
			if err := chk.check(v); err != nil {
				return fmt.Errorf("invalid %s: %w", chk.what, err)
			}
		}
	}
	return nil
}

// PackagesProvider installs operating system packages.
type PackagesProvider struct{}

// Name returns the block name.
func (p *PackagesProvider) Name() string { return "packages" }

// Shorthand implements compiler.Shorthander.
func (p *PackagesProvider) Shorthand() string { return "ospackages" }

// Compile emits a packages directive. "apt" and "yum" replace "ospackages"
// for their distribution family. Lists are installed in the order given,
// duplicates included.
func (p *PackagesProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cfg := ParsePackagesConfig(ctx)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apt := cfg.Apt
	if apt == nil {
		apt = cfg.OSPackages
	}
	yum := cfg.Yum
	if yum == nil {
		yum = cfg.OSPackages
	}

	d := &recipe.Packages{
		Distro:          ctx.Distro(),
		Apt:             apt,
		Yum:             yum,
		PPAs:            cfg.PPAs,
		AptKeys:         cfg.AptKeys,
		AptRepositories: cfg.AptRepositories,
		YumKeys:         cfg.YumKeys,
		YumRepositories: cfg.YumRepositories,
		Epel:            cfg.Epel,
	}
	if d.IsEmpty() {
		return nil, ErrNoPackages
	}
	return []recipe.Directive{d}, nil
}

// Explain describes the block.
func (p *PackagesProvider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs operating system packages",
		"Uses apt on Debian and Ubuntu images and yum on RHEL-family images.",
		nil,
	)
}

var _ compiler.Block = (*PackagesProvider)(nil)
