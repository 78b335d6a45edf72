// Package python provides the Python interpreter and pip blocks.
package python

import (
	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/platform"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
)

// Config represents a python block.
type Config struct {
	Python2 bool
	Python3 bool
	Devel   bool
}

// ParseConfig reads a python block.
func ParseConfig(ctx compiler.CompileContext) *Config {
	return &Config{
		Python2: ctx.Bool("python2", true),
		Python3: ctx.Bool("python3", true),
		Devel:   ctx.Bool("devel", false),
	}
}

// Packages returns the apt and yum package lists for the configuration.
func (c *Config) Packages(d platform.Distro) (apt, yum []string) {
	if c.Python2 {
		// Ubuntu renamed the python package to python2 in 22.04.
		name := "python"
		if d.Name != "ubuntu" || d.AtLeast(22) {
			name = "python2"
		}
		apt = append(apt, name)
		yum = append(yum, "python2")
		if c.Devel {
			apt = append(apt, name+"-dev")
			yum = append(yum, "python2-devel")
		}
	}
	if c.Python3 {
		apt = append(apt, "python3")
		yum = append(yum, "python3")
		if c.Devel {
			apt = append(apt, "python3-dev")
			yum = append(yum, "python3-devel")
		}
	}
	return apt, yum
}

// Provider installs the distribution Python interpreters.
type Provider struct{}

// NewProvider creates a new python Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "python"
}

// Compile installs the selected interpreters.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cfg := ParseConfig(ctx)
	if !cfg.Python2 && !cfg.Python3 {
		return nil, ErrNoInterpreter
	}
	apt, yum := cfg.Packages(ctx.Distro())
	return []recipe.Directive{
		&recipe.Comment{Text: "Python", Reformat: true},
		&recipe.Packages{Distro: ctx.Distro(), Apt: apt, Yum: yum},
	}, nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs the distribution Python interpreters",
		"Set python2 to false on images that only need Python 3, and devel to true to build "+
			"extension modules.",
		nil,
	)
}

var _ compiler.Block = (*Provider)(nil)
