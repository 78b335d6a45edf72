// Package xpmem provides the XPMEM cross-process memory mapping block.
package xpmem

import (
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
	"github.com/felixgeelhaar/ogbon/internal/validation"
)

// Defaults for the xpmem block.
const (
	DefaultBranch = "master"
	DefaultPrefix = "/usr/local/xpmem"
	Repository    = "https://github.com/hjelmn/xpmem.git"
)

// Provider builds the XPMEM user-space library.
type Provider struct{}

// NewProvider creates a new xpmem Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "xpmem"
}

// Compile clones and builds the library without the kernel module.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	branch := ctx.String("branch", DefaultBranch)
	prefix := ctx.Path("prefix", DefaultPrefix)
	ldconfig := ctx.Bool("ldconfig", false)
	if err := validation.ValidateGitBranch(branch); err != nil {
		return nil, err
	}

	src := buildutil.WorkDir + "/xpmem"
	cmds := []string{buildutil.Clone(Repository, branch, "xpmem"), "cd " + src, "autoreconf --install"}
	cmds = append(cmds, buildutil.ConfigureMake(src, prefix, []string{"--disable-kernel-module"})[1:]...)
	if ldconfig {
		cmds = append(cmds, buildutil.Ldconfig(prefix+"/lib"))
	}
	cmds = append(cmds, buildutil.Cleanup(src))

	sh := &recipe.Shell{Commands: cmds, Chdir: true}
	buildutil.Provide(sh, prefix)

	env := buildutil.PrefixEnvironment(prefix, buildutil.EnvOptions{
		Include:       true,
		Lib:           true,
		LdLibraryPath: !ldconfig,
	})

	return []recipe.Directive{
		&recipe.Comment{Text: fmt.Sprintf("XPMEM branch %s", branch), Reformat: true},
		&recipe.Packages{
			Distro: ctx.Distro(),
			Apt:    []string{"autoconf", "automake", "ca-certificates", "file", "git", "libtool", "make"},
			Yum:    []string{"autoconf", "automake", "ca-certificates", "file", "git", "libtool", "make"},
		},
		sh,
		buildutil.Environment(env),
	}, nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Builds the XPMEM library for cross-process memory mapping",
		"Only the user-space library is built; the kernel module must be present on the host.",
		[]string{"https://github.com/hjelmn/xpmem"},
	)
}

var _ compiler.Block = (*Provider)(nil)
