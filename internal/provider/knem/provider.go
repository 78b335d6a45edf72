// Package knem provides the KNEM kernel-assisted copy library block.
package knem

import (
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// Defaults for the knem block.
const (
	DefaultVersion = "1.1.4"
	DefaultPrefix  = "/usr/local/knem"
	Repository     = "https://gitlab.inria.fr/knem/knem.git"
)

// Provider installs the KNEM headers. The kernel module itself is loaded on
// the host, so only the user-space interface goes into the image.
type Provider struct{}

// NewProvider creates a new knem Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "knem"
}

// Compile clones the release tag and copies the headers into the prefix.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	version := ctx.String("version", DefaultVersion)
	prefix := ctx.Path("prefix", DefaultPrefix)
	ldconfig := ctx.Bool("ldconfig", false)
	if err := buildutil.ValidateVersion(version); err != nil {
		return nil, err
	}

	src := buildutil.WorkDir + "/knem"
	cmds := []string{
		buildutil.Clone(Repository, "knem-"+version, "knem"),
		"mkdir -p " + prefix,
		"cd " + src,
		"mkdir -p " + prefix + "/include",
		"cp common/*.h " + prefix + "/include",
	}
	if ldconfig {
		cmds = append(cmds, buildutil.Ldconfig(prefix+"/lib"))
	}
	cmds = append(cmds, buildutil.Cleanup(src))

	sh := &recipe.Shell{Commands: cmds, Chdir: true}
	buildutil.Provide(sh, prefix)

	return []recipe.Directive{
		&recipe.Comment{Text: fmt.Sprintf("KNEM version %s", version), Reformat: true},
		&recipe.Packages{
			Distro: ctx.Distro(),
			Apt:    []string{"ca-certificates", "git"},
			Yum:    []string{"ca-certificates", "git"},
		},
		sh,
		buildutil.Environment(map[string]string{"CPATH": prefix + "/include:$CPATH"}),
	}, nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs the KNEM headers for intra-node MPI transfers",
		"UCX and MPI libraries use KNEM for single-copy shared memory transfers when the host "+
			"kernel has the module loaded.",
		[]string{"https://knem.gitlabpages.inria.fr/"},
	)
}

var _ compiler.Block = (*Provider)(nil)
