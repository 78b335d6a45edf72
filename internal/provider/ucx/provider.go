package ucx

import (
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// ReleaseURL returns the release tarball of a UCX version.
func ReleaseURL(version string) string {
	return fmt.Sprintf("https://github.com/openucx/ucx/releases/download/v%s/ucx-%s.tar.gz", version, version)
}

// Provider builds UCX from a release tarball.
type Provider struct{}

// NewProvider creates a new ucx Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "ucx"
}

// Shorthand implements compiler.Shorthander.
func (p *Provider) Shorthand() string {
	return "version"
}

// Compile downloads, configures and installs UCX.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cfg, err := ParseConfig(ctx)
	if err != nil {
		return nil, err
	}

	archive, err := buildutil.NewArchive(ReleaseURL(cfg.Version))
	if err != nil {
		return nil, err
	}

	cmds := archive.Fetch()
	cmds = append(cmds, buildutil.ConfigureMake(archive.Dir, cfg.Prefix, cfg.ConfigureOptions())...)
	if cfg.Ldconfig {
		cmds = append(cmds, buildutil.Ldconfig(cfg.Prefix+"/lib"))
	}
	cmds = append(cmds, archive.Cleanup())

	sh := &recipe.Shell{Commands: cmds, Chdir: true}
	buildutil.Provide(sh, cfg.Prefix)

	env := buildutil.PrefixEnvironment(cfg.Prefix, buildutil.EnvOptions{
		Include:       true,
		Lib:           true,
		Bin:           true,
		LdLibraryPath: !cfg.Ldconfig,
	})

	return []recipe.Directive{
		&recipe.Comment{Text: fmt.Sprintf("UCX version %s", cfg.Version), Reformat: true},
		&recipe.Packages{
			Distro: ctx.Distro(),
			Apt:    []string{"binutils-dev", "file", "libnuma-dev", "make", "wget"},
			Yum:    []string{"binutils-devel", "file", "make", "numactl-devel", "wget"},
		},
		sh,
		buildutil.Environment(env),
	}, nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Builds the UCX communication framework",
		"cuda, knem, xpmem and gdrcopy accept true for the default prefix, a path, or false to "+
			"disable the transport. ofed enables the verbs and rdmacm transports.",
		[]string{"https://openucx.readthedocs.io/"},
	)
}

var _ compiler.Block = (*Provider)(nil)
