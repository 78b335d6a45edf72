// Package mpich provides the MPICH MPI library block.
package mpich

import (
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// Defaults for the mpich block.
const (
	DefaultVersion = "4.2.2"
	DefaultPrefix  = "/usr/local/mpich"
	DefaultUCX     = "/usr/local/ucx"
)

// Config represents an mpich block.
type Config struct {
	Version       string
	Prefix        string
	UCX           string // UCX install prefix, empty when not used
	Device        string
	Ldconfig      bool
	ConfigureOpts []string
}

// ParseConfig reads an mpich block.
func ParseConfig(ctx compiler.CompileContext) (*Config, error) {
	cfg := &Config{
		Version:       ctx.String("version", DefaultVersion),
		Prefix:        ctx.Path("prefix", DefaultPrefix),
		Device:        ctx.String("with_device", ""),
		Ldconfig:      ctx.Bool("ldconfig", false),
		ConfigureOpts: ctx.Strings("configure_opts"),
	}
	if on, path := ctx.BoolOrString("with_ucx"); on {
		cfg.UCX = path
		if cfg.UCX == "" {
			cfg.UCX = DefaultUCX
		}
	}
	if err := buildutil.ValidateVersion(cfg.Version); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigureOptions returns the configure flags.
func (c *Config) ConfigureOptions() []string {
	var opts []string
	if c.UCX != "" {
		opts = append(opts, "--with-ucx="+c.UCX)
	}
	if c.Device != "" {
		opts = append(opts, "--with-device="+c.Device)
	}
	return append(opts, c.ConfigureOpts...)
}

// ReleaseURL returns the source tarball of an MPICH release.
func ReleaseURL(version string) string {
	return fmt.Sprintf("https://www.mpich.org/static/downloads/%s/mpich-%s.tar.gz", version, version)
}

// Provider builds MPICH from source.
type Provider struct{}

// NewProvider creates a new mpich Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "mpich"
}

// Shorthand implements compiler.Shorthander.
func (p *Provider) Shorthand() string {
	return "version"
}

// Compile downloads, configures and installs MPICH.
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

	env := buildutil.PrefixEnvironment(cfg.Prefix, buildutil.EnvOptions{Bin: true, LdLibraryPath: !cfg.Ldconfig})

	return []recipe.Directive{
		&recipe.Comment{Text: fmt.Sprintf("MPICH version %s", cfg.Version), Reformat: true},
		&recipe.Packages{
			Distro: ctx.Distro(),
			Apt:    []string{"file", "hwloc", "libnuma-dev", "make", "openssh-client", "perl", "tar", "wget"},
			Yum:    []string{"file", "hwloc", "make", "numactl-devel", "openssh-clients", "perl", "tar", "wget"},
		},
		sh,
		buildutil.Environment(env),
	}, nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Builds the MPICH MPI library",
		"with_ucx accepts true for /usr/local/ucx or the UCX prefix; combine it with "+
			"with_device: ch4:ucx to use UCX as the network layer. Place the ucx block first.",
		[]string{"https://www.mpich.org/documentation/guides/"},
	)
}

var _ compiler.Block = (*Provider)(nil)
