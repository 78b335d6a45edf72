// Package genericcmake provides a block that builds any CMake project from a
// release tarball or a git repository.
package genericcmake

import (
	"errors"
	"path"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
	"github.com/felixgeelhaar/ogbon/internal/validation"
)

// DefaultPrefix is the install prefix when none is given.
const DefaultPrefix = "/usr/local"

// Errors for the generic_cmake block.
var (
	ErrNoSource        = errors.New("generic_cmake requires url or repository")
	ErrAmbiguousSource = errors.New("generic_cmake accepts url or repository, not both")
)

// Config represents a generic_cmake block.
type Config struct {
	URL         string
	Repository  string
	Branch      string
	CMakeOpts   []string
	Prefix      string
	Directory   string
	Ldconfig    bool
	Environment bool
}

// ParseConfig reads a generic_cmake block.
func ParseConfig(ctx compiler.CompileContext) (*Config, error) {
	cfg := &Config{
		URL:         ctx.String("url", ""),
		Repository:  ctx.String("repository", ""),
		Branch:      ctx.String("branch", ""),
		CMakeOpts:   ctx.Strings("cmake_opts"),
		Prefix:      ctx.Path("prefix", DefaultPrefix),
		Directory:   ctx.String("directory", ""),
		Ldconfig:    ctx.Bool("ldconfig", false),
		Environment: ctx.Bool("environment", false),
	}
	switch {
	case cfg.URL == "" && cfg.Repository == "":
		return nil, ErrNoSource
	case cfg.URL != "" && cfg.Repository != "":
		return nil, ErrAmbiguousSource
	case cfg.URL != "":
		if err := validation.ValidateURL(cfg.URL); err != nil {
			return nil, err
		}
	default:
		if err := validation.ValidateGitRemoteURL(cfg.Repository); err != nil {
			return nil, err
		}
		if err := validation.ValidateGitBranch(cfg.Branch); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Source returns the human-readable origin of the sources.
func (c *Config) Source() string {
	if c.URL != "" {
		return c.URL
	}
	return c.Repository
}

// Provider builds and installs a CMake project.
type Provider struct{}

// NewProvider creates a new generic_cmake Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the block name.
func (p *Provider) Name() string {
	return "generic_cmake"
}

// Compile fetches the sources, builds out of tree and cleans up.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cfg, err := ParseConfig(ctx)
	if err != nil {
		return nil, err
	}

	var cmds []string
	var src, cleanup string
	pkgs := &recipe.Packages{Distro: ctx.Distro()}

	if cfg.URL != "" {
		archive, err := buildutil.NewArchive(cfg.URL)
		if err != nil {
			return nil, err
		}
		archive = archive.WithDir(cfg.Directory)
		cmds = archive.Fetch()
		src, cleanup = archive.Dir, archive.Cleanup()
		pkgs.Apt = []string{"make", "tar", "wget"}
		pkgs.Yum = []string{"make", "tar", "wget"}
	} else {
		dir := buildutil.RepoDir(cfg.Repository)
		cmds = []string{buildutil.Clone(cfg.Repository, cfg.Branch, dir)}
		src = path.Join(buildutil.WorkDir, dir)
		if cfg.Directory != "" {
			src = path.Join(src, cfg.Directory)
		}
		cleanup = buildutil.Cleanup(path.Join(buildutil.WorkDir, dir))
		pkgs.Apt = []string{"ca-certificates", "git", "make"}
		pkgs.Yum = []string{"ca-certificates", "git", "make"}
	}

	cmds = append(cmds, buildutil.CMakeBuild(src, cfg.Prefix, cfg.CMakeOpts)...)
	if cfg.Ldconfig {
		cmds = append(cmds, buildutil.Ldconfig(cfg.Prefix+"/lib"))
	}
	cmds = append(cmds, cleanup)

	sh := &recipe.Shell{Commands: cmds, Chdir: true}
	buildutil.Provide(sh, cfg.Prefix)

	directives := []recipe.Directive{
		&recipe.Comment{Text: cfg.Source(), Reformat: true},
		pkgs,
		sh,
	}
	if cfg.Environment {
		env := buildutil.PrefixEnvironment(cfg.Prefix, buildutil.EnvOptions{
			Include:       true,
			Lib:           true,
			Bin:           true,
			LdLibraryPath: !cfg.Ldconfig,
		})
		directives = append(directives, buildutil.Environment(env))
	}
	return directives, nil
}

// Explain describes the block.
func (p *Provider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Builds and installs a CMake project from source",
		"directory names the unpacked source directory when it differs from the tarball name, "+
			"or a subdirectory of a repository. Requires an earlier cmake block.",
		[]string{"https://cmake.org/cmake/help/latest/manual/cmake.1.html"},
	)
}

var _ compiler.Block = (*Provider)(nil)
