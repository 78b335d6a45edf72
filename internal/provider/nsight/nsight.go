// Package nsight provides the NVIDIA Nsight Systems and Nsight Compute
// profiler blocks.
package nsight

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/platform"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// ErrNoVersion is returned when a profiler block has no version.
var ErrNoVersion = errors.New("nsight blocks require a version")

// repoBase hosts the NVIDIA developer tools repositories.
const repoBase = "https://developer.download.nvidia.com/devtools/repos"

// Repository returns the package repository and signing key for d.
func Repository(d platform.Distro) (repo, key string) {
	if d.IsRPM() {
		url := fmt.Sprintf("%s/%s/x86_64", repoBase, d.RepoTag())
		return url, url + "/nvidia.pub"
	}
	url := fmt.Sprintf("%s/%s/amd64", repoBase, d.RepoTag())
	return "deb " + url + "/ /", url + "/nvidia.pub"
}

// packages builds the install directive for one profiler package.
func packages(d platform.Distro, pkg string) *recipe.Packages {
	repo, key := Repository(d)
	p := &recipe.Packages{Distro: d, Apt: []string{pkg}, Yum: []string{pkg}}
	if d.IsRPM() {
		p.YumKeys = []string{key}
		p.YumRepositories = []string{repo}
	} else {
		p.AptKeys = []string{key}
		p.AptRepositories = []string{repo}
	}
	return p
}

// SystemsProvider installs Nsight Systems.
type SystemsProvider struct{}

// NewSystemsProvider creates a new Nsight Systems Provider.
func NewSystemsProvider() *SystemsProvider {
	return &SystemsProvider{}
}

// Name returns the block name.
func (p *SystemsProvider) Name() string {
	return "nsight_systems"
}

// Shorthand implements compiler.Shorthander.
func (p *SystemsProvider) Shorthand() string {
	return "version"
}

// Compile installs the full profiler or, with cli, only the command line
// collector.
func (p *SystemsProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	version := ctx.String("version", "")
	cli := ctx.Bool("cli", false)
	if version == "" {
		return nil, ErrNoVersion
	}
	if err := buildutil.ValidateVersion(version); err != nil {
		return nil, err
	}

	pkg := "nsight-systems-" + version
	if cli {
		pkg = "nsight-systems-cli-" + version
	}
	return []recipe.Directive{
		&recipe.Comment{Text: "NVIDIA Nsight Systems " + version, Reformat: true},
		packages(ctx.Distro(), pkg),
	}, nil
}

// Explain describes the block.
func (p *SystemsProvider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs the NVIDIA Nsight Systems profiler",
		"Set cli to true to install only the nsys command line collector.",
		[]string{"https://docs.nvidia.com/nsight-systems/"},
	)
}

// ComputeProvider installs Nsight Compute.
type ComputeProvider struct{}

// NewComputeProvider creates a new Nsight Compute Provider.
func NewComputeProvider() *ComputeProvider {
	return &ComputeProvider{}
}

// Name returns the block name.
func (p *ComputeProvider) Name() string {
	return "nsight_compute"
}

// Shorthand implements compiler.Shorthander.
func (p *ComputeProvider) Shorthand() string {
	return "version"
}

// Compile installs the profiler and puts ncu on the PATH.
func (p *ComputeProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	version := ctx.String("version", "")
	if version == "" {
		return nil, ErrNoVersion
	}
	if err := buildutil.ValidateVersion(version); err != nil {
		return nil, err
	}

	pkgs := packages(ctx.Distro(), "nsight-compute-"+version)
	prefix := "/opt/nvidia/nsight-compute/" + version
	pkgs.Provide(prefix)

	return []recipe.Directive{
		&recipe.Comment{Text: "NVIDIA Nsight Compute " + version, Reformat: true},
		pkgs,
		&recipe.Environment{Variables: map[string]string{"PATH": prefix + ":$PATH"}, Export: true},
	}, nil
}

// Explain describes the block.
func (p *ComputeProvider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs the NVIDIA Nsight Compute kernel profiler",
		"",
		[]string{"https://docs.nvidia.com/nsight-compute/"},
	)
}

var (
	_ compiler.Block = (*SystemsProvider)(nil)
	_ compiler.Block = (*ComputeProvider)(nil)
)
