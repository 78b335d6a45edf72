package python

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/validation"
	"gopkg.in/ini.v1"
)

// PipConfFile is the system-wide pip configuration.
const PipConfFile = "/etc/pip.conf"

// Errors for the python blocks.
var (
	ErrNoInterpreter = errors.New("python block must enable python2 or python3")
	ErrNoPipPackages = errors.New("pip block has no packages")
	ErrUnknownPip    = errors.New("pip must be pip or pip3")
)

// PipConfig represents a pip block.
type PipConfig struct {
	Pip         string
	Packages    []string
	Upgrade     bool
	IndexURL    string
	TrustedHost string
}

// ParsePipConfig reads a pip block.
func ParsePipConfig(ctx compiler.CompileContext) (*PipConfig, error) {
	cfg := &PipConfig{
		Pip:         ctx.String("pip", "pip3"),
		Packages:    ctx.Strings("packages"),
		Upgrade:     ctx.Bool("upgrade", false),
		IndexURL:    ctx.String("index_url", ""),
		TrustedHost: ctx.String("trusted_host", ""),
	}
	if cfg.Pip != "pip" && cfg.Pip != "pip3" {
		return nil, fmt.Errorf("%w, got %q", ErrUnknownPip, cfg.Pip)
	}
	if len(cfg.Packages) == 0 {
		return nil, ErrNoPipPackages
	}
	for _, pkg := range cfg.Packages {
		if err := validation.ValidatePipPackage(pkg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// PipConf renders /etc/pip.conf, or "" when no index settings are given.
func (c *PipConfig) PipConf() (string, error) {
	if c.IndexURL == "" && c.TrustedHost == "" {
		return "", nil
	}

	f := ini.Empty()
	global := f.Section("global")
	if c.IndexURL != "" {
		global.Key("index-url").SetValue(c.IndexURL)
	}
	if c.TrustedHost != "" {
		global.Key("trusted-host").SetValue(c.TrustedHost)
	}

	var b strings.Builder
	if _, err := f.WriteTo(&b); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", PipConfFile, err)
	}
	return b.String(), nil
}

// PipProvider installs Python packages with pip.
type PipProvider struct{}

// NewPipProvider creates a new pip Provider.
func NewPipProvider() *PipProvider {
	return &PipProvider{}
}

// Name returns the block name.
func (p *PipProvider) Name() string {
	return "pip"
}

// Shorthand implements compiler.Shorthander.
func (p *PipProvider) Shorthand() string {
	return "packages"
}

// Compile installs pip from the distribution, then the packages in the
// order given.
func (p *PipProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cfg, err := ParsePipConfig(ctx)
	if err != nil {
		return nil, err
	}

	apt := []string{"python3-pip", "python3-setuptools", "python3-wheel"}
	yum := []string{"python3-pip"}
	if cfg.Pip == "pip" {
		apt = []string{"python-pip", "python-setuptools", "python-wheel"}
		yum = []string{"python2-pip"}
	}

	var cmds []string
	conf, err := cfg.PipConf()
	if err != nil {
		return nil, err
	}
	if conf != "" {
		cmds = append(cmds, writeFile(PipConfFile, conf))
	}
	if cfg.Upgrade {
		cmds = append(cmds, cfg.Pip+" --no-cache-dir install --upgrade pip")
	}
	cmds = append(cmds, cfg.Pip+" --no-cache-dir install "+strings.Join(requirements(cfg.Packages), " "))

	return []recipe.Directive{
		&recipe.Comment{Text: "pip", Reformat: true},
		&recipe.Packages{Distro: ctx.Distro(), Apt: apt, Yum: yum},
		&recipe.Shell{Commands: cmds},
	}, nil
}

// requirements quotes version specifiers so the shell does not read them as
// redirections.
func requirements(pkgs []string) []string {
	out := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		if strings.ContainsAny(pkg, "<>=!~[") {
			pkg = "'" + pkg + "'"
		}
		out[i] = pkg
	}
	return out
}

// writeFile returns a printf command that writes content to path.
func writeFile(path, content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	quoted := make([]string, 0, len(lines))
	for _, l := range lines {
		quoted = append(quoted, "'"+strings.ReplaceAll(l, "'", `'\''`)+"'")
	}
	return fmt.Sprintf(`printf '%%s\n' %s > %s`, strings.Join(quoted, " "), path)
}

// Explain describes the block.
func (p *PipProvider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Installs Python packages with pip",
		"index_url and trusted_host are written to /etc/pip.conf before anything is installed.",
		[]string{"https://pip.pypa.io/en/stable/topics/configuration/"},
	)
}

var _ compiler.Block = (*PipProvider)(nil)
