// Package ucx provides the Unified Communication X (UCX) block.
package ucx

import (
	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/provider/buildutil"
)

// Defaults for the ucx block.
const (
	DefaultVersion = "1.17.0"
	DefaultPrefix  = "/usr/local/ucx"
	DefaultCUDA    = "/usr/local/cuda"
	DefaultKNEM    = "/usr/local/knem"
	DefaultXPMEM   = "/usr/local/xpmem"
	DefaultGDRCopy = "/usr/local/gdrcopy"
)

// Feature is an optional dependency that is either switched on, pointed at
// an install prefix, or left out.
type Feature struct {
	Enabled bool
	Path    string
}

// Flag returns the configure flag for the feature. A feature that was never
// configured produces no flag so that UCX can autodetect it.
func (f Feature) Flag(name string, set bool) string {
	switch {
	case !set:
		return ""
	case !f.Enabled:
		return "--without-" + name
	case f.Path != "":
		return "--with-" + name + "=" + f.Path
	default:
		return "--with-" + name
	}
}

func parseFeature(ctx compiler.CompileContext, key, def string) (Feature, bool) {
	set := ctx.Has(key)
	on, path := ctx.BoolOrString(key)
	if on && path == "" {
		path = def
	}
	return Feature{Enabled: on, Path: path}, set
}

// Config represents a ucx block.
type Config struct {
	Version       string
	Prefix        string
	CUDA          Feature
	KNEM          Feature
	XPMEM         Feature
	GDRCopy       Feature
	OFED          bool
	Ldconfig      bool
	DisableStatic bool
	EnableMT      bool

	cudaSet, knemSet, xpmemSet, gdrcopySet, ofedSet bool
}

// ParseConfig reads a ucx block.
func ParseConfig(ctx compiler.CompileContext) (*Config, error) {
	cfg := &Config{
		Version:       ctx.String("version", DefaultVersion),
		Prefix:        ctx.Path("prefix", DefaultPrefix),
		Ldconfig:      ctx.Bool("ldconfig", false),
		DisableStatic: ctx.Bool("disable_static", false),
		EnableMT:      ctx.Bool("enable_mt", false),
	}
	cfg.CUDA, cfg.cudaSet = parseFeature(ctx, "cuda", DefaultCUDA)
	cfg.KNEM, cfg.knemSet = parseFeature(ctx, "knem", DefaultKNEM)
	cfg.XPMEM, cfg.xpmemSet = parseFeature(ctx, "xpmem", DefaultXPMEM)
	cfg.GDRCopy, cfg.gdrcopySet = parseFeature(ctx, "gdrcopy", DefaultGDRCopy)
	cfg.ofedSet = ctx.Has("ofed")
	cfg.OFED = ctx.Bool("ofed", false)

	if err := buildutil.ValidateVersion(cfg.Version); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigureOptions returns the configure flags, release defaults first.
func (c *Config) ConfigureOptions() []string {
	opts := []string{
		"--disable-assertions",
		"--disable-debug",
		"--disable-doxygen-doc",
		"--disable-logging",
		"--disable-params-check",
		"--enable-optimizations",
	}
	if c.DisableStatic {
		opts = append(opts, "--disable-static")
	}
	if c.EnableMT {
		opts = append(opts, "--enable-mt")
	}

	for _, f := range []string{
		c.CUDA.Flag("cuda", c.cudaSet),
		c.GDRCopy.Flag("gdrcopy", c.gdrcopySet),
		c.KNEM.Flag("knem", c.knemSet),
	} {
		if f != "" {
			opts = append(opts, f)
		}
	}

	switch {
	case c.ofedSet && c.OFED:
		opts = append(opts, "--with-rdmacm", "--with-verbs")
	case c.ofedSet:
		opts = append(opts, "--without-rdmacm", "--without-verbs")
	}

	if f := c.XPMEM.Flag("xpmem", c.xpmemSet); f != "" {
		opts = append(opts, f)
	}
	return opts
}
