// Package app provides the main application logic for ogbon.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/felixgeelhaar/ogbon/internal/adapters/logging"
	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/config"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/domain/render"
	"github.com/felixgeelhaar/ogbon/internal/ports"
	"github.com/felixgeelhaar/ogbon/internal/provider/cmake"
	"github.com/felixgeelhaar/ogbon/internal/provider/genericcmake"
	"github.com/felixgeelhaar/ogbon/internal/provider/gnu"
	"github.com/felixgeelhaar/ogbon/internal/provider/knem"
	"github.com/felixgeelhaar/ogbon/internal/provider/llvm"
	"github.com/felixgeelhaar/ogbon/internal/provider/mpich"
	"github.com/felixgeelhaar/ogbon/internal/provider/nsight"
	"github.com/felixgeelhaar/ogbon/internal/provider/primitive"
	"github.com/felixgeelhaar/ogbon/internal/provider/python"
	"github.com/felixgeelhaar/ogbon/internal/provider/ucx"
	"github.com/felixgeelhaar/ogbon/internal/provider/xpmem"
)

// LayersDir is the directory next to the manifest that holds layer files.
const LayersDir = "layers"

// Ogbon is the main application orchestrator.
type Ogbon struct {
	compiler  *compiler.Compiler
	loader    *config.Loader
	validator *config.Validator
	out       io.Writer
}

// DefaultBlocks returns every building block ogbon ships with.
func DefaultBlocks() []compiler.Block {
	blocks := primitive.Blocks()
	return append(blocks,
		gnu.NewProvider(),
		knem.NewProvider(),
		xpmem.NewProvider(),
		ucx.NewProvider(),
		python.NewProvider(),
		python.NewPipProvider(),
		cmake.NewProvider(),
		llvm.NewProvider(),
		mpich.NewProvider(),
		nsight.NewSystemsProvider(),
		nsight.NewComputeProvider(),
		genericcmake.NewProvider(),
	)
}

// New creates a new Ogbon application with the default blocks registered.
func New(out io.Writer) *Ogbon {
	comp := compiler.NewCompiler()
	comp.Register(DefaultBlocks()...)

	return &Ogbon{
		compiler:  comp,
		loader:    config.NewLoader(),
		validator: config.NewValidator(),
		out:       out,
	}
}

// WithBlocks registers additional blocks, replacing built-ins of the same name.
func (o *Ogbon) WithBlocks(blocks ...compiler.Block) *Ogbon {
	o.compiler.Register(blocks...)
	return o
}

// Render loads a manifest, compiles the selected target and renders it.
func (o *Ogbon) Render(ctx context.Context, manifestPath string, opts RenderOptions) (*RenderResult, error) {
	merged, err := o.load(ctx, manifestPath, opts.Target)
	if err != nil {
		return nil, err
	}

	stage, err := o.compiler.Compile(ctx, merged)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = merged.Format
	}
	return o.render(ctx, stage, merged.Target, format, opts.Verify)
}

// Explain compiles the selected target and describes each block instance.
func (o *Ogbon) Explain(ctx context.Context, manifestPath, target string) ([]compiler.Explanation, error) {
	merged, err := o.load(ctx, manifestPath, target)
	if err != nil {
		return nil, err
	}
	return o.compiler.Explain(ctx, merged)
}

// Blocks describes the registered building blocks, sorted by name.
func (o *Ogbon) Blocks() []BlockInfo {
	blocks := o.compiler.Blocks()
	infos := make([]BlockInfo, 0, len(blocks))
	for _, b := range blocks {
		info := BlockInfo{Name: b.Name()}
		if s, ok := b.(compiler.Shorthander); ok {
			info.Shorthand = s.Shorthand()
		}
		if e, ok := b.(compiler.Explainer); ok {
			exp := e.Explain(compiler.NewCompileContext(nil))
			info.Summary = exp.Summary()
			info.Detail = exp.Detail()
			info.DocLinks = exp.DocLinks()
		}
		infos = append(infos, info)
	}
	return infos
}

// Validate runs every check render would, without writing output, and
// reports problems instead of stopping at the first one where it can.
func (o *Ogbon) Validate(ctx context.Context, manifestPath, target string) (*ValidationResult, error) {
	result := &ValidationResult{}

	manifest, err := o.loader.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	result.Info = append(result.Info, fmt.Sprintf("Loaded manifest from %s", manifestPath))

	name, err := manifest.ResolveTarget(target)
	if err != nil {
		return nil, config.NewTargetNotFoundError(target, manifest.TargetNames())
	}
	result.Info = append(result.Info, fmt.Sprintf("Target: %s", name))

	resolved, err := o.loader.LoadTarget(manifest, name, layersDir(manifestPath))
	if err != nil {
		return nil, err
	}
	result.Info = append(result.Info, fmt.Sprintf("Loaded %d layers", len(resolved.Layers)))

	for _, verr := range o.validator.ValidateLayers(resolved.Layers) {
		result.Errors = append(result.Errors, verr.Error())
	}
	if result.HasErrors() {
		return result, nil
	}

	merged, err := config.NewMerger().Merge(resolved.Layers)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}
	merged.Target = name.String()
	merged.Format = manifest.Format()

	merged, err = config.Expand(merged)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}
	for _, verr := range o.validator.Validate(merged) {
		result.Errors = append(result.Errors, verr.Error())
	}
	if result.HasErrors() {
		return result, nil
	}

	stage, err := o.compiler.Compile(ctx, merged)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Compilation failed: %v", err))
		return result, nil
	}
	result.Info = append(result.Info, fmt.Sprintf("Compiled %d blocks into %d directives",
		len(merged.Blocks), stage.Len()))

	lintStage(stage, result)
	if result.HasErrors() {
		return result, nil
	}

	for _, format := range render.Formats() {
		// Each renderer consumes its own stage.
		fresh, err := o.compiler.Compile(ctx, merged)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result, nil
		}
		rendered, err := o.render(ctx, fresh, merged.Target, string(format), true)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s output: %v", format, err))
			continue
		}
		if rendered.Instructions > 0 {
			result.Info = append(result.Info, fmt.Sprintf("%s output parses: %d instructions",
				format, rendered.Instructions))
		} else {
			result.Info = append(result.Info, fmt.Sprintf("%s output rendered: %d lines",
				format, rendered.Lines()))
		}
	}

	return result, nil
}

// load reads the manifest and merges the target's layers, checking layer
// references before merging.
func (o *Ogbon) load(ctx context.Context, manifestPath, target string) (*config.MergedConfig, error) {
	logger := logging.FromContext(ctx)

	manifest, err := o.loader.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	name, err := manifest.ResolveTarget(target)
	if err != nil {
		return nil, config.NewTargetNotFoundError(target, manifest.TargetNames())
	}

	resolved, err := o.loader.LoadTarget(manifest, name, layersDir(manifestPath))
	if err != nil {
		return nil, err
	}
	if errs := o.validator.ValidateLayers(resolved.Layers); len(errs) > 0 {
		return nil, validationErrors(errs, "Check the block ids referenced by before, after and remove.")
	}

	merged, err := config.NewMerger().Merge(resolved.Layers)
	if err != nil {
		return nil, err
	}
	merged.Target = name.String()
	merged.Format = manifest.Format()

	merged, err = config.Expand(merged)
	if err != nil {
		return nil, err
	}
	if errs := o.validator.Validate(merged); len(errs) > 0 {
		return nil, validationErrors(errs, "Run 'ogbon validate' for a full report.")
	}

	logger.Debug(ctx, "loaded configuration",
		ports.F("manifest", manifestPath),
		ports.F("target", merged.Target),
		ports.F("layers", len(merged.Layers)),
		ports.F("blocks", len(merged.Blocks)),
	)
	return merged, nil
}

func (o *Ogbon) render(ctx context.Context, stage *recipe.Stage, target, format string, verify bool) (*RenderResult, error) {
	logger := logging.FromContext(ctx)

	renderer, err := render.New(format)
	if err != nil {
		return nil, err
	}
	text, err := renderer.Render(stage)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", format, err)
	}

	result := &RenderResult{
		Text:        text,
		Format:      string(renderer.Format()),
		Target:      target,
		Fingerprint: render.Fingerprint(text),
	}
	if verify && renderer.Format() == render.FormatDocker {
		n, err := render.Verify(text)
		if err != nil {
			return nil, err
		}
		result.Instructions = n
	}

	logger.Debug(ctx, "rendered recipe",
		ports.F("format", result.Format),
		ports.F("target", target),
		ports.F("fingerprint", result.Fingerprint),
	)
	return result, nil
}

func layersDir(manifestPath string) string {
	return filepath.Join(filepath.Dir(manifestPath), LayersDir)
}

func validationErrors(errs []config.ValidationError, suggestion string) error {
	list := config.NewErrorList()
	for _, e := range errs {
		list.AddValidation(e.Field, e.Message, suggestion)
	}
	return list.AsError()
}
