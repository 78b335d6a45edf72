// Package primitive provides the building blocks that map one-to-one onto
// recipe directives: comments, the base image, package installs, environment
// variables, shell commands and labels.
package primitive

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/platform"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
)

// Errors for primitive blocks.
var (
	ErrEmptyComment  = errors.New("comment text cannot be empty")
	ErrNoCommands    = errors.New("shell block has no commands")
	ErrNoVariables   = errors.New("environment block has no variables")
	ErrNoMetadata    = errors.New("label block has no metadata")
	ErrNoPackages    = errors.New("packages block installs nothing")
	ErrUnknownDistro = errors.New("cannot detect the distribution of the base image")
)

// Blocks returns all primitive blocks.
func Blocks() []compiler.Block {
	return []compiler.Block{
		&CommentProvider{},
		&BaseImageProvider{},
		&PackagesProvider{},
		&EnvironmentProvider{},
		&ShellProvider{},
		&LabelProvider{},
	}
}

// CommentProvider emits a recipe comment.
type CommentProvider struct{}

// Name returns the block name.
func (p *CommentProvider) Name() string { return "comment" }

// Shorthand implements compiler.Shorthander.
func (p *CommentProvider) Shorthand() string { return "text" }

// Compile emits a single comment.
func (p *CommentProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	text := ctx.String("text", "")
	reformat := ctx.Bool("reformat", true)
	if text == "" {
		return nil, ErrEmptyComment
	}
	return []recipe.Directive{&recipe.Comment{Text: text, Reformat: reformat}}, nil
}

// Explain describes the block.
func (p *CommentProvider) Explain(compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation("Adds a comment to the recipe", "", nil)
}

// BaseImageProvider selects the image the recipe builds on.
type BaseImageProvider struct{}

// Name returns the block name.
func (p *BaseImageProvider) Name() string { return "baseimage" }

// Shorthand implements compiler.Shorthander.
func (p *BaseImageProvider) Shorthand() string { return "image" }

// Compile emits the base image. The distribution is detected from the image
// reference unless "distro" overrides it; later blocks install packages for
// that distribution.
func (p *BaseImageProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	image := ctx.Require("image")
	as := ctx.String("as", "")
	override := ctx.String("distro", "")
	if image == "" {
		return nil, nil
	}

	var distro platform.Distro
	if override != "" {
		d, err := platform.Parse(override)
		if err != nil {
			return nil, err
		}
		distro = d
	} else {
		d, ok := platform.Detect(image)
		if !ok {
			return nil, fmt.Errorf("%w %q; set distro explicitly", ErrUnknownDistro, image)
		}
		distro = d
	}

	return []recipe.Directive{&recipe.BaseImage{Image: image, As: as, Distro: distro}}, nil
}

// Explain describes the block.
func (p *BaseImageProvider) Explain(ctx compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Selects the base image",
		"Must be the first block of the recipe. The Linux distribution detected from the image "+
			"decides whether later blocks install packages with apt or yum.",
		nil,
	)
}

// EnvironmentProvider sets environment variables.
type EnvironmentProvider struct{}

// Name returns the block name.
func (p *EnvironmentProvider) Name() string { return "environment" }

// Shorthand implements compiler.Shorthander.
func (p *EnvironmentProvider) Shorthand() string { return "variables" }

// Compile emits an environment directive.
func (p *EnvironmentProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	vars := ctx.StringMap("variables")
	export := ctx.Bool("export", true)
	if len(vars) == 0 {
		return nil, ErrNoVariables
	}
	return []recipe.Directive{&recipe.Environment{Variables: vars, Export: export}}, nil
}

// Explain describes the block.
func (p *EnvironmentProvider) Explain(compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation(
		"Sets environment variables",
		"Paths referenced by a variable must be installed by an earlier block.",
		nil,
	)
}

// ShellProvider runs inline shell commands.
type ShellProvider struct{}

// Name returns the block name.
func (p *ShellProvider) Name() string { return "shell" }

// Shorthand implements compiler.Shorthander.
func (p *ShellProvider) Shorthand() string { return "commands" }

// Compile emits a shell directive. "provides" lists the paths the commands
// populate so environment blocks can be ordered after them.
func (p *ShellProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	cmds := ctx.Strings("commands")
	chdir := ctx.Bool("chdir", false)
	provides := ctx.Strings("provides")
	if len(cmds) == 0 {
		return nil, ErrNoCommands
	}
	sh := &recipe.Shell{Commands: cmds, Chdir: chdir}
	sh.Provide(provides...)
	return []recipe.Directive{sh}, nil
}

// Explain describes the block.
func (p *ShellProvider) Explain(compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation("Runs shell commands at build time", "", nil)
}

// LabelProvider attaches image metadata.
type LabelProvider struct{}

// Name returns the block name.
func (p *LabelProvider) Name() string { return "label" }

// Shorthand implements compiler.Shorthander.
func (p *LabelProvider) Shorthand() string { return "metadata" }

// Compile emits a label directive.
func (p *LabelProvider) Compile(ctx compiler.CompileContext) ([]recipe.Directive, error) {
	meta := ctx.StringMap("metadata")
	if len(meta) == 0 {
		return nil, ErrNoMetadata
	}
	return []recipe.Directive{&recipe.Label{Metadata: meta}}, nil
}

// Explain describes the block.
func (p *LabelProvider) Explain(compiler.CompileContext) compiler.Explanation {
	return compiler.NewExplanation("Attaches metadata labels to the image", "", nil)
}

// Ensure providers implement compiler.Block.
var (
	_ compiler.Block = (*CommentProvider)(nil)
	_ compiler.Block = (*BaseImageProvider)(nil)
	_ compiler.Block = (*EnvironmentProvider)(nil)
	_ compiler.Block = (*ShellProvider)(nil)
	_ compiler.Block = (*LabelProvider)(nil)
)
