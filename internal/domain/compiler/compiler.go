package compiler

import (
	"context"
	"sort"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/config"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/ports"
)

// DocBlock is the origin recorded for the recipe docstring comment.
const DocBlock = "doc"

// Compiler looks up building blocks by kind and runs them in recipe order.
type Compiler struct {
	blocks map[string]Block
}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{
		blocks: make(map[string]Block),
	}
}

// Register adds blocks to the compiler. A block replaces an earlier one of
// the same name.
func (c *Compiler) Register(blocks ...Block) {
	for _, b := range blocks {
		c.blocks[b.Name()] = b
	}
}

// Block returns the block registered under name.
func (c *Compiler) Block(name string) (Block, bool) {
	b, ok := c.blocks[name]
	return b, ok
}

// Blocks returns all registered blocks sorted by name.
func (c *Compiler) Blocks() []Block {
	out := make([]Block, 0, len(c.blocks))
	for _, name := range c.names() {
		out = append(out, c.blocks[name])
	}
	return out
}

func (c *Compiler) names() []string {
	names := make([]string, 0, len(c.blocks))
	for name := range c.blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile builds a validated stage from a merged configuration. Blocks run in
// order; each sees the distribution of the most recent base image. Returns an
// error if:
//   - a block kind is unknown
//   - a block fails or has invalid parameters
//   - the stage does not start with exactly one base image
//   - an environment block references a path installed after it
func (c *Compiler) Compile(ctx context.Context, cfg *config.MergedConfig) (*recipe.Stage, error) {
	stage, _, err := c.compile(ctx, cfg)
	return stage, err
}

// Explain compiles cfg and returns one explanation per block instance.
func (c *Compiler) Explain(ctx context.Context, cfg *config.MergedConfig) ([]Explanation, error) {
	_, explanations, err := c.compile(ctx, cfg)
	return explanations, err
}

func (c *Compiler) compile(ctx context.Context, cfg *config.MergedConfig) (*recipe.Stage, []Explanation, error) {
	logger := ports.LoggerFromContext(ctx)
	stage := recipe.NewStage("")
	explanations := make([]Explanation, 0, len(cfg.Blocks))

	if doc := strings.TrimSpace(cfg.Doc); doc != "" {
		comment := &recipe.Comment{Text: doc}
		recipe.Annotate(comment, recipe.Origin{Block: DocBlock})
		if err := stage.Add(comment); err != nil {
			return nil, nil, NewStageInvalidError(err)
		}
	}

	base := NewCompileContext(nil).WithTarget(cfg.Target).WithVariables(cfg.Variables)
	distro := base.Distro()

	for i, spec := range cfg.Blocks {
		block, ok := c.blocks[spec.Kind]
		if !ok {
			return nil, nil, NewBlockUnknownError(spec.Kind, c.names()).
				WithBlock(spec.Kind, spec.ID, spec.Provenance)
		}

		bctx := base.WithDistro(distro).WithID(spec.ID).WithProvenance(spec.Provenance)
		bctx.params = newParams(spec.Params)
		if s, ok := block.(Shorthander); ok {
			bctx = bctx.WithShorthand(s.Shorthand())
		}

		directives, err := block.Compile(bctx)
		if err != nil {
			return nil, nil, NewBlockFailedError(spec.Kind, err).
				WithBlock(spec.Kind, spec.ID, spec.Provenance)
		}
		if err := bctx.Err(); err != nil {
			return nil, nil, NewParamInvalidError(spec.Kind, err).
				WithBlock(spec.Kind, spec.ID, spec.Provenance)
		}

		origin := recipe.Origin{Block: spec.Kind, ID: spec.ID, Layer: spec.Provenance, Seq: i + 1}
		for _, d := range directives {
			if d == nil {
				continue
			}
			recipe.Annotate(d, origin)
			if b, ok := d.(*recipe.BaseImage); ok {
				distro = b.Distro
			}
			if err := stage.Add(d); err != nil {
				return nil, nil, NewStageInvalidError(err).WithBlock(spec.Kind, spec.ID, spec.Provenance)
			}
		}

		if logger != nil {
			logger.Debug(ctx, "compiled block",
				ports.F("block", spec.Kind),
				ports.F("id", spec.ID),
				ports.F("directives", len(directives)),
				ports.F("distro", distro.String()),
			)
		}

		var explanation Explanation
		if e, ok := block.(Explainer); ok {
			explanation = e.Explain(bctx)
		}
		explanations = append(explanations,
			explanation.withBlock(spec.Kind, spec.ID, directives).WithProvenance(spec.Provenance))
	}

	if err := stage.Validate(); err != nil {
		return nil, nil, NewStageInvalidError(err)
	}
	if violations := recipe.CheckOrdering(stage.Directives()); len(violations) > 0 {
		return nil, nil, NewOrderingViolationError(violations)
	}

	stage.Seal()
	return stage, explanations, nil
}
