// Package compiler turns a merged recipe description into a build stage.
// It provides the core compilation pipeline: BlockSpec → Block → Stage.
package compiler

import "github.com/felixgeelhaar/ogbon/internal/domain/recipe"

// Block compiles one building block entry into primitive directives.
type Block interface {
	// Name returns the block kind used in layer files (e.g., "ucx", "gnu").
	Name() string

	// Compile returns the directives for one block instance, in order.
	Compile(ctx CompileContext) ([]recipe.Directive, error)
}

// Explainer is implemented by blocks that can describe what an instance does.
type Explainer interface {
	Explain(ctx CompileContext) Explanation
}

// Shorthander is implemented by blocks that accept a bare value in place of
// a parameter map, as in "- comment: Compilers". Shorthand returns the
// parameter the bare value stands for.
type Shorthander interface {
	Shorthand() string
}

// Summary returns a one-line description of a block kind.
func Summary(b Block) string {
	if e, ok := b.(Explainer); ok {
		return e.Explain(NewCompileContext(nil)).Summary()
	}
	return ""
}
