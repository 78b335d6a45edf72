package compiler

import "github.com/felixgeelhaar/ogbon/internal/domain/recipe"

// Explanation describes what one block instance contributes to the recipe.
// Used by the explain command.
type Explanation struct {
	summary    string
	detail     string
	docLinks   []string
	block      string
	id         string
	provenance string
	directives []recipe.Directive
}

// NewExplanation creates a new Explanation.
func NewExplanation(summary, detail string, docLinks []string) Explanation {
	links := make([]string, len(docLinks))
	copy(links, docLinks)
	return Explanation{
		summary:  summary,
		detail:   detail,
		docLinks: links,
	}
}

// Summary returns a brief description of what the block does.
func (e Explanation) Summary() string {
	return e.summary
}

// Detail returns a longer explanation with context.
func (e Explanation) Detail() string {
	return e.detail
}

// DocLinks returns links to upstream documentation.
func (e Explanation) DocLinks() []string {
	links := make([]string, len(e.docLinks))
	copy(links, e.docLinks)
	return links
}

// Block returns the block kind.
func (e Explanation) Block() string {
	return e.block
}

// ID returns the block id, if any.
func (e Explanation) ID() string {
	return e.id
}

// Provenance returns the layer that defined the block.
func (e Explanation) Provenance() string {
	return e.provenance
}

// Directives returns the directives the block emitted.
func (e Explanation) Directives() []recipe.Directive {
	out := make([]recipe.Directive, len(e.directives))
	copy(out, e.directives)
	return out
}

// WithProvenance returns a new Explanation with provenance set.
func (e Explanation) WithProvenance(provenance string) Explanation {
	e.provenance = provenance
	return e
}

// withBlock records the block instance and its output.
func (e Explanation) withBlock(kind, id string, directives []recipe.Directive) Explanation {
	e.block = kind
	e.id = id
	e.directives = directives
	return e
}

// IsEmpty returns true if the explanation has no content.
func (e Explanation) IsEmpty() bool {
	return e.summary == "" && e.detail == "" && len(e.docLinks) == 0
}
