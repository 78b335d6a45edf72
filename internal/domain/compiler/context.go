package compiler

import "github.com/felixgeelhaar/ogbon/internal/domain/platform"

// CompileContext carries one block instance's parameters and the state of the
// recipe compiled so far. With* methods return copies; the parameter map and
// its usage tracking are shared between copies.
type CompileContext struct {
	params     *params
	id         string
	provenance string
	target     string
	distro     platform.Distro
	variables  map[string]string
}

// NewCompileContext creates a CompileContext over a parameter map. The
// distribution defaults to platform.Default until a base image sets it.
func NewCompileContext(values map[string]interface{}) CompileContext {
	return CompileContext{
		params: newParams(values),
		distro: platform.Default(),
	}
}

// WithShorthand returns a copy that resolves key from a bare block value.
func (c CompileContext) WithShorthand(key string) CompileContext {
	c.params.shorthand = key
	return c
}

// ID returns the block id from the layer, if any.
func (c CompileContext) ID() string {
	return c.id
}

// WithID returns a copy with the block id set.
func (c CompileContext) WithID(id string) CompileContext {
	c.id = id
	return c
}

// Provenance returns the layer file that defined the block.
func (c CompileContext) Provenance() string {
	return c.provenance
}

// WithProvenance returns a copy with provenance set.
func (c CompileContext) WithProvenance(provenance string) CompileContext {
	c.provenance = provenance
	return c
}

// Target returns the target being compiled.
func (c CompileContext) Target() string {
	return c.target
}

// WithTarget returns a copy with the target set.
func (c CompileContext) WithTarget(target string) CompileContext {
	c.target = target
	return c
}

// Distro returns the distribution of the base image selected so far.
func (c CompileContext) Distro() platform.Distro {
	return c.distro
}

// WithDistro returns a copy with the distribution set.
func (c CompileContext) WithDistro(d platform.Distro) CompileContext {
	c.distro = d
	return c
}

// Variable returns a recipe variable.
func (c CompileContext) Variable(name string) (string, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// WithVariables returns a copy with the recipe variables set.
func (c CompileContext) WithVariables(vars map[string]string) CompileContext {
	c.variables = vars
	return c
}
