package app

import "strings"

// RenderOptions selects what Render produces.
type RenderOptions struct {
	// Target names the manifest target; empty selects the manifest default.
	Target string
	// Format is docker or singularity; empty selects the manifest default.
	Format string
	// Verify parses Docker output with the BuildKit parser.
	Verify bool
}

// RenderResult is a rendered recipe.
type RenderResult struct {
	Text         string
	Format       string
	Target       string
	Fingerprint  string
	Instructions int // parsed Dockerfile instructions, when verified
}

// Lines returns the number of lines in the rendered text.
func (r *RenderResult) Lines() int {
	if r.Text == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(r.Text, "\n"), "\n") + 1
}

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
	Info     []string
}

// HasErrors returns true if there are validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// BlockInfo describes a registered building block.
type BlockInfo struct {
	Name      string
	Shorthand string
	Summary   string
	Detail    string
	DocLinks  []string
}
