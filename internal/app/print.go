package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"}
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	nameStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)

	titleCase = cases.Title(language.English)
)

// PrintValidation outputs a validation report.
func (o *Ogbon) PrintValidation(result *ValidationResult) {
	o.heading("validation results")

	for _, info := range result.Info {
		o.printf("  %s %s\n", mutedStyle.Render("·"), info)
	}
	if len(result.Info) > 0 {
		o.printf("\n")
	}

	for _, w := range result.Warnings {
		o.printf("  %s %s\n", warningStyle.Render("!"), w)
	}
	for _, e := range result.Errors {
		o.printf("  %s %s\n", errorStyle.Render("✗"), e)
	}

	switch {
	case result.HasErrors():
		o.printf("\n%s\n", errorStyle.Render(fmt.Sprintf("%d error(s), %d warning(s)",
			len(result.Errors), len(result.Warnings))))
	case result.HasWarnings():
		o.printf("\n%s\n", warningStyle.Render(fmt.Sprintf("Valid with %d warning(s)", len(result.Warnings))))
	default:
		o.printf("%s\n", successStyle.Render("✓ Recipe is valid"))
	}
}

// PrintExplanations outputs what each block instance contributes.
func (o *Ogbon) PrintExplanations(explanations []compiler.Explanation) {
	o.heading("recipe explanation")

	for i, e := range explanations {
		name := e.Block()
		if e.ID() != "" {
			name = fmt.Sprintf("%s (%s)", name, e.ID())
		}
		o.printf("%2d. %s", i+1, nameStyle.Render(name))
		if e.Provenance() != "" {
			o.printf("  %s", mutedStyle.Render(e.Provenance()))
		}
		o.printf("\n")

		if e.Summary() != "" {
			o.printf("    %s\n", e.Summary())
		}
		if e.Detail() != "" {
			o.printf("    %s\n", mutedStyle.Render(e.Detail()))
		}
		if counts := directiveCounts(e.Directives()); counts != "" {
			o.printf("    Emits: %s\n", counts)
		}
		for _, link := range e.DocLinks() {
			o.printf("    → %s\n", link)
		}
		o.printf("\n")
	}
}

// PrintBlocks outputs the registered building blocks.
func (o *Ogbon) PrintBlocks(blocks []BlockInfo) {
	o.heading("building blocks")

	width := 0
	for _, b := range blocks {
		if len(b.Name) > width {
			width = len(b.Name)
		}
	}

	for _, b := range blocks {
		o.printf("  %s  %s", nameStyle.Render(fmt.Sprintf("%-*s", width, b.Name)), b.Summary)
		if b.Shorthand != "" {
			o.printf(" %s", mutedStyle.Render(fmt.Sprintf("[shorthand: %s]", b.Shorthand)))
		}
		o.printf("\n")
	}
	o.printf("\nRun 'ogbon explain' to see what each block in a recipe emits.\n")
}

// PrintRenderSummary outputs a one-line description of a rendered recipe.
func (o *Ogbon) PrintRenderSummary(result *RenderResult, path string) {
	msg := fmt.Sprintf("✓ Wrote %s recipe for target %s to %s (%d lines)",
		titleCase.String(result.Format), result.Target, path, result.Lines())
	o.printf("%s\n", successStyle.Render(msg))
	if result.Instructions > 0 {
		o.printf("  %s\n", mutedStyle.Render(fmt.Sprintf("%d Dockerfile instructions", result.Instructions)))
	}
	o.printf("  %s\n", mutedStyle.Render("fingerprint "+result.Fingerprint))
}

// directiveCounts summarizes directives by kind, e.g. "1 Comment, 2 Shell".
func directiveCounts(directives []recipe.Directive) string {
	counts := make(map[recipe.Kind]int)
	for _, d := range directives {
		if d != nil {
			counts[d.Kind()]++
		}
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[recipe.Kind(k)], titleCase.String(k)))
	}
	return strings.Join(parts, ", ")
}

func (o *Ogbon) heading(title string) {
	text := titleCase.String(title)
	o.printf("\n%s\n%s\n\n", titleStyle.Render(text), mutedStyle.Render(strings.Repeat("=", len(text))))
}

// printf writes formatted output, ignoring write errors.
func (o *Ogbon) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(o.out, format, args...)
}
