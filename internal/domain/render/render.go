// Package render turns a compiled stage into container recipe text.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/mitchellh/go-wordwrap"
)

// Format identifies an output format.
type Format string

const (
	// FormatDocker renders a Dockerfile.
	FormatDocker Format = "docker"
	// FormatSingularity renders a Singularity definition file.
	FormatSingularity Format = "singularity"
)

// CommentWidth is the column comments are wrapped at when reformatting is
// allowed.
const CommentWidth = 70

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer turns a stage into recipe text.
type Renderer interface {
	Format() Format
	Render(stage *recipe.Stage) (string, error)
}

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	switch Format(format) {
	case FormatDocker:
		return NewDocker(), nil
	case FormatSingularity:
		return NewSingularity(), nil
	}
	return nil, fmt.Errorf("%w: %q (expected docker or singularity)", ErrUnknownFormat, format)
}

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatDocker, FormatSingularity}
}

// group returns runs of consecutive directives emitted by the same block.
// Blocks are separated by a blank line in the output.
func group(directives []recipe.Directive) [][]recipe.Directive {
	var groups [][]recipe.Directive
	last := -1
	for _, d := range directives {
		seq := recipe.OriginOf(d).Seq
		if len(groups) == 0 || seq != last || seq == 0 {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], d)
		last = seq
	}
	return groups
}

// render consumes the stage and joins per-directive output.
func render(stage *recipe.Stage, emit func(recipe.Directive) string) (string, error) {
	if err := stage.Validate(); err != nil {
		return "", err
	}
	directives, err := stage.Consume()
	if err != nil {
		return "", err
	}

	var blocks []string
	for _, g := range group(directives) {
		var lines []string
		for _, d := range g {
			if s := emit(d); s != "" {
				lines = append(lines, s)
			}
		}
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

// comment renders a comment as "# " prefixed lines.
func comment(c *recipe.Comment) string {
	text := strings.TrimSpace(c.Text)
	if c.Reformat {
		paragraphs := strings.Split(text, "\n\n")
		for i, p := range paragraphs {
			paragraphs[i] = wordwrap.WrapString(strings.Join(strings.Fields(p), " "), CommentWidth)
		}
		text = strings.Join(paragraphs, "\n\n")
	}

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			lines[i] = "#"
			continue
		}
		lines[i] = "# " + l
	}
	return strings.Join(lines, "\n")
}
