package render

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
)

// dockerEnvScript restores the environment of the Docker base image inside
// %post, which Singularity does not do by itself.
const dockerEnvScript = ". /.singularity.d/env/10-docker*.sh"

const indent = "    "

// Singularity renders Singularity definition files.
type Singularity struct{}

// NewSingularity creates a Singularity definition renderer.
func NewSingularity() *Singularity {
	return &Singularity{}
}

// Format returns FormatSingularity.
func (r *Singularity) Format() Format {
	return FormatSingularity
}

// Render consumes the stage and returns the definition file text.
func (r *Singularity) Render(stage *recipe.Stage) (string, error) {
	return render(stage, r.directive)
}

func (r *Singularity) directive(d recipe.Directive) string {
	switch v := d.(type) {
	case *recipe.Comment:
		return comment(v)
	case *recipe.BaseImage:
		header := []string{"BootStrap: docker", "From: " + v.Image}
		if v.As != "" {
			header = append(header, "Stage: "+v.As)
		}
		return strings.Join(header, "\n") + "\n" + section("%post", []string{dockerEnvScript})
	case *recipe.Packages:
		return section("%post", packageCommands(v))
	case *recipe.Shell:
		cmds := v.Commands
		if v.Chdir {
			cmds = append([]string{"cd /"}, cmds...)
		}
		return section("%post", cmds)
	case *recipe.Environment:
		exports := make([]string, 0, len(v.Variables))
		for _, k := range v.Keys() {
			exports = append(exports, fmt.Sprintf("export %s=%s", k, quote(v.Variables[k])))
		}
		out := section("%environment", exports)
		if v.Export && out != "" {
			out += "\n" + section("%post", exports)
		}
		return out
	case *recipe.Label:
		pairs := make([]string, 0, len(v.Metadata))
		for _, k := range v.Keys() {
			pairs = append(pairs, k+" "+v.Metadata[k])
		}
		return section("%labels", pairs)
	}
	return ""
}

// section renders a definition file section with indented lines.
func section(name string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(name)
	for _, l := range lines {
		b.WriteString("\n" + indent + l)
	}
	return b.String()
}
