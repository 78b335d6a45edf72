package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
)

// Docker renders Dockerfiles.
type Docker struct{}

// NewDocker creates a Dockerfile renderer.
func NewDocker() *Docker {
	return &Docker{}
}

// Format returns FormatDocker.
func (r *Docker) Format() Format {
	return FormatDocker
}

// Render consumes the stage and returns the Dockerfile text.
func (r *Docker) Render(stage *recipe.Stage) (string, error) {
	return render(stage, r.directive)
}

func (r *Docker) directive(d recipe.Directive) string {
	switch v := d.(type) {
	case *recipe.Comment:
		return comment(v)
	case *recipe.BaseImage:
		if v.As != "" {
			return fmt.Sprintf("FROM %s AS %s", v.Image, v.As)
		}
		return "FROM " + v.Image
	case *recipe.Packages:
		return run(packageCommands(v))
	case *recipe.Shell:
		return run(v.Commands)
	case *recipe.Environment:
		return keyValues("ENV", v.Keys(), v.Variables)
	case *recipe.Label:
		return keyValues("LABEL", v.Keys(), v.Metadata)
	}
	return ""
}

func run(cmds []string) string {
	if len(cmds) == 0 {
		return ""
	}
	return "RUN " + strings.Join(cmds, " && \\\n    ")
}

func keyValues(instruction string, keys []string, values map[string]string) string {
	if len(keys) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+quote(values[k]))
	}
	return instruction + " " + strings.Join(pairs, " \\\n    ")
}

// quote wraps values that would otherwise split into several words.
func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\"'") {
		return strconv.Quote(v)
	}
	return v
}
