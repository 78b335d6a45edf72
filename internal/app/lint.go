package app

import (
	"fmt"
	"regexp"

	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/validation"
)

// selfRef matches "$NAME" or "${NAME}" so appends like PATH=/x:$PATH are not
// reported as overrides.
var selfRef = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)

// lintStage checks the strings blocks will splice into shell commands and
// flags recipe smells that still render.
func lintStage(stage *recipe.Stage, result *ValidationResult) {
	set := make(map[string]recipe.Origin)

	for _, d := range stage.Directives() {
		origin := recipe.OriginOf(d)
		switch v := d.(type) {
		case *recipe.Packages:
			lintPackages(v, origin, result)
		case *recipe.Environment:
			for _, key := range v.Keys() {
				if prev, ok := set[key]; ok && !references(v.Variables[key], key) {
					result.Warnings = append(result.Warnings, fmt.Sprintf(
						"%s: %s overrides the value set by %s", where(origin), key, where(prev)))
				}
				set[key] = origin
			}
		}
	}
}

func lintPackages(p *recipe.Packages, origin recipe.Origin, result *ValidationResult) {
	check := func(what, value string, validate func(string) error) {
		if err := validate(value); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s: %v", where(origin), what, err))
		}
	}

	names := p.Names()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		check("package", name, validation.ValidatePackageName)
		if seen[name] {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s: package %s is listed more than once", where(origin), name))
		}
		seen[name] = true
	}

	if p.Distro.IsRPM() {
		for _, key := range p.YumKeys {
			check("key", key, validation.ValidateURL)
		}
		for _, repo := range p.YumRepositories {
			check("repository", repo, validation.ValidateURL)
		}
		return
	}
	for _, ppa := range p.PPAs {
		check("PPA", ppa, validation.ValidatePPA)
	}
	for _, key := range p.AptKeys {
		check("key", key, validation.ValidateURL)
	}
	for _, repo := range p.AptRepositories {
		check("repository", repo, validation.ValidateAptRepository)
	}
}

func references(value, key string) bool {
	for _, m := range selfRef.FindAllStringSubmatch(value, -1) {
		if m[1] == key {
			return true
		}
	}
	return false
}

func where(o recipe.Origin) string {
	s := o.Block
	if o.ID != "" {
		s += " " + o.ID
	}
	if o.Layer != "" {
		s += " (" + o.Layer + ")"
	}
	return s
}
