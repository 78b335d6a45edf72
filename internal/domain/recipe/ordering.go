package recipe

import (
	"fmt"
	"strings"
)

// OrderingViolation reports an environment variable that references a path
// populated only by a later directive.
type OrderingViolation struct {
	Variable    string
	Path        string
	EnvIndex    int // 0-based index of the environment directive
	ProvidedAt  int // 0-based index of the first directive providing Path
	ProvidedBy  Origin
	Environment Origin
}

// String describes the violation.
func (v OrderingViolation) String() string {
	by := v.ProvidedBy.Block
	if v.ProvidedBy.ID != "" {
		by = v.ProvidedBy.ID
	}
	return fmt.Sprintf("%s references %s, which is only populated later by %s (directive %d)",
		v.Variable, v.Path, by, v.ProvidedAt+1)
}

// CheckOrdering returns every environment variable whose value references a
// path that is first populated by a directive appearing after it. Paths that
// no directive provides are assumed to come from the base image.
func CheckOrdering(directives []Directive) []OrderingViolation {
	var violations []OrderingViolation

	for i, d := range directives {
		env, ok := d.(*Environment)
		if !ok {
			continue
		}
		for _, key := range env.Keys() {
			for _, path := range referencedPaths(env.Variables[key]) {
				at := firstProvider(directives, path)
				if at > i {
					violations = append(violations, OrderingViolation{
						Variable:    key,
						Path:        path,
						EnvIndex:    i,
						ProvidedAt:  at,
						ProvidedBy:  OriginOf(directives[at]),
						Environment: env.Origin,
					})
				}
			}
		}
	}

	return violations
}

// referencedPaths extracts absolute paths from a PATH-style value.
func referencedPaths(value string) []string {
	var paths []string
	for _, part := range strings.Split(value, ":") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "/") {
			paths = append(paths, part)
		}
	}
	return paths
}

// firstProvider returns the index of the first directive providing path, or
// -1 when none does. The most specific prefix wins, so a tool installed under
// /usr/local/mpich is attributed to the MPI build rather than to an earlier
// block that installs into /usr/local.
func firstProvider(directives []Directive, path string) int {
	at, longest := -1, 0
	for i, d := range directives {
		for _, p := range ProvidesOf(d) {
			if covers(p, path) && len(p) > longest {
				at, longest = i, len(p)
			}
		}
	}
	return at
}

func covers(prefix, path string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	path = strings.TrimSuffix(path, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
