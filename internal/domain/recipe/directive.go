// Package recipe holds the build-stage model: an ordered list of directives
// that a renderer turns into a Dockerfile or Singularity definition.
package recipe

import (
	"sort"

	"github.com/felixgeelhaar/ogbon/internal/domain/platform"
)

// Kind identifies the type of a directive.
type Kind string

const (
	// KindComment is free text emitted as a recipe comment.
	KindComment Kind = "comment"
	// KindBaseImage selects the image the stage starts from.
	KindBaseImage Kind = "baseimage"
	// KindPackages installs operating system packages.
	KindPackages Kind = "packages"
	// KindEnvironment sets environment variables.
	KindEnvironment Kind = "environment"
	// KindShell runs inline shell commands.
	KindShell Kind = "shell"
	// KindLabel attaches image metadata.
	KindLabel Kind = "label"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Origin records which building block emitted a directive.
type Origin struct {
	Block string // building block name, e.g. "ucx"
	ID    string // block id from the layer, if any
	Layer string // layer file the block came from
	Seq   int    // 1-based position of the block in the recipe; 0 if unset
}

// IsZero reports whether the origin is unset.
func (o Origin) IsZero() bool {
	return o == Origin{}
}

// Annotations carries bookkeeping shared by all directives.
type Annotations struct {
	Origin Origin
	// Paths are install prefixes or files this directive populates. The
	// ordering check uses them to verify environment variables are only
	// declared after whatever fills the paths they reference.
	Paths []string
}

// Provide records paths populated by the directive.
func (a *Annotations) Provide(paths ...string) {
	a.Paths = append(a.Paths, paths...)
}

func (a *Annotations) annotations() *Annotations {
	return a
}

// Directive is a single declarative instruction in a build stage.
type Directive interface {
	Kind() Kind
	annotations() *Annotations
}

// OriginOf returns the origin of d.
func OriginOf(d Directive) Origin {
	return d.annotations().Origin
}

// ProvidesOf returns the paths populated by d.
func ProvidesOf(d Directive) []string {
	return d.annotations().Paths
}

// Annotate stamps origin on d unless the directive already carries one.
func Annotate(d Directive, origin Origin) {
	a := d.annotations()
	if a.Origin.IsZero() {
		a.Origin = origin
	}
}

// Comment is free text. Reformat allows the renderer to re-wrap it.
type Comment struct {
	Annotations
	Text     string
	Reformat bool
}

// Kind implements Directive.
func (*Comment) Kind() Kind { return KindComment }

// BaseImage selects the starting image of the stage.
type BaseImage struct {
	Annotations
	Image  string
	As     string // optional stage name
	Distro platform.Distro
}

// Kind implements Directive.
func (*BaseImage) Kind() Kind { return KindBaseImage }

// Packages installs operating system packages. The package lists keep the
// order they were declared in, including duplicates.
type Packages struct {
	Annotations
	Distro          platform.Distro
	Apt             []string
	Yum             []string
	PPAs            []string
	AptKeys         []string
	AptRepositories []string
	YumKeys         []string
	YumRepositories []string
	Epel            bool
}

// Kind implements Directive.
func (*Packages) Kind() Kind { return KindPackages }

// Names returns the package list that applies to the directive's distro.
func (p *Packages) Names() []string {
	if p.Distro.IsRPM() {
		return p.Yum
	}
	return p.Apt
}

// IsEmpty reports whether the directive installs nothing for its distro.
func (p *Packages) IsEmpty() bool {
	if p.Distro.IsRPM() {
		return len(p.Yum) == 0 && len(p.YumRepositories) == 0 && !p.Epel
	}
	return len(p.Apt) == 0 && len(p.PPAs) == 0 && len(p.AptRepositories) == 0
}

// Environment sets variables in the image. When Export is set the variables
// are also visible to later build steps in formats that distinguish the two.
type Environment struct {
	Annotations
	Variables map[string]string
	Export    bool
}

// Kind implements Directive.
func (*Environment) Kind() Kind { return KindEnvironment }

// Keys returns the variable names in sorted order.
func (e *Environment) Keys() []string {
	return sortedKeys(e.Variables)
}

// Shell runs commands at build time.
type Shell struct {
	Annotations
	Commands []string
	// Chdir starts the commands from "/" in formats that do not reset the
	// working directory between sections.
	Chdir bool
}

// Kind implements Directive.
func (*Shell) Kind() Kind { return KindShell }

// Label attaches metadata to the image.
type Label struct {
	Annotations
	Metadata map[string]string
}

// Kind implements Directive.
func (*Label) Kind() Kind { return KindLabel }

// Keys returns the label names in sorted order.
func (l *Label) Keys() []string {
	return sortedKeys(l.Metadata)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
