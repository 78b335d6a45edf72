package recipe

import (
	"errors"
	"fmt"
)

// Errors for Stage operations.
var (
	ErrNilDirective        = errors.New("directive cannot be nil")
	ErrStageSealed         = errors.New("stage is sealed")
	ErrStageConsumed       = errors.New("stage has already been rendered")
	ErrMissingBaseImage    = errors.New("stage has no base image")
	ErrDuplicateBaseImage  = errors.New("stage has more than one base image")
	ErrBaseImageNotFirst   = errors.New("base image must be the first instruction")
	ErrEmptyBaseImageValue = errors.New("base image reference is empty")
)

// Stage accumulates directives in the order they are added. It is built in
// one pass, then sealed and consumed once by a renderer.
type Stage struct {
	name       string
	directives []Directive
	sealed     bool
	consumed   bool
}

// NewStage creates an empty stage.
func NewStage(name string) *Stage {
	return &Stage{name: name}
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return s.name
}

// Add appends directives to the stage.
func (s *Stage) Add(directives ...Directive) error {
	if s.sealed {
		return ErrStageSealed
	}
	for _, d := range directives {
		if d == nil {
			return ErrNilDirective
		}
	}
	s.directives = append(s.directives, directives...)
	return nil
}

// Len returns the number of directives.
func (s *Stage) Len() int {
	return len(s.directives)
}

// Directives returns a copy of the directive list.
func (s *Stage) Directives() []Directive {
	out := make([]Directive, len(s.directives))
	copy(out, s.directives)
	return out
}

// Seal prevents further additions.
func (s *Stage) Seal() {
	s.sealed = true
}

// Sealed reports whether the stage accepts more directives.
func (s *Stage) Sealed() bool {
	return s.sealed
}

// Consume seals the stage and hands its directives to a renderer. A stage
// can be consumed only once.
func (s *Stage) Consume() ([]Directive, error) {
	if s.consumed {
		return nil, ErrStageConsumed
	}
	s.sealed = true
	s.consumed = true
	return s.Directives(), nil
}

// BaseImage returns the stage's base image directive.
func (s *Stage) BaseImage() (*BaseImage, bool) {
	for _, d := range s.directives {
		if b, ok := d.(*BaseImage); ok {
			return b, true
		}
	}
	return nil, false
}

// Validate checks the structural rules of a stage: exactly one base image,
// preceded by nothing but comments.
func (s *Stage) Validate() error {
	var found bool
	for i, d := range s.directives {
		switch v := d.(type) {
		case *Comment:
			continue
		case *BaseImage:
			if found {
				return fmt.Errorf("%w: directive %d", ErrDuplicateBaseImage, i+1)
			}
			if v.Image == "" {
				return ErrEmptyBaseImageValue
			}
			found = true
		default:
			if !found {
				return fmt.Errorf("%w: found %s at directive %d", ErrBaseImageNotFirst, d.Kind(), i+1)
			}
		}
	}
	if !found {
		return ErrMissingBaseImage
	}
	return nil
}
