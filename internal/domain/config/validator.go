package config

import "fmt"

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator validates configuration structure. Block parameters are checked
// by the building blocks themselves at compile time.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateLayers checks block references across an ordered layer stack:
// duplicate ids within a layer, and before/after/remove pointing at ids that
// no earlier block declares.
func (v *Validator) ValidateLayers(layers []Layer) []ValidationError {
	var errs []ValidationError
	known := make(map[string]bool)

	for _, layer := range layers {
		seen := make(map[string]bool)
		for i, b := range layer.Blocks {
			field := fmt.Sprintf("%s.blocks[%d]", layer.Name, i)

			if b.Kind == "" {
				errs = append(errs, ValidationError{Field: field, Message: "kind is required"})
			}
			if b.Remove && b.ID == "" {
				errs = append(errs, ValidationError{Field: field, Message: "remove requires an id"})
			}
			for _, ref := range []string{b.Before, b.After} {
				if ref != "" && !known[ref] {
					errs = append(errs, ValidationError{
						Field:   field,
						Message: fmt.Sprintf("references unknown block %q", ref),
					})
				}
			}
			if b.ID == "" {
				continue
			}
			if seen[b.ID] {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("duplicate block id %q in layer", b.ID),
				})
			}
			seen[b.ID] = true

			if b.Remove {
				if !known[b.ID] {
					errs = append(errs, ValidationError{
						Field:   field,
						Message: fmt.Sprintf("cannot remove unknown block %q", b.ID),
					})
				}
				delete(known, b.ID)
				continue
			}
			known[b.ID] = true
		}
	}

	return errs
}

// Validate checks a merged configuration.
func (v *Validator) Validate(merged *MergedConfig) []ValidationError {
	var errs []ValidationError

	if len(merged.Blocks) == 0 {
		errs = append(errs, ValidationError{Field: "blocks", Message: "target declares no blocks"})
	}
	if err := ValidateFormat(merged.Format); err != nil {
		errs = append(errs, ValidationError{Field: "defaults.format", Message: err.Error()})
	}
	for i, b := range merged.Blocks {
		if b.Kind == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("blocks[%d]", i),
				Message: "kind is required",
			})
		}
	}

	return errs
}
