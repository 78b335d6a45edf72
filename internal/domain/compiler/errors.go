package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
)

// Error codes for compiler operations.
const (
	ErrCodeBlockUnknown      = "BLOCK_UNKNOWN"
	ErrCodeBlockFailed       = "BLOCK_FAILED"
	ErrCodeParamInvalid      = "PARAM_INVALID"
	ErrCodeStageInvalid      = "STAGE_INVALID"
	ErrCodeOrderingViolation = "ORDERING_VIOLATION"
)

// BlockError represents a user-friendly compiler error with actionable suggestions.
type BlockError struct {
	Code       string // Error code for categorization
	Message    string // User-friendly error message
	Block      string // Block kind that caused the error
	ID         string // Block id if applicable
	Provenance string // Layer file that declared the block
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *BlockError) Error() string {
	var parts []string

	if e.Block != "" {
		parts = append(parts, fmt.Sprintf("block %q", e.Block))
	}
	if e.ID != "" {
		parts = append(parts, fmt.Sprintf("id %q", e.ID))
	}

	msg := e.Message
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	if len(parts) > 0 {
		return fmt.Sprintf("%s: %s", strings.Join(parts, ", "), msg)
	}
	return msg
}

// Unwrap returns the underlying error for error chain support.
func (e *BlockError) Unwrap() error {
	return e.Underlying
}

// Format returns a fully formatted error with all details.
func (e *BlockError) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Block != "" {
		fmt.Fprintf(&b, "\n  Block: %s", e.Block)
	}
	if e.ID != "" {
		fmt.Fprintf(&b, "\n  ID: %s", e.ID)
	}
	if e.Provenance != "" {
		fmt.Fprintf(&b, "\n  Layer: %s", e.Provenance)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, "\n  Cause: %s", e.Underlying.Error())
	}

	return b.String()
}

// NewBlockError creates a new BlockError with the given code and message.
func NewBlockError(code, message string) *BlockError {
	return &BlockError{
		Code:    code,
		Message: message,
	}
}

// WithBlock returns a copy with the block reference set.
func (e *BlockError) WithBlock(kind, id, provenance string) *BlockError {
	c := *e
	c.Block, c.ID, c.Provenance = kind, id, provenance
	return &c
}

// WithSuggestion returns a copy with suggestion set.
func (e *BlockError) WithSuggestion(suggestion string) *BlockError {
	c := *e
	c.Suggestion = suggestion
	return &c
}

// WithUnderlying returns a copy wrapping another error.
func (e *BlockError) WithUnderlying(err error) *BlockError {
	c := *e
	c.Underlying = err
	return &c
}

// NewBlockUnknownError creates an error for a block kind nothing registered.
func NewBlockUnknownError(kind string, available []string) *BlockError {
	sorted := make([]string, len(available))
	copy(sorted, available)
	sort.Strings(sorted)
	return &BlockError{
		Code:       ErrCodeBlockUnknown,
		Message:    fmt.Sprintf("unknown block kind %q", kind),
		Block:      kind,
		Suggestion: fmt.Sprintf("Available blocks: %s. Run 'ogbon blocks' for details.", strings.Join(sorted, ", ")),
	}
}

// NewBlockFailedError creates an error for a block that failed to compile.
func NewBlockFailedError(kind string, err error) *BlockError {
	return &BlockError{
		Code:       ErrCodeBlockFailed,
		Message:    "block failed to compile",
		Block:      kind,
		Suggestion: fmt.Sprintf("Check the %s parameters against 'ogbon blocks'.", kind),
		Underlying: err,
	}
}

// NewParamInvalidError creates an error for bad block parameters.
func NewParamInvalidError(kind string, err error) *BlockError {
	return &BlockError{
		Code:       ErrCodeParamInvalid,
		Message:    "invalid block parameters",
		Block:      kind,
		Suggestion: fmt.Sprintf("Run 'ogbon blocks' to list the parameters %s accepts.", kind),
		Underlying: err,
	}
}

// NewStageInvalidError creates an error for a structurally invalid stage.
func NewStageInvalidError(err error) *BlockError {
	return &BlockError{
		Code:       ErrCodeStageInvalid,
		Message:    "recipe stage is invalid",
		Suggestion: "Start the recipe with exactly one baseimage block; only comments may precede it.",
		Underlying: err,
	}
}

// NewOrderingViolationError reports environment settings that reference
// paths installed later in the recipe.
func NewOrderingViolationError(violations []recipe.OrderingViolation) *BlockError {
	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		lines = append(lines, v.String())
	}
	first := violations[0]
	return &BlockError{
		Code:       ErrCodeOrderingViolation,
		Message:    "environment references paths installed later: " + strings.Join(lines, "; "),
		Block:      first.Environment.Block,
		ID:         first.Environment.ID,
		Provenance: first.Environment.Layer,
		Suggestion: "Move the environment block after the blocks that install those paths, " +
			"or use 'after:' in the layer to place it.",
	}
}
