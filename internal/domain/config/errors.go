package config

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigNotFound    = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid     = "CONFIG_INVALID"
	ErrCodeConfigParse       = "CONFIG_PARSE"
	ErrCodeLayerNotFound     = "LAYER_NOT_FOUND"
	ErrCodeLayerInvalid      = "LAYER_INVALID"
	ErrCodeTargetNotFound    = "TARGET_NOT_FOUND"
	ErrCodeBlockInvalid      = "BLOCK_INVALID"
	ErrCodeVariableUndefined = "VARIABLE_UNDEFINED"
	ErrCodeMergeConflict     = "MERGE_CONFLICT"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
)

// UserError represents a user-friendly error with actionable suggestions.
type UserError struct {
	Code       string // Error code for categorization (e.g., "CONFIG_NOT_FOUND")
	Message    string // User-friendly error message
	Context    string // File path, block reference, or other location context
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	var b strings.Builder

	b.WriteString(e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, " (at %s)", e.Context)
	}

	return b.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// Format returns a fully formatted error with all details.
func (e *UserError) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}

	return b.String()
}

// NewUserError creates a new UserError with the given code and message.
func NewUserError(code, message string) *UserError {
	return &UserError{
		Code:    code,
		Message: message,
	}
}

// WithContext returns a new UserError with context set.
func (e *UserError) WithContext(ctx string) *UserError {
	c := *e
	c.Context = ctx
	return &c
}

// WithSuggestion returns a new UserError with suggestion set.
func (e *UserError) WithSuggestion(suggestion string) *UserError {
	c := *e
	c.Suggestion = suggestion
	return &c
}

// WithUnderlying returns a new UserError wrapping another error.
func (e *UserError) WithUnderlying(err error) *UserError {
	c := *e
	c.Underlying = err
	return &c
}

// ErrorList accumulates multiple errors for comprehensive reporting.
type ErrorList struct {
	errors []*UserError
}

// NewErrorList creates an empty ErrorList.
func NewErrorList() *ErrorList {
	return &ErrorList{
		errors: make([]*UserError, 0),
	}
}

// Add adds an error to the list.
func (l *ErrorList) Add(err *UserError) {
	if err != nil {
		l.errors = append(l.errors, err)
	}
}

// AddValidation adds a validation error to the list.
func (l *ErrorList) AddValidation(field, message, suggestion string) {
	l.Add(&UserError{
		Code:       ErrCodeValidationFailed,
		Message:    fmt.Sprintf("%s: %s", field, message),
		Context:    field,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if there are any errors.
func (l *ErrorList) HasErrors() bool {
	return len(l.errors) > 0
}

// Len returns the number of errors.
func (l *ErrorList) Len() int {
	return len(l.errors)
}

// Errors returns the list of errors.
func (l *ErrorList) Errors() []*UserError {
	result := make([]*UserError, len(l.errors))
	copy(result, l.errors)
	return result
}

// Error implements the error interface for ErrorList.
func (l *ErrorList) Error() string {
	if len(l.errors) == 0 {
		return ""
	}
	if len(l.errors) == 1 {
		return l.errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:\n", len(l.errors))
	for i, err := range l.errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Format returns a detailed formatted output of all errors.
func (l *ErrorList) Format() string {
	if len(l.errors) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d error(s):\n", len(l.errors))
	for i, err := range l.errors {
		fmt.Fprintf(&b, "\n--- Error %d ---\n", i+1)
		b.WriteString(err.Format())
		b.WriteString("\n")
	}
	return b.String()
}

// AsError returns the ErrorList as an error, or nil if empty.
func (l *ErrorList) AsError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

// NewConfigNotFoundError creates an error for a missing manifest.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigNotFound,
		Message:    fmt.Sprintf("configuration file not found: %s", path),
		Context:    path,
		Suggestion: "Run 'ogbon init' to create a starter recipe, or check the --config path.",
	}
}

// NewConfigParseError creates an error for TOML and HCL parsing failures.
// YAML failures go through NewYAMLParseError for friendlier messages.
func NewConfigParseError(path string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeConfigParse,
		Message:    "failed to parse configuration file",
		Context:    path,
		Suggestion: "Check the file syntax against the examples written by 'ogbon init'.",
		Underlying: err,
	}
}

// NewLayerNotFoundError creates an error for a missing layer file.
func NewLayerNotFoundError(name, dir string) *UserError {
	return &UserError{
		Code:    ErrCodeLayerNotFound,
		Message: fmt.Sprintf("layer '%s' not found", name),
		Context: dir,
		Suggestion: fmt.Sprintf("Create %s/%s.yaml (or .toml, .hcl) or remove it from the target's layer list.",
			dir, name),
	}
}

// NewTargetNotFoundError creates an error for a missing target.
func NewTargetNotFoundError(name string, available []string) *UserError {
	suggestion := "Check ogbon.yaml for available targets."
	if len(available) > 0 {
		suggestion = fmt.Sprintf("Available targets: %s", strings.Join(available, ", "))
	}
	return &UserError{
		Code:       ErrCodeTargetNotFound,
		Message:    fmt.Sprintf("target '%s' not found in manifest", name),
		Suggestion: suggestion,
	}
}

// NewBlockInvalidError creates an error for a malformed block entry.
func NewBlockInvalidError(context, message string) *UserError {
	return &UserError{
		Code:    ErrCodeBlockInvalid,
		Message: message,
		Context: context,
		Suggestion: `Each block is a single-key map from block kind to parameters:
  blocks:
    - baseimage:
        image: ubuntu:22.04
    - packages:
        ospackages: [git, wget]`,
	}
}

// NewVariableUndefinedError creates an error for a template reference to an
// unknown recipe variable.
func NewVariableUndefinedError(context string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeVariableUndefined,
		Message:    "parameter references an undefined variable",
		Context:    context,
		Suggestion: "Define the variable under 'variables:' in one of the target's layers.",
		Underlying: err,
	}
}

// NewMergeConflictError creates an error for before/after/remove references
// to a block id that does not exist.
func NewMergeConflictError(layer, message string) *UserError {
	return &UserError{
		Code:       ErrCodeMergeConflict,
		Message:    message,
		Context:    layer,
		Suggestion: "Block ids referenced by before, after or remove must be declared in an earlier layer.",
	}
}

// IsUserError checks if an error is a UserError with a specific code.
func IsUserError(err error, code string) bool {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Code == code
	}
	return false
}

// GetUserError extracts a UserError from an error chain, if present.
func GetUserError(err error) *UserError {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	return nil
}

// NewYAMLParseError translates technical YAML errors into user-friendly messages.
func NewYAMLParseError(path string, err error) *UserError {
	errStr := err.Error()
	var message, suggestion string

	switch {
	case strings.Contains(errStr, "cannot unmarshal !!map into []string"):
		message = "invalid targets format"
		suggestion = `Targets should be a list of layer names, not a nested object.

Correct format:
  targets:
    default:
      - base
      - gpu.cuda`

	case strings.Contains(errStr, "cannot unmarshal !!seq into map"):
		message = "expected an object but found a list"
		suggestion = "Check that you're using 'key: value' format instead of '- item' list format."

	case strings.Contains(errStr, "cannot unmarshal !!str into"):
		message = "unexpected string value"
		suggestion = "Check that nested values are properly structured with correct indentation."

	case strings.Contains(errStr, "did not find expected key"):
		message = "missing required field or incorrect indentation"
		suggestion = "YAML is sensitive to indentation. Use 2 spaces (not tabs) for each level."

	case strings.Contains(errStr, "mapping values are not allowed"):
		message = "invalid YAML structure"
		suggestion = "Check for missing colons after keys, or incorrect indentation."

	case strings.Contains(errStr, "found character that cannot start"):
		message = "invalid character in YAML"
		suggestion = "Quote string values that contain special characters like ':', '#', '$' or '{'."

	default:
		message = "invalid YAML syntax"
		suggestion = "Check your YAML syntax. Common issues: incorrect indentation, missing colons, or unquoted special characters."
	}

	context := path
	if strings.Contains(errStr, "line ") {
		parts := strings.Split(errStr, "line ")
		if len(parts) > 1 {
			lineInfo := strings.Split(parts[1], ":")[0]
			context = fmt.Sprintf("%s (line %s)", path, lineInfo)
		}
	}

	return &UserError{
		Code:       ErrCodeConfigParse,
		Message:    message,
		Context:    context,
		Suggestion: suggestion,
		Underlying: err,
	}
}
