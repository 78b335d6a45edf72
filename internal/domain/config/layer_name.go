package config

import (
	"errors"
	"regexp"
	"strings"
)

// LayerName is a validated layer identifier.
// Layer names follow the pattern: base, gpu.cuda, os.ubuntu24, tools.profiling
type LayerName struct {
	value string
}

// Errors for LayerName validation.
var (
	ErrEmptyLayerName   = errors.New("layer name cannot be empty")
	ErrInvalidLayerName = errors.New("layer name contains invalid characters")
)

// Allowed: alphanumeric, dots, hyphens, underscores.
var validLayerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// NewLayerName creates a new LayerName from a string.
func NewLayerName(s string) (LayerName, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return LayerName{}, ErrEmptyLayerName
	}
	if !validLayerNamePattern.MatchString(trimmed) {
		return LayerName{}, ErrInvalidLayerName
	}
	return LayerName{value: trimmed}, nil
}

// String returns the layer name as a string.
func (n LayerName) String() string {
	return n.value
}

// IsZero returns true if the LayerName is the zero value.
func (n LayerName) IsZero() bool {
	return n.value == ""
}

// TargetName is a validated target identifier. Target names are simpler than
// layer names: alphanumeric, hyphens, underscores only.
type TargetName struct {
	value string
}

// Errors for TargetName validation.
var (
	ErrEmptyTargetName   = errors.New("target name cannot be empty")
	ErrInvalidTargetName = errors.New("target name contains invalid characters")
)

var validTargetNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// NewTargetName creates a new TargetName from a string.
func NewTargetName(s string) (TargetName, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return TargetName{}, ErrEmptyTargetName
	}
	if !validTargetNamePattern.MatchString(trimmed) {
		return TargetName{}, ErrInvalidTargetName
	}
	return TargetName{value: trimmed}, nil
}

// String returns the target name as a string.
func (n TargetName) String() string {
	return n.value
}

// IsZero returns true if the TargetName is the zero value.
func (n TargetName) IsZero() bool {
	return n.value == ""
}
