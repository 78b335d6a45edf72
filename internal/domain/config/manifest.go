package config

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Output formats accepted in manifest defaults.
const (
	FormatDocker      = "docker"
	FormatSingularity = "singularity"
)

// DefaultTarget is used when no target is requested explicitly.
const DefaultTarget = "default"

// DefaultConfig holds manifest-level defaults.
type DefaultConfig struct {
	Format string `yaml:"format,omitempty"`
	Target string `yaml:"target,omitempty"`
}

// Manifest is the root configuration (ogbon.yaml).
type Manifest struct {
	Name     string
	Defaults DefaultConfig
	Targets  map[string][]LayerName
}

// Errors for Manifest validation.
var (
	ErrNoTargets      = errors.New("manifest must define at least one target")
	ErrTargetNotFound = errors.New("target not found")
	ErrInvalidFormat  = errors.New("format must be docker or singularity")
)

// manifestYAML is the YAML representation for unmarshaling.
type manifestYAML struct {
	Name     string              `yaml:"name,omitempty"`
	Defaults DefaultConfig       `yaml:"defaults,omitempty"`
	Targets  map[string][]string `yaml:"targets"`
}

// ParseManifest parses a Manifest from YAML bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw manifestYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if len(raw.Targets) == 0 {
		return nil, ErrNoTargets
	}
	if err := ValidateFormat(raw.Defaults.Format); err != nil {
		return nil, err
	}

	targets := make(map[string][]LayerName, len(raw.Targets))
	for targetName, layerNames := range raw.Targets {
		if _, err := NewTargetName(targetName); err != nil {
			return nil, fmt.Errorf("target %q: %w", targetName, err)
		}
		layers := make([]LayerName, 0, len(layerNames))
		for _, name := range layerNames {
			ln, err := NewLayerName(name)
			if err != nil {
				return nil, fmt.Errorf("target %q: layer %q: %w", targetName, name, err)
			}
			layers = append(layers, ln)
		}
		targets[targetName] = layers
	}

	return &Manifest{
		Name:     raw.Name,
		Defaults: raw.Defaults,
		Targets:  targets,
	}, nil
}

// ValidateFormat accepts an empty format (use the default) or a known one.
func ValidateFormat(format string) error {
	switch format {
	case "", FormatDocker, FormatSingularity:
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, format)
	}
}

// GetTarget returns the layer names for a given target.
func (m *Manifest) GetTarget(name TargetName) ([]LayerName, error) {
	layers, ok := m.Targets[name.String()]
	if !ok {
		return nil, ErrTargetNotFound
	}
	return layers, nil
}

// TargetNames returns the declared targets in sorted order.
func (m *Manifest) TargetNames() []string {
	names := make([]string, 0, len(m.Targets))
	for name := range m.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTarget picks the requested target, falling back to the manifest
// default and then to "default".
func (m *Manifest) ResolveTarget(requested string) (TargetName, error) {
	name := requested
	if name == "" {
		name = m.Defaults.Target
	}
	if name == "" {
		name = DefaultTarget
	}
	return NewTargetName(name)
}

// Format returns the manifest's default output format.
func (m *Manifest) Format() string {
	if m.Defaults.Format == "" {
		return FormatDocker
	}
	return m.Defaults.Format
}
