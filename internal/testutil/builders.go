package testutil

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestManifest is a simplified manifest structure for testing.
type TestManifest struct {
	Name    string
	Format  string
	Targets []TestTarget
}

// TestTarget is a simplified target structure for testing.
type TestTarget struct {
	Name   string
	Layers []string
}

// ManifestBuilder builds test manifests.
type ManifestBuilder struct {
	manifest TestManifest
}

// NewManifestBuilder creates a new manifest builder.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		manifest: TestManifest{
			Targets: make([]TestTarget, 0),
		},
	}
}

// WithName sets the manifest name.
func (b *ManifestBuilder) WithName(name string) *ManifestBuilder {
	b.manifest.Name = name
	return b
}

// WithFormat sets the default output format.
func (b *ManifestBuilder) WithFormat(format string) *ManifestBuilder {
	b.manifest.Format = format
	return b
}

// WithTarget adds a target with the specified layers.
func (b *ManifestBuilder) WithTarget(name string, layers ...string) *ManifestBuilder {
	b.manifest.Targets = append(b.manifest.Targets, TestTarget{
		Name:   name,
		Layers: layers,
	})
	return b
}

// Build returns the constructed manifest.
func (b *ManifestBuilder) Build() TestManifest {
	return b.manifest
}

// ToYAML converts the manifest to YAML string.
func (m TestManifest) ToYAML() string {
	var sb strings.Builder

	if m.Name != "" {
		fmt.Fprintf(&sb, "name: %s\n", m.Name)
	}
	if m.Format != "" {
		fmt.Fprintf(&sb, "defaults:\n  format: %s\n", m.Format)
	}
	if len(m.Targets) > 0 {
		sb.WriteString("targets:\n")
		for _, t := range m.Targets {
			fmt.Fprintf(&sb, "  %s:\n", t.Name)
			for _, l := range t.Layers {
				fmt.Fprintf(&sb, "    - %s\n", l)
			}
		}
	}

	return sb.String()
}

// TestLayer is a simplified layer structure for testing.
type TestLayer struct {
	Name      string                   `yaml:"name"`
	Doc       string                   `yaml:"doc,omitempty"`
	Variables map[string]string        `yaml:"variables,omitempty"`
	Blocks    []map[string]interface{} `yaml:"blocks,omitempty"`
}

// LayerBuilder builds test layers.
type LayerBuilder struct {
	layer TestLayer
}

// NewLayerBuilder creates a new layer builder.
func NewLayerBuilder(name string) *LayerBuilder {
	return &LayerBuilder{
		layer: TestLayer{
			Name:      name,
			Variables: make(map[string]string),
		},
	}
}

// WithDoc sets the recipe docstring.
func (b *LayerBuilder) WithDoc(doc string) *LayerBuilder {
	b.layer.Doc = doc
	return b
}

// WithVariable sets a recipe variable.
func (b *LayerBuilder) WithVariable(key, value string) *LayerBuilder {
	b.layer.Variables[key] = value
	return b
}

// WithBlock appends a block in single-key form.
func (b *LayerBuilder) WithBlock(kind string, params map[string]interface{}) *LayerBuilder {
	if params == nil {
		params = map[string]interface{}{}
	}
	b.layer.Blocks = append(b.layer.Blocks, map[string]interface{}{kind: params})
	return b
}

// WithBaseImage appends a baseimage block with id "base".
func (b *LayerBuilder) WithBaseImage(image string) *LayerBuilder {
	return b.WithBlock("baseimage", map[string]interface{}{"id": "base", "image": image})
}

// WithPackages appends an ospackages block.
func (b *LayerBuilder) WithPackages(packages ...string) *LayerBuilder {
	return b.WithBlock("packages", map[string]interface{}{"ospackages": packages})
}

// Build returns the constructed layer.
func (b *LayerBuilder) Build() TestLayer {
	return b.layer
}

// ToYAML converts the layer to YAML string.
func (l TestLayer) ToYAML() string {
	out, err := yaml.Marshal(l)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal layer %s: %v", l.Name, err))
	}
	return string(out)
}

// WriteRecipe writes a manifest and its layers into a fresh recipe directory
// and returns the manifest path.
func WriteRecipe(t *testing.T, manifest TestManifest, layers ...TestLayer) string {
	t.Helper()

	dir := TempRecipeDir(t)
	sort.Slice(layers, func(i, j int) bool { return layers[i].Name < layers[j].Name })
	for _, l := range layers {
		WriteTempFile(t, dir, "layers/"+l.Name+".yaml", l.ToYAML())
	}
	return WriteTempFile(t, dir, "ogbon.yaml", manifest.ToYAML())
}
