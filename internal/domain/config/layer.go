// Package config provides the configuration domain for ogbon.
// It handles loading, parsing, merging, and validating recipe descriptions:
// a manifest naming targets and the layers of building blocks they stack.
package config

import (
	"fmt"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Layer is a named, composable slice of a recipe.
type Layer struct {
	Name       LayerName
	Doc        string
	Variables  map[string]string
	Blocks     []BlockSpec
	Provenance string
}

// rawLayer is the format-neutral decoded shape of a layer file.
type rawLayer struct {
	Name      string                 `yaml:"name" toml:"name"`
	Doc       string                 `yaml:"doc,omitempty" toml:"doc,omitempty"`
	Variables map[string]interface{} `yaml:"variables,omitempty" toml:"variables,omitempty"`
	Blocks    []interface{}          `yaml:"blocks,omitempty" toml:"blocks,omitempty"`
}

// ParseLayer parses a Layer from YAML bytes.
func ParseLayer(data []byte) (*Layer, error) {
	var raw rawLayer
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw.build()
}

// ParseLayerTOML parses a Layer from TOML bytes. Blocks are written as an
// array of tables:
//
//	[[blocks]]
//	kind = "ucx"
//	version = "1.17.0"
func ParseLayerTOML(data []byte) (*Layer, error) {
	var raw rawLayer
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw.build()
}

func (r rawLayer) build() (*Layer, error) {
	name, err := NewLayerName(r.Name)
	if err != nil {
		return nil, fmt.Errorf("layer name %q: %w", r.Name, err)
	}

	vars, err := stringVariables(r.Variables)
	if err != nil {
		return nil, err
	}

	blocks := make([]BlockSpec, 0, len(r.Blocks))
	for i, entry := range r.Blocks {
		spec, err := parseBlock(entry, fmt.Sprintf("%s: blocks[%d]", r.Name, i))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, spec)
	}

	return &Layer{
		Name:      name,
		Doc:       r.Doc,
		Variables: vars,
		Blocks:    blocks,
	}, nil
}

// SetProvenance records the layer's source on the layer and its blocks.
func (l *Layer) SetProvenance(path string) {
	l.Provenance = path
	for i := range l.Blocks {
		l.Blocks[i].Provenance = path
	}
}

// stringVariables coerces scalar variable values to strings so that
// "llvm: 17" and llvm = "17" behave the same.
func stringVariables(in map[string]interface{}) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case string:
			out[k] = t
		case bool:
			out[k] = strconv.FormatBool(t)
		case int:
			out[k] = strconv.Itoa(t)
		case int64:
			out[k] = strconv.FormatInt(t, 10)
		case uint64:
			out[k] = strconv.FormatUint(t, 10)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("variable %q must be a scalar, got %T", k, v)
		}
	}
	return out, nil
}
