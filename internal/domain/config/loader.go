package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// LayerExtensions lists the layer file extensions in lookup order.
var LayerExtensions = []string{".yaml", ".yml", ".toml", ".hcl"}

// Target is a resolved target with its layers loaded in order.
type Target struct {
	Name   TargetName
	Layers []Layer
}

// Loader loads configuration from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadManifest loads a manifest from the given path.
func (l *Loader) LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, err
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		if isYAMLError(err) {
			return nil, NewYAMLParseError(path, err)
		}
		return nil, NewUserError(ErrCodeConfigInvalid, err.Error()).WithContext(path).WithUnderlying(err)
	}
	return manifest, nil
}

// LoadLayer loads a layer from the given path. The parser is chosen by file
// extension.
func (l *Loader) LoadLayer(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			return nil, NewLayerNotFoundError(name, filepath.Dir(path))
		}
		return nil, err
	}

	var layer *Layer
	ext := filepath.Ext(path)
	switch ext {
	case ".toml":
		layer, err = ParseLayerTOML(data)
	case ".hcl":
		layer, err = ParseLayerHCL(data, path)
	default:
		layer, err = ParseLayer(data)
	}
	if err != nil {
		var ue *UserError
		switch {
		case errors.As(err, &ue):
			where := path
			if ue.Context != "" {
				where += ": " + ue.Context
			}
			return nil, ue.WithContext(where)
		case (ext == ".yaml" || ext == ".yml") && isYAMLError(err):
			return nil, NewYAMLParseError(path, err)
		default:
			return nil, NewConfigParseError(path, err)
		}
	}

	layer.SetProvenance(path)
	return layer, nil
}

// FindLayer returns the path of the named layer in dir, trying each of
// LayerExtensions in turn.
func (l *Loader) FindLayer(dir string, name LayerName) (string, error) {
	for _, ext := range LayerExtensions {
		path := filepath.Join(dir, name.String()+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", NewLayerNotFoundError(name.String(), dir)
}

// LoadTarget loads all layers for a target and returns a resolved Target.
func (l *Loader) LoadTarget(manifest *Manifest, target TargetName, layersDir string) (*Target, error) {
	layerNames, err := manifest.GetTarget(target)
	if err != nil {
		return nil, NewTargetNotFoundError(target.String(), manifest.TargetNames())
	}

	layers := make([]Layer, 0, len(layerNames))
	for _, name := range layerNames {
		path, err := l.FindLayer(layersDir, name)
		if err != nil {
			return nil, err
		}
		layer, err := l.LoadLayer(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, *layer)
	}

	return &Target{
		Name:   target,
		Layers: layers,
	}, nil
}

// Load loads a manifest, resolves the target, merges its layers, and expands
// variables. An empty target selects the manifest default.
func (l *Loader) Load(manifestPath, target string) (*MergedConfig, error) {
	manifest, err := l.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	name, err := manifest.ResolveTarget(target)
	if err != nil {
		return nil, NewTargetNotFoundError(target, manifest.TargetNames())
	}

	layersDir := filepath.Join(filepath.Dir(manifestPath), "layers")
	resolved, err := l.LoadTarget(manifest, name, layersDir)
	if err != nil {
		return nil, err
	}

	merged, err := NewMerger().Merge(resolved.Layers)
	if err != nil {
		return nil, err
	}
	merged.Target = name.String()
	merged.Format = manifest.Format()

	return Expand(merged)
}

func isYAMLError(err error) bool {
	return strings.Contains(err.Error(), "yaml:") || strings.Contains(err.Error(), "unmarshal")
}
