// Package templates provides the starter recipe written by ogbon init.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/felixgeelhaar/ogbon/internal/ports"
	"gopkg.in/yaml.v3"
)

//go:embed starter/layers/*.yaml
var starter embed.FS

// ErrFileExists is returned by Write when a starter file is already present.
var ErrFileExists = errors.New("file already exists")

// Options configures the starter recipe.
type Options struct {
	Name   string // recipe name, used in the manifest and README
	Format string // default output format
}

// File is one starter file, relative to the recipe directory.
type File struct {
	Path    string
	Content []byte
}

// Targets are the starter's targets and their layer stacks.
var Targets = map[string][]string{
	"default": {"base", "gpu", "ompc"},
	"cpu":     {"base", "ompc"},
	"focal":   {"base", "focal", "gpu", "ompc"},
}

type manifestDefaults struct {
	Format string `yaml:"format"`
	Target string `yaml:"target"`
}

type manifest struct {
	Name     string              `yaml:"name"`
	Defaults manifestDefaults    `yaml:"defaults"`
	Targets  map[string][]string `yaml:"targets"`
}

// Manifest generates ogbon.yaml.
func Manifest(opts Options) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = "docker"
	}
	return yaml.Marshal(manifest{
		Name:     opts.Name,
		Defaults: manifestDefaults{Format: format, Target: "default"},
		Targets:  Targets,
	})
}

// ReadmeData contains data for the README template.
type ReadmeData struct {
	Name    string
	Targets map[string][]string
}

const readmeTemplateStr = `# {{.Name}}

Container recipe for the OpenMP Cluster (OMPC) development image, managed by ogbon.

## Usage

` + "```bash" + `
# Write a Dockerfile for the default target
ogbon render --output Dockerfile

# Singularity definition for the CPU-only image
ogbon render --target cpu --format singularity --output ompc.def

# Check every layer and block without writing anything
ogbon validate
` + "```" + `

## Layout

` + "```" + `
{{.Name}}/
├── ogbon.yaml          # Targets and defaults
└── layers/
    ├── base.yaml       # Toolchains, UCX, MPICH, Python, CMake, LLVM
    ├── gpu.yaml        # CUDA base image, CUDA-aware UCX, Nsight
    ├── focal.yaml      # Ubuntu 20.04 instead of 22.04
    └── ompc.yaml       # OpenBLAS and the OMPC LLVM offload build
` + "```" + `

## Targets

| Target | Layers |
|--------|--------|
{{- range $name, $layers := .Targets}}
| ` + "`{{$name}}`" + ` | {{join $layers}} |
{{- end}}

Versions live in the ` + "`variables`" + ` section of each layer.
`

// GenerateReadme generates a README.md file from the template.
func GenerateReadme(data ReadmeData) (string, error) {
	funcs := template.FuncMap{
		"join": func(layers []string) string { return strings.Join(layers, ", ") },
	}
	tmpl, err := template.New("readme").Funcs(funcs).Parse(readmeTemplateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Starter returns every file of the starter recipe: the manifest, the
// layers and a README.
func Starter(opts Options) ([]File, error) {
	if opts.Name == "" {
		opts.Name = "ompc-dev"
	}

	m, err := Manifest(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate manifest: %w", err)
	}
	files := []File{{Path: "ogbon.yaml", Content: m}}

	layers, err := fs.Glob(starter, "starter/layers/*.yaml")
	if err != nil {
		return nil, err
	}
	for _, name := range layers {
		content, err := starter.ReadFile(name)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: path.Join("layers", path.Base(name)), Content: content})
	}

	readme, err := GenerateReadme(ReadmeData{Name: opts.Name, Targets: Targets})
	if err != nil {
		return nil, fmt.Errorf("failed to generate README: %w", err)
	}
	files = append(files, File{Path: "README.md", Content: []byte(readme)})

	return files, nil
}

// Write writes files under dir. Existing files are left alone and reported
// with ErrFileExists unless force is set.
func Write(fsys ports.FileSystem, dir string, files []File, force bool) error {
	if !force {
		for _, f := range files {
			target := filepath.Join(dir, filepath.FromSlash(f.Path))
			if fsys.Exists(target) {
				return fmt.Errorf("%w: %s", ErrFileExists, target)
			}
		}
	}

	for _, f := range files {
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}
		if err := fsys.WriteFile(target, f.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
	}
	return nil
}
