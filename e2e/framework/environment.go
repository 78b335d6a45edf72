//go:build e2e

// Package framework provides the E2E test infrastructure for ogbon.
package framework

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

// Environment is an isolated recipe directory plus the built binary.
type Environment struct {
	t          *testing.T
	recipeDir  string
	binaryPath string
}

var (
	buildOnce  sync.Once
	binaryPath string
	buildErr   error
)

// findProjectRoot locates the project root directory.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// buildBinary builds the ogbon binary once per test run.
func buildBinary(t *testing.T) (string, error) {
	buildOnce.Do(func() {
		root, err := findProjectRoot()
		if err != nil {
			buildErr = err
			return
		}

		binaryPath = filepath.Join(os.TempDir(), "ogbon-e2e-test")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/ogbon")
		cmd.Dir = root

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			buildErr = err
			t.Logf("Build stderr: %s", stderr.String())
		}
	})

	return binaryPath, buildErr
}

// NewEnvironment creates a new isolated test environment.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	binary, err := buildBinary(t)
	if err != nil {
		t.Fatalf("Failed to build binary: %v", err)
	}

	return &Environment{
		t:          t,
		recipeDir:  t.TempDir(),
		binaryPath: binary,
	}
}

// BinaryPath returns the path to the ogbon binary.
func (e *Environment) BinaryPath() string {
	return e.binaryPath
}

// RecipeDir returns the directory holding ogbon.yaml and layers/.
func (e *Environment) RecipeDir() string {
	return e.recipeDir
}

// ManifestPath returns the path of ogbon.yaml.
func (e *Environment) ManifestPath() string {
	return filepath.Join(e.recipeDir, "ogbon.yaml")
}

// Path joins rel onto the recipe directory.
func (e *Environment) Path(rel string) string {
	return filepath.Join(e.recipeDir, filepath.FromSlash(rel))
}

// WriteFile writes a file relative to the recipe directory.
func (e *Environment) WriteFile(rel, content string) {
	e.t.Helper()

	path := e.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile reads a file relative to the recipe directory.
func (e *Environment) ReadFile(rel string) string {
	e.t.Helper()

	data, err := os.ReadFile(e.Path(rel))
	if err != nil {
		e.t.Fatalf("Failed to read %s: %v", rel, err)
	}
	return string(data)
}
