// Package testutil provides test helpers and utilities for ogbon tests.
package testutil

import (
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// TempRecipeDir creates a temporary recipe directory with an empty layers/
// subdirectory. It is removed when the test ends.
func TempRecipeDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	WriteTempDir(t, dir, "layers")
	return dir
}

// WriteTempFile writes content to a file in the specified directory,
// creating parent directories as needed.
func WriteTempFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "failed to create parent of %s", filename)
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err, "failed to write temp file: %s", filename)

	return path
}

// WriteTempDir creates a subdirectory in the temp directory.
func WriteTempDir(t *testing.T, dir, dirname string) string {
	t.Helper()

	path := filepath.Join(dir, dirname)
	err := os.MkdirAll(path, 0o755)
	require.NoError(t, err, "failed to create temp subdirectory: %s", dirname)

	return path
}

// LoadFixture loads a fixture file from the embedded fixtures directory.
func LoadFixture(t *testing.T, name string) []byte {
	t.Helper()

	content, err := fixturesFS.ReadFile("fixtures/" + name)
	require.NoError(t, err, "failed to load fixture: %s", name)

	return content
}

// WriteFixtureToDir writes a fixture file to a directory.
func WriteFixtureToDir(t *testing.T, dir, fixtureName, destName string) string {
	t.Helper()

	content := LoadFixture(t, fixtureName)
	return WriteTempFile(t, dir, destName, string(content))
}

// FixtureRecipe copies the fixture recipe (manifest plus YAML, TOML and HCL
// layers) into a fresh directory and returns the manifest path.
func FixtureRecipe(t *testing.T) string {
	t.Helper()

	dir := TempRecipeDir(t)
	WriteFixtureToDir(t, dir, "base.yaml", "layers/base.yaml")
	WriteFixtureToDir(t, dir, "gpu.toml", "layers/gpu.toml")
	WriteFixtureToDir(t, dir, "tools.hcl", "layers/tools.hcl")
	return WriteFixtureToDir(t, dir, "ogbon.yaml", "ogbon.yaml")
}

// ChangeDir changes to a directory for the duration of the test.
func ChangeDir(t *testing.T, dir string) {
	t.Helper()

	original, err := os.Getwd()
	require.NoError(t, err)

	err = os.Chdir(dir)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = os.Chdir(original)
	})
}
