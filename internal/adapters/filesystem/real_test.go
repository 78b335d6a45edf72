package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealFileSystem_WriteAndRead(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "Dockerfile")

	assert.False(t, fs.Exists(path))
	require.NoError(t, fs.WriteFile(path, []byte("FROM ubuntu:22.04\n"), 0o644))
	assert.True(t, fs.Exists(path))

	content, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FROM ubuntu:22.04\n", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRealFileSystem_WriteReplacesAndLeavesNoTemp(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "ompc.def")

	require.NoError(t, fs.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, fs.WriteFile(path, []byte("new"), 0o644))

	content, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRealFileSystem_WriteMissingDir(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	err := fs.WriteFile(filepath.Join(t.TempDir(), "missing", "Dockerfile"), []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestRealFileSystem_MkdirAll(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	nested := filepath.Join(t.TempDir(), "recipe", "layers")

	require.NoError(t, fs.MkdirAll(nested, 0o755))
	assert.True(t, fs.Exists(nested))
}

func TestRealFileSystem_ReadFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewRealFileSystem().ReadFile("/nonexistent/path/file.txt")
	assert.Error(t, err)
}
