package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLayer(t *testing.T, yaml string) Layer {
	t.Helper()
	l, err := ParseLayer([]byte(yaml))
	require.NoError(t, err)
	l.SetProvenance(l.Name.String() + ".yaml")
	return *l
}

func blockIDs(blocks []BlockSpec) []string {
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.ID != "" {
			ids = append(ids, b.ID)
		} else {
			ids = append(ids, b.Kind)
		}
	}
	return ids
}

const baseLayer = `
name: base
doc: base doc
variables:
  llvm: "16"
  ubuntu: "22.04"
blocks:
  - baseimage: {id: base, image: ubuntu:22.04}
  - packages: {id: os, ospackages: [git, wget]}
  - gnu: {id: gnu}
  - llvm: {id: llvm, version: "16", toolset: true, extra: {a: 1, b: 2}}
  - environment: {id: env, variables: {CC: clang}}
`

func TestMerger_SingleLayer(t *testing.T) {
	t.Parallel()

	merged, err := NewMerger().Merge([]Layer{mustLayer(t, baseLayer)})
	require.NoError(t, err)

	assert.Equal(t, "base doc", merged.Doc)
	assert.Equal(t, []string{"base", "os", "gnu", "llvm", "env"}, blockIDs(merged.Blocks))
	assert.Equal(t, []string{"base"}, merged.Layers)
	assert.Equal(t, "base", merged.VariableProvenance("llvm"))
}

func TestMerger_OverrideInPlace(t *testing.T) {
	t.Parallel()

	overlay := mustLayer(t, `
name: llvm17
variables:
  llvm: "17"
blocks:
  - llvm: {id: llvm, version: "17", extra: {b: 3}}
`)

	merged, err := NewMerger().Merge([]Layer{mustLayer(t, baseLayer), overlay})
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "os", "gnu", "llvm", "env"}, blockIDs(merged.Blocks))
	llvm, ok := merged.FindBlock("llvm")
	require.True(t, ok)
	assert.Equal(t, "17", llvm.Params["version"])
	assert.Equal(t, true, llvm.Params["toolset"])
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 3}, llvm.Params["extra"])
	assert.Equal(t, "llvm17.yaml", llvm.Provenance)
	assert.Equal(t, "17", merged.Variables["llvm"])
	assert.Equal(t, "llvm17", merged.VariableProvenance("llvm"))
	assert.Equal(t, "base doc", merged.Doc)
}

func TestMerger_ListsReplaced(t *testing.T) {
	t.Parallel()

	overlay := mustLayer(t, `
name: slim
blocks:
  - packages: {id: os, ospackages: [wget]}
`)

	merged, err := NewMerger().Merge([]Layer{mustLayer(t, baseLayer), overlay})
	require.NoError(t, err)

	os, ok := merged.FindBlock("os")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"wget"}, os.Params["ospackages"])
}

func TestMerger_InsertAndRemove(t *testing.T) {
	t.Parallel()

	overlay := mustLayer(t, `
name: gpu
doc: gpu doc
blocks:
  - ucx: {id: ucx, after: gnu}
  - knem: {id: knem, before: ucx}
  - packages: {id: os, remove: true}
  - comment: appended
`)

	merged, err := NewMerger().Merge([]Layer{mustLayer(t, baseLayer), overlay})
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "gnu", "knem", "ucx", "llvm", "env", "comment"}, blockIDs(merged.Blocks))
	assert.Equal(t, "gpu doc", merged.Doc)
	for _, b := range merged.Blocks {
		assert.Empty(t, b.Before)
		assert.Empty(t, b.After)
	}
}

func TestMerger_MoveExisting(t *testing.T) {
	t.Parallel()

	overlay := mustLayer(t, `
name: reorder
blocks:
  - environment: {id: env, before: gnu}
`)

	merged, err := NewMerger().Merge([]Layer{mustLayer(t, baseLayer), overlay})
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "os", "env", "gnu", "llvm"}, blockIDs(merged.Blocks))
	env, _ := merged.FindBlock("env")
	assert.Equal(t, map[string]interface{}{"CC": "clang"}, env.Params["variables"])
}

func TestMerger_Conflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		overlay string
		want    string
	}{
		{
			name:    "remove unknown",
			overlay: "name: o\nblocks:\n  - gnu: {id: nope, remove: true}\n",
			want:    `cannot remove unknown block "nope"`,
		},
		{
			name:    "remove without id",
			overlay: "name: o\nblocks:\n  - gnu: {remove: true}\n",
			want:    "remove requires an id",
		},
		{
			name:    "dangling anchor",
			overlay: "name: o\nblocks:\n  - ucx: {after: nope}\n",
			want:    `references unknown block "nope"`,
		},
		{
			name:    "kind mismatch",
			overlay: "name: o\nblocks:\n  - mpich: {id: gnu}\n",
			want:    "is a gnu block",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewMerger().Merge([]Layer{mustLayer(t, baseLayer), mustLayer(t, tt.overlay)})
			require.Error(t, err)
			assert.True(t, IsUserError(err, ErrCodeMergeConflict))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMerger_DoesNotMutateLayers(t *testing.T) {
	t.Parallel()

	base := mustLayer(t, baseLayer)
	overlay := mustLayer(t, "name: o\nblocks:\n  - llvm: {id: llvm, extra: {a: 9}}\n")

	_, err := NewMerger().Merge([]Layer{base, overlay})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, base.Blocks[3].Params["extra"])
}

func TestMerger_Deterministic(t *testing.T) {
	t.Parallel()

	layers := []Layer{
		mustLayer(t, baseLayer),
		mustLayer(t, "name: o\nblocks:\n  - ucx: {id: ucx, after: gnu}\n  - mpich: {after: ucx}\n"),
	}

	first, err := NewMerger().Merge(layers)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := NewMerger().Merge(layers)
		require.NoError(t, err)
		assert.Equal(t, first.Blocks, again.Blocks)
	}
}
