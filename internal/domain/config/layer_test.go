package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayer_YAML(t *testing.T) {
	t.Parallel()

	layer, err := ParseLayer([]byte(`
name: base
doc: |
  OMPC development image.
variables:
  llvm: 17
  cuda: "12.4.1"
  debug: true
blocks:
  - baseimage:
      id: base
      image: ubuntu:22.04
  - comment: Compilers
  - packages:
      ospackages: [git, wget, git]
  - shell:
      - make -j
      - make install
  - kind: environment
    id: env
    after: base
    variables:
      CC: clang
  - python:
`))
	require.NoError(t, err)

	assert.Equal(t, "base", layer.Name.String())
	assert.Equal(t, "OMPC development image.\n", layer.Doc)
	assert.Equal(t, map[string]string{"llvm": "17", "cuda": "12.4.1", "debug": "true"}, layer.Variables)

	require.Len(t, layer.Blocks, 6)

	b := layer.Blocks[0]
	assert.Equal(t, "baseimage", b.Kind)
	assert.Equal(t, "base", b.ID)
	assert.Equal(t, map[string]interface{}{"image": "ubuntu:22.04"}, b.Params)

	assert.Equal(t, map[string]interface{}{ShorthandKey: "Compilers"}, layer.Blocks[1].Params)
	assert.Equal(t, []interface{}{"git", "wget", "git"}, layer.Blocks[2].Params["ospackages"])
	assert.Equal(t, []interface{}{"make -j", "make install"}, layer.Blocks[3].Params[ShorthandKey])

	env := layer.Blocks[4]
	assert.Equal(t, "environment", env.Kind)
	assert.Equal(t, "env", env.ID)
	assert.Equal(t, "base", env.After)
	assert.NotContains(t, env.Params, "kind")
	assert.NotContains(t, env.Params, "after")

	assert.Equal(t, "python", layer.Blocks[5].Kind)
	assert.Empty(t, layer.Blocks[5].Params)
}

func TestParseLayer_BlockErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "scalar entry", yaml: "name: x\nblocks: [gnu]\n", want: "block must be a map"},
		{name: "two kinds", yaml: "name: x\nblocks:\n  - {gnu: {}, llvm: {}}\n", want: "exactly one kind key"},
		{name: "empty kind", yaml: "name: x\nblocks:\n  - {kind: ''}\n", want: "kind cannot be empty"},
		{name: "non-string id", yaml: "name: x\nblocks:\n  - {gnu: {id: 3}}\n", want: "id must be a string"},
		{name: "non-bool remove", yaml: "name: x\nblocks:\n  - {gnu: {id: g, remove: yes please}}\n", want: "remove must be a boolean"},
		{name: "before and after", yaml: "name: x\nblocks:\n  - {gnu: {before: a, after: b}}\n", want: "both before and after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseLayer([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, IsUserError(err, ErrCodeBlockInvalid), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseLayer_InvalidName(t *testing.T) {
	t.Parallel()

	_, err := ParseLayer([]byte("doc: missing name\n"))
	require.ErrorIs(t, err, ErrEmptyLayerName)
}

func TestParseLayerTOML(t *testing.T) {
	t.Parallel()

	layer, err := ParseLayerTOML([]byte(`
name = "gpu.cuda"

[variables]
cuda = "12.4.1"
major = 12

[[blocks]]
kind = "ucx"
id = "ucx"
after = "gnu"
cuda = true
version = "1.17.0"

[[blocks]]
[blocks.packages]
ospackages = ["cuda-toolkit"]
`))
	require.NoError(t, err)

	assert.Equal(t, "gpu.cuda", layer.Name.String())
	assert.Equal(t, "12", layer.Variables["major"])
	require.Len(t, layer.Blocks, 2)

	ucx := layer.Blocks[0]
	assert.Equal(t, "ucx", ucx.Kind)
	assert.Equal(t, "gnu", ucx.After)
	assert.Equal(t, true, ucx.Params["cuda"])
	assert.Equal(t, "1.17.0", ucx.Params["version"])

	assert.Equal(t, "packages", layer.Blocks[1].Kind)
	assert.Equal(t, []interface{}{"cuda-toolkit"}, layer.Blocks[1].Params["ospackages"])
}

func TestParseLayerHCL(t *testing.T) {
	t.Parallel()

	layer, err := ParseLayerHCL([]byte(`
name = "tools"
doc  = "Profiling tools"

variables = {
  nsys = "2024.4.1"
}

block "nsight_systems" {
  id      = "nsys"
  version = "{{ .nsys }}"
  cli     = true
}

block "mpich" {
  version        = "4.2.2"
  configure_opts = ["--enable-fast=all", "--with-device=ch4:ucx"]
  jobs           = 8
}

block "packages" {
  id     = "os"
  remove = true
}
`), "tools.hcl")
	require.NoError(t, err)

	assert.Equal(t, "tools", layer.Name.String())
	assert.Equal(t, "Profiling tools", layer.Doc)
	assert.Equal(t, "2024.4.1", layer.Variables["nsys"])
	require.Len(t, layer.Blocks, 3)

	nsys := layer.Blocks[0]
	assert.Equal(t, "nsight_systems", nsys.Kind)
	assert.Equal(t, "nsys", nsys.ID)
	assert.Equal(t, "{{ .nsys }}", nsys.Params["version"])
	assert.Equal(t, true, nsys.Params["cli"])

	mpich := layer.Blocks[1]
	assert.Equal(t, []interface{}{"--enable-fast=all", "--with-device=ch4:ucx"}, mpich.Params["configure_opts"])
	assert.Equal(t, 8, mpich.Params["jobs"])

	assert.True(t, layer.Blocks[2].Remove)
	assert.Equal(t, "os", layer.Blocks[2].ID)
}

func TestParseLayerHCL_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := ParseLayerHCL([]byte(`block "gnu" {`), "broken.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.hcl")
}

func TestLayer_SetProvenance(t *testing.T) {
	t.Parallel()

	layer, err := ParseLayer([]byte("name: base\nblocks:\n  - gnu: {}\n  - llvm: {}\n"))
	require.NoError(t, err)

	layer.SetProvenance("layers/base.yaml")
	assert.Equal(t, "layers/base.yaml", layer.Provenance)
	for _, b := range layer.Blocks {
		assert.Equal(t, "layers/base.yaml", b.Provenance)
	}
}

func TestBlockSpec_RefAndClone(t *testing.T) {
	t.Parallel()

	b := BlockSpec{Kind: "ucx", ID: "net", Params: map[string]interface{}{
		"opts": []interface{}{"a"},
		"nested": map[string]interface{}{"k": "v"},
	}}
	assert.Equal(t, "ucx[net]", b.Ref())
	assert.Equal(t, "gnu", BlockSpec{Kind: "gnu"}.Ref())

	c := b.Clone()
	c.Params["opts"].([]interface{})[0] = "b"
	c.Params["nested"].(map[string]interface{})["k"] = "w"
	assert.Equal(t, "a", b.Params["opts"].([]interface{})[0])
	assert.Equal(t, "v", b.Params["nested"].(map[string]interface{})["k"])
}
