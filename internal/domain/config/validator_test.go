package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateLayers(t *testing.T) {
	t.Parallel()

	base := mustLayer(t, `
name: base
blocks:
  - baseimage: {id: base, image: ubuntu:22.04}
  - gnu: {id: gnu}
  - llvm: {id: gnu}
  - ucx: {after: ucx}
`)
	overlay := mustLayer(t, `
name: overlay
blocks:
  - mpich: {id: mpich, before: gnu}
  - knem: {id: knem, remove: true}
  - gnu: {id: gnu, remove: true}
  - ucx: {after: gnu}
`)

	errs := NewValidator().ValidateLayers([]Layer{base, overlay})

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	assert.Equal(t, []string{
		`base.blocks[2]: duplicate block id "gnu" in layer`,
		`base.blocks[3]: references unknown block "ucx"`,
		`overlay.blocks[1]: cannot remove unknown block "knem"`,
		`overlay.blocks[3]: references unknown block "gnu"`,
	}, messages)
}

func TestValidator_ValidateLayers_Clean(t *testing.T) {
	t.Parallel()

	errs := NewValidator().ValidateLayers([]Layer{mustLayer(t, baseLayer)})
	assert.Empty(t, errs)
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	errs := NewValidator().Validate(&MergedConfig{Format: "podman"})
	require.Len(t, errs, 2)
	assert.Equal(t, "blocks", errs[0].Field)
	assert.Equal(t, "defaults.format", errs[1].Field)

	errs = NewValidator().Validate(&MergedConfig{
		Format: FormatDocker,
		Blocks: []BlockSpec{{Kind: "baseimage"}},
	})
	assert.Empty(t, errs)
}
