package config_test

import (
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/ogbon/internal/domain/config"
	"github.com/felixgeelhaar/ogbon/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(blocks []config.BlockSpec) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Kind)
	}
	return out
}

func TestLoader_Load_FixtureTargets(t *testing.T) {
	t.Parallel()

	manifest := testutil.FixtureRecipe(t)
	loader := config.NewLoader()

	tests := []struct {
		target string
		image  string
		kinds  []string
	}{
		{
			target: "",
			image:  "ubuntu:22.04",
			kinds:  []string{"baseimage", "packages", "gnu", "llvm", "environment"},
		},
		{
			target: "gpu",
			image:  "nvidia/cuda:12.4.1-devel-ubuntu22.04",
			kinds:  []string{"baseimage", "packages", "gnu", "ucx", "llvm", "environment"},
		},
		{
			target: "full",
			image:  "nvidia/cuda:12.4.1-devel-ubuntu22.04",
			kinds:  []string{"baseimage", "gnu", "ucx", "llvm", "environment", "nsight_systems"},
		},
	}

	for _, tt := range tests {
		t.Run("target="+tt.target, func(t *testing.T) {
			t.Parallel()

			merged, err := loader.Load(manifest, tt.target)
			require.NoError(t, err)

			assert.Equal(t, tt.kinds, kinds(merged.Blocks))
			assert.Equal(t, tt.image, merged.Blocks[0].Params["image"])
			assert.Equal(t, config.FormatDocker, merged.Format)
			assert.Equal(t, "Fixture development image.\n", merged.Doc)
		})
	}
}

func TestLoader_Load_ExpandsAndTracksProvenance(t *testing.T) {
	t.Parallel()

	manifest := testutil.FixtureRecipe(t)

	merged, err := config.NewLoader().Load(manifest, "full")
	require.NoError(t, err)

	assert.Equal(t, "full", merged.Target)
	assert.Equal(t, []string{"base", "gpu", "tools"}, merged.Layers)

	llvm, ok := merged.FindBlock("llvm")
	require.True(t, ok)
	assert.Equal(t, "17", llvm.Params["version"])
	assert.Equal(t, "base.yaml", filepath.Base(llvm.Provenance))

	base, ok := merged.FindBlock("base")
	require.True(t, ok)
	assert.Equal(t, "gpu.toml", filepath.Base(base.Provenance))

	nsys, ok := merged.FindBlock("nsys")
	require.True(t, ok)
	assert.Equal(t, "tools.hcl", filepath.Base(nsys.Provenance))
	assert.Equal(t, true, nsys.Params["cli"])
}

func TestLoader_LoadManifest_NotFound(t *testing.T) {
	t.Parallel()

	_, err := config.NewLoader().LoadManifest("/nonexistent/ogbon.yaml")
	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeConfigNotFound))
}

func TestLoader_LoadManifest_ParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteTempFile(t, dir, "ogbon.yaml", "targets:\n  default:\n    layers:\n      - base\n")

	_, err := config.NewLoader().LoadManifest(path)
	require.Error(t, err)
	ue := config.GetUserError(err)
	require.NotNil(t, ue)
	assert.Equal(t, config.ErrCodeConfigParse, ue.Code)
	assert.Equal(t, "invalid targets format", ue.Message)
}

func TestLoader_Load_UnknownTarget(t *testing.T) {
	t.Parallel()

	_, err := config.NewLoader().Load(testutil.FixtureRecipe(t), "arm")
	require.Error(t, err)
	ue := config.GetUserError(err)
	require.NotNil(t, ue)
	assert.Equal(t, config.ErrCodeTargetNotFound, ue.Code)
	assert.Equal(t, "Available targets: default, full, gpu", ue.Suggestion)
}

func TestLoader_Load_MissingLayer(t *testing.T) {
	t.Parallel()

	path := testutil.WriteRecipe(t,
		testutil.NewManifestBuilder().WithTarget("default", "base", "extra").Build(),
		testutil.NewLayerBuilder("base").WithBaseImage("ubuntu:22.04").Build(),
	)

	_, err := config.NewLoader().Load(path, "")
	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeLayerNotFound))
	assert.Contains(t, err.Error(), "extra")
}

func TestLoader_Load_UndefinedVariable(t *testing.T) {
	t.Parallel()

	path := testutil.WriteRecipe(t,
		testutil.NewManifestBuilder().WithTarget("default", "base").Build(),
		testutil.NewLayerBuilder("base").WithBaseImage("ubuntu:{{ .ubuntu }}").Build(),
	)

	_, err := config.NewLoader().Load(path, "")
	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeVariableUndefined))
}

func TestLoader_LoadLayer_ErrorsCarryPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	loader := config.NewLoader()

	yamlPath := testutil.WriteTempFile(t, dir, "bad.yaml", "name: bad\nblocks: [gnu]\n")
	_, err := loader.LoadLayer(yamlPath)
	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeBlockInvalid))
	assert.Contains(t, err.Error(), yamlPath)

	tomlPath := testutil.WriteTempFile(t, dir, "bad.toml", "name = \n")
	_, err = loader.LoadLayer(tomlPath)
	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeConfigParse))

	hclPath := testutil.WriteTempFile(t, dir, "bad.hcl", "block \"gnu\" {\n")
	_, err = loader.LoadLayer(hclPath)
	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeConfigParse))
}

func TestLoader_FindLayer_PrefersYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTempFile(t, dir, "base.toml", "name = \"base\"\n")
	yamlPath := testutil.WriteTempFile(t, dir, "base.yaml", "name: base\n")

	name, err := config.NewLayerName("base")
	require.NoError(t, err)

	path, err := config.NewLoader().FindLayer(dir, name)
	require.NoError(t, err)
	assert.Equal(t, yamlPath, path)
}
