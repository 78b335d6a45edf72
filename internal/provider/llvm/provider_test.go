package llvm_test

import (
	"testing"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/platform"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/llvm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func distro(t *testing.T, s string) platform.Distro {
	t.Helper()
	d, err := platform.Parse(s)
	require.NoError(t, err)
	return d
}

func TestProvider_Compile_Upstream(t *testing.T) {
	t.Parallel()

	ctx := compiler.NewCompileContext(map[string]interface{}{
		"upstream": true,
		"version":  "17",
		"openmp":   true,
		"toolset":  true,
		"runtime":  true,
	}).WithDistro(distro(t, "ubuntu20.04"))

	ds, err := llvm.NewProvider().Compile(ctx)
	require.NoError(t, err)
	require.NoError(t, ctx.Err())
	require.Len(t, ds, 4)

	assert.Equal(t, "LLVM compiler 17", ds[0].(*recipe.Comment).Text)

	pkgs := ds[1].(*recipe.Packages)
	assert.Equal(t, []string{
		"clang-17", "libomp-17-dev", "clang-format-17", "clang-tidy-17", "lld-17", "lldb-17", "llvm-17",
	}, pkgs.Apt)
	assert.Equal(t, []string{llvm.UpstreamKey}, pkgs.AptKeys)
	assert.Equal(t, []string{"deb http://apt.llvm.org/focal/ llvm-toolchain-focal-17 main"}, pkgs.AptRepositories)

	sh := ds[2].(*recipe.Shell)
	assert.Contains(t, sh.Commands[0], "update-alternatives --install /usr/bin/clang clang $(which clang-17) 30")
	assert.Contains(t, sh.Commands[0], "/usr/bin/clang++ clang++ $(which clang++-17)")
	assert.Contains(t, sh.Commands[0], "llvm-config")

	rt := ds[3].(*recipe.Packages)
	assert.Equal(t, []string{"libclang1-17", "libomp5-17"}, rt.Apt)
	assert.Equal(t, pkgs.AptRepositories, rt.AptRepositories)
}

func TestProvider_Compile_Distribution(t *testing.T) {
	t.Parallel()

	ctx := compiler.NewCompileContext(nil)
	ds, err := llvm.NewProvider().Compile(ctx)
	require.NoError(t, err)
	require.NoError(t, ctx.Err())
	require.Len(t, ds, 2)

	pkgs := ds[1].(*recipe.Packages)
	assert.Equal(t, []string{"clang", "libomp-dev"}, pkgs.Apt)
	assert.Equal(t, []string{"clang", "libomp-devel"}, pkgs.Yum)
	assert.Empty(t, pkgs.AptRepositories)
}

func TestProvider_Compile_MajorVersionOnly(t *testing.T) {
	t.Parallel()

	ctx := compiler.NewCompileContext(map[string]interface{}{"version": "18.1.8", "openmp": false})
	ds, err := llvm.NewProvider().Compile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"clang-18"}, ds[1].(*recipe.Packages).Apt)
}

func TestProvider_Compile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params map[string]interface{}
		distro string
		err    error
	}{
		{name: "upstream without version", params: map[string]interface{}{"upstream": true}, distro: "ubuntu22.04", err: llvm.ErrUpstreamVersion},
		{name: "upstream on rocky", params: map[string]interface{}{"upstream": true, "version": 17}, distro: "rockylinux9", err: llvm.ErrUpstreamDistro},
		{name: "unknown codename", params: map[string]interface{}{"upstream": true, "version": 17}, distro: "ubuntu16.04", err: llvm.ErrUnknownCodename},
		{name: "versioned rpm", params: map[string]interface{}{"version": 17}, distro: "almalinux8", err: llvm.ErrVersionedRPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := compiler.NewCompileContext(tt.params).WithDistro(distro(t, tt.distro))
			_, err := llvm.NewProvider().Compile(ctx)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
