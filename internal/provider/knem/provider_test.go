package knem_test

import (
	"testing"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/felixgeelhaar/ogbon/internal/provider/knem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Compile(t *testing.T) {
	t.Parallel()

	ctx := compiler.NewCompileContext(map[string]interface{}{"ldconfig": true})
	ds, err := knem.NewProvider().Compile(ctx)
	require.NoError(t, err)
	require.NoError(t, ctx.Err())
	require.Len(t, ds, 4)

	assert.Equal(t, "KNEM version 1.1.4", ds[0].(*recipe.Comment).Text)
	assert.Equal(t, []string{"ca-certificates", "git"}, ds[1].(*recipe.Packages).Apt)

	sh := ds[2].(*recipe.Shell)
	assert.True(t, sh.Chdir)
	assert.Contains(t, sh.Commands[0], "--branch knem-1.1.4 https://gitlab.inria.fr/knem/knem.git knem")
	assert.Contains(t, sh.Commands, "cp common/*.h /usr/local/knem/include")
	assert.Contains(t, sh.Commands, `echo "/usr/local/knem/lib" >> /etc/ld.so.conf.d/ogbon.conf && ldconfig`)
	assert.Equal(t, "rm -rf /var/tmp/knem", sh.Commands[len(sh.Commands)-1])
	assert.Equal(t, []string{"/usr/local/knem"}, recipe.ProvidesOf(sh))

	env := ds[3].(*recipe.Environment)
	assert.Equal(t, map[string]string{"CPATH": "/usr/local/knem/include:$CPATH"}, env.Variables)
}

func TestProvider_Compile_Prefix(t *testing.T) {
	t.Parallel()

	ctx := compiler.NewCompileContext(map[string]interface{}{"prefix": "/opt/knem/", "version": "1.1.3"})
	ds, err := knem.NewProvider().Compile(ctx)
	require.NoError(t, err)

	sh := ds[2].(*recipe.Shell)
	assert.Contains(t, sh.Commands, "mkdir -p /opt/knem/include")
	for _, c := range sh.Commands {
		assert.NotContains(t, c, "ldconfig")
	}
	assert.Equal(t, []string{"/opt/knem"}, recipe.ProvidesOf(sh))
}
