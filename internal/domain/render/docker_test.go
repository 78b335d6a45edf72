package render

import (
	"testing"

	"github.com/felixgeelhaar/ogbon/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocker_Render(t *testing.T) {
	t.Parallel()

	shell := &recipe.Shell{Commands: []string{"cd /var/tmp", "make -j$(nproc)"}}
	stage := newStage(t,
		[]recipe.Directive{&recipe.Comment{Text: "Dev image"}},
		block(1, &recipe.Comment{Text: "Base", Reformat: true}),
		block(2, &recipe.BaseImage{Image: "nvidia/cuda:12.0.0-devel-ubuntu20.04", Distro: focal(t)}),
		block(3,
			&recipe.Comment{Text: "Tools", Reformat: true},
			&recipe.Packages{Distro: focal(t), Apt: []string{"gdb", "git"}},
			shell,
			&recipe.Environment{Variables: map[string]string{"PATH": "/usr/local/x/bin:$PATH", "CC": "clang"}},
		),
		block(4, &recipe.Label{Metadata: map[string]string{"org.example.title": "OMPC dev"}}),
	)

	out, err := NewDocker().Render(stage)
	require.NoError(t, err)

	want := `# Dev image

# Base

FROM nvidia/cuda:12.0.0-devel-ubuntu20.04

# Tools
RUN apt-get update -y && \
    DEBIAN_FRONTEND=noninteractive apt-get install -y --no-install-recommends \
        gdb \
        git && \
    rm -rf /var/lib/apt/lists/*
RUN cd /var/tmp && \
    make -j$(nproc)
ENV CC=clang \
    PATH=/usr/local/x/bin:$PATH

LABEL org.example.title="OMPC dev"
`
	assert.Equal(t, want, out)

	n, err := Verify(out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestDocker_RenderConsumesStage(t *testing.T) {
	t.Parallel()

	stage := newStage(t, block(1, &recipe.BaseImage{Image: "ubuntu:22.04", As: "devel"}))

	out, err := NewDocker().Render(stage)
	require.NoError(t, err)
	assert.Equal(t, "FROM ubuntu:22.04 AS devel\n", out)

	_, err = NewDocker().Render(stage)
	require.ErrorIs(t, err, recipe.ErrStageConsumed)
}

func TestDocker_RenderInvalidStage(t *testing.T) {
	t.Parallel()

	stage := newStage(t, block(1, &recipe.Shell{Commands: []string{"true"}}))

	_, err := NewDocker().Render(stage)
	require.ErrorIs(t, err, recipe.ErrBaseImageNotFirst)
}

func TestDocker_SkipsEmptyPackages(t *testing.T) {
	t.Parallel()

	stage := newStage(t,
		block(1, &recipe.BaseImage{Image: "rockylinux:9", Distro: rocky(t)}),
		block(2, &recipe.Packages{Distro: rocky(t), Apt: []string{"apt-only"}}),
	)

	out, err := NewDocker().Render(stage)
	require.NoError(t, err)
	assert.Equal(t, "FROM rockylinux:9\n", out)
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "clang", quote("clang"))
	assert.Equal(t, `"a b"`, quote("a b"))
	assert.Equal(t, `""`, quote(""))
	assert.Equal(t, "/x/*/include:$CPATH", quote("/x/*/include:$CPATH"))
}
