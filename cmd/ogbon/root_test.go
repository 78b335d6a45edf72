package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a fresh command tree. Global flags are shared, so
// callers must not run in parallel.
func executeCommand(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range newRootCmd().Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"render", "validate", "explain", "blocks", "init", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_RejectsUnknownLogLevel(t *testing.T) {
	_, _, err := executeCommand("--log-level", "loud", "blocks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 2, exitCode(&exitError{code: 2, err: errors.New("boom")}))
	assert.Equal(t, 1, exitCode(&exitError{code: 1, err: errValidationFailed}))
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		verbose  bool
		contains []string
		missing  []string
	}{
		{
			name: "user error",
			err: config.NewUserError(config.ErrCodeLayerNotFound, "layer not found").
				WithContext("layers/gpu.yaml").
				WithSuggestion("Create the layer file.").
				WithUnderlying(errors.New("stat failed")),
			contains: []string{"layer not found (at layers/gpu.yaml)", "Suggestion: Create the layer file."},
			missing:  []string{"stat failed"},
		},
		{
			name:     "user error verbose",
			err:      config.NewUserError(config.ErrCodeConfigParse, "bad yaml").WithUnderlying(errors.New("line 3")),
			verbose:  true,
			contains: []string{"bad yaml", "Technical details: line 3"},
		},
		{
			name: "block error",
			err: &compiler.BlockError{
				Code:       compiler.ErrCodeParamInvalid,
				Message:    "invalid parameter",
				Block:      "ucx",
				ID:         "ucx",
				Provenance: "layers/base.yaml",
				Suggestion: "Use a version such as 1.17.0.",
				Underlying: errors.New("version is required"),
			},
			contains: []string{
				"invalid parameter (at ucx ucx in layers/base.yaml): version is required",
				"Suggestion: Use a version such as 1.17.0.",
			},
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			contains: []string{"plain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbose = tt.verbose
			defer func() { verbose = false }()

			msg := formatError(tt.err)
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
			for _, s := range tt.missing {
				assert.NotContains(t, msg, s)
			}
		})
	}
}

func TestFormatError_ErrorList(t *testing.T) {
	list := config.NewErrorList()
	list.AddValidation("blocks[0]", "first problem", "")
	list.AddValidation("blocks[1]", "second problem", "Fix it.")

	msg := formatError(list.AsError())
	assert.Contains(t, msg, "first problem")
	assert.Contains(t, msg, "second problem")
	assert.Contains(t, msg, "Suggestion: Fix it.")
}

func TestPrintErrorTo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printErrorTo(&buf, errors.New("something broke"))
	assert.Equal(t, "Error: something broke\n", buf.String())
}

func TestVersionCmd(t *testing.T) {
	out, _, err := executeCommand("version")
	require.NoError(t, err)
	assert.Contains(t, out, "ogbon dev")
	assert.Contains(t, out, "commit: none")
}
