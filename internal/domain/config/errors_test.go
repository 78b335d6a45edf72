package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *UserError
		expected string
	}{
		{
			name:     "simple message",
			err:      &UserError{Code: ErrCodeConfigNotFound, Message: "config file not found"},
			expected: "config file not found",
		},
		{
			name: "message with context",
			err: &UserError{
				Code:    ErrCodeConfigNotFound,
				Message: "config file not found",
				Context: "ogbon.yaml",
			},
			expected: "config file not found (at ogbon.yaml)",
		},
		{
			name: "suggestion is not part of Error",
			err: &UserError{
				Code:       ErrCodeConfigNotFound,
				Message:    "config file not found",
				Context:    "ogbon.yaml",
				Suggestion: "run init",
			},
			expected: "config file not found (at ogbon.yaml)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUserError_Format(t *testing.T) {
	t.Parallel()

	formatted := NewConfigNotFoundError("ogbon.yaml").Format()

	assert.Contains(t, formatted, "[CONFIG_NOT_FOUND]")
	assert.Contains(t, formatted, "Location: ogbon.yaml")
	assert.Contains(t, formatted, "Suggestion: Run 'ogbon init'")
}

func TestUserError_UnwrapAndIs(t *testing.T) {
	t.Parallel()

	underlying := errors.New("boom")
	err := NewUserError(ErrCodeConfigParse, "parse failed").WithUnderlying(underlying)
	wrapped := fmt.Errorf("loading: %w", err)

	require.ErrorIs(t, wrapped, underlying)
	assert.ErrorIs(t, wrapped, &UserError{Code: ErrCodeConfigParse})
	assert.NotErrorIs(t, wrapped, &UserError{Code: ErrCodeLayerNotFound})
	assert.True(t, IsUserError(wrapped, ErrCodeConfigParse))
	assert.Equal(t, "parse failed", GetUserError(wrapped).Message)
	assert.Nil(t, GetUserError(underlying))
}

func TestUserError_WithMethodsCopy(t *testing.T) {
	t.Parallel()

	orig := NewUserError(ErrCodeBlockInvalid, "bad block")
	withCtx := orig.WithContext("base.yaml").WithSuggestion("fix it")

	assert.Empty(t, orig.Context)
	assert.Empty(t, orig.Suggestion)
	assert.Equal(t, "base.yaml", withCtx.Context)
	assert.Equal(t, "fix it", withCtx.Suggestion)
}

func TestErrorList(t *testing.T) {
	t.Parallel()

	list := NewErrorList()
	assert.NoError(t, list.AsError())
	assert.Empty(t, list.Format())

	list.Add(nil)
	list.AddValidation("base.blocks[0]", "kind is required", "")
	assert.Equal(t, 1, list.Len())
	assert.Equal(t, "base.blocks[0]: kind is required (at base.blocks[0])", list.Error())

	list.Add(NewTargetNotFoundError("gpu", []string{"default"}))
	require.Error(t, list.AsError())
	assert.Contains(t, list.Error(), "2 errors occurred")
	assert.Contains(t, list.Format(), "--- Error 2 ---")
	assert.Len(t, list.Errors(), 2)
}

func TestNewTargetNotFoundError_ListsAvailable(t *testing.T) {
	t.Parallel()

	err := NewTargetNotFoundError("gpu", []string{"default", "full"})
	assert.Equal(t, "Available targets: default, full", err.Suggestion)

	err = NewTargetNotFoundError("gpu", nil)
	assert.Contains(t, err.Suggestion, "ogbon.yaml")
}

func TestNewYAMLParseError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     string
		message string
		context string
	}{
		{
			name:    "targets as map",
			err:     "yaml: unmarshal errors:\n  line 3: cannot unmarshal !!map into []string",
			message: "invalid targets format",
			context: "ogbon.yaml (line 3)",
		},
		{
			name:    "bad indentation",
			err:     "yaml: line 7: did not find expected key",
			message: "missing required field or incorrect indentation",
			context: "ogbon.yaml (line 7)",
		},
		{
			name:    "unknown",
			err:     "yaml: something odd",
			message: "invalid YAML syntax",
			context: "ogbon.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ue := NewYAMLParseError("ogbon.yaml", errors.New(tt.err))
			assert.Equal(t, ErrCodeConfigParse, ue.Code)
			assert.Equal(t, tt.message, ue.Message)
			assert.Equal(t, tt.context, ue.Context)
			assert.NotEmpty(t, ue.Suggestion)
		})
	}
}
