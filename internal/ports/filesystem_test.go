package ports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/recipes/Dockerfile", filepath.Join(home, "recipes", "Dockerfile")},
		{"/absolute/ompc.def", "/absolute/ompc.def"},
		{"relative/Dockerfile", "relative/Dockerfile"},
		{"/path/with~tilde", "/path/with~tilde"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExpandPath(tt.input), tt.input)
	}
}
