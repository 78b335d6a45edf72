package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// AssertFileExists asserts that a file exists at the given path.
func AssertFileExists(t testing.TB, path string, msgAndArgs ...interface{}) {
	t.Helper()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		assert.Fail(t, "file does not exist", "expected file to exist: %s", path)
		return
	}
	require.NoError(t, err)
	assert.False(t, info.IsDir(), "expected file but got directory: %s", path)
}

// AssertFileNotExists asserts that no file exists at the given path.
func AssertFileNotExists(t testing.TB, path string, msgAndArgs ...interface{}) {
	t.Helper()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected file to not exist: %s", path)
}

// AssertFileContains asserts that a file contains the expected substring.
func AssertFileContains(t testing.TB, path, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	assert.Contains(t, string(content), expected, msgAndArgs...)
}

// AssertFileEquals asserts that a file contains exactly the expected content.
func AssertFileEquals(t testing.TB, path, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	actual := strings.ReplaceAll(string(content), "\r\n", "\n")
	expected = strings.ReplaceAll(expected, "\r\n", "\n")

	assert.Equal(t, expected, actual, msgAndArgs...)
}

// AssertYAMLEquals asserts that two YAML strings are semantically equal.
func AssertYAMLEquals(t testing.TB, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedMap, actualMap interface{}

	err := yaml.Unmarshal([]byte(expected), &expectedMap)
	require.NoError(t, err, "failed to parse expected YAML")

	err = yaml.Unmarshal([]byte(actual), &actualMap)
	require.NoError(t, err, "failed to parse actual YAML")

	assert.Equal(t, expectedMap, actualMap, msgAndArgs...)
}

// AssertErrorContains asserts that err contains the expected message.
func AssertErrorContains(t testing.TB, err error, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	require.Error(t, err)
	assert.Contains(t, err.Error(), expected, msgAndArgs...)
}

// AssertInOrder asserts that every fragment occurs in text, each one after
// the end of the previous.
func AssertInOrder(t testing.TB, text string, fragments ...string) bool {
	t.Helper()

	rest := text
	for i, f := range fragments {
		at := strings.Index(rest, f)
		if at < 0 {
			if strings.Contains(text, f) {
				return assert.Fail(t, "fragment out of order",
					"fragment %d %q appears before the previous fragment in:\n%s", i, f, text)
			}
			return assert.Fail(t, "fragment missing", "fragment %d %q not found in:\n%s", i, f, text)
		}
		rest = rest[at+len(f):]
	}
	return true
}
