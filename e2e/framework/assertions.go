//go:build e2e

package framework

import (
	"os"
	"strings"
	"testing"
)

// AssertSuccess asserts that the command succeeded.
func AssertSuccess(t *testing.T, r *Result) {
	t.Helper()
	if !r.Success() {
		t.Errorf("Expected command to succeed, got exit code %d\nStdout: %s\nStderr: %s",
			r.ExitCode, r.Stdout, r.Stderr)
	}
}

// AssertExitCode asserts the expected exit code.
func AssertExitCode(t *testing.T, r *Result, expected int) {
	t.Helper()
	if r.ExitCode != expected {
		t.Errorf("Expected exit code %d, got %d\nStdout: %s\nStderr: %s",
			expected, r.ExitCode, r.Stdout, r.Stderr)
	}
}

// AssertStdoutContains asserts that stdout contains every expected substring.
func AssertStdoutContains(t *testing.T, r *Result, expected ...string) {
	t.Helper()
	for _, s := range expected {
		if !strings.Contains(r.Stdout, s) {
			t.Errorf("Expected stdout to contain %q, but got:\n%s", s, r.Stdout)
		}
	}
}

// AssertStderrContains asserts that stderr contains the expected substring.
func AssertStderrContains(t *testing.T, r *Result, expected string) {
	t.Helper()
	if !strings.Contains(r.Stderr, expected) {
		t.Errorf("Expected stderr to contain %q, but got:\n%s", expected, r.Stderr)
	}
}

// AssertFileExists asserts that a file exists in the recipe directory.
func AssertFileExists(t *testing.T, env *Environment, rel string) {
	t.Helper()
	if _, err := os.Stat(env.Path(rel)); os.IsNotExist(err) {
		t.Errorf("Expected file %s to exist", rel)
	}
}

// AssertFileContains asserts that a file contains the expected content.
func AssertFileContains(t *testing.T, env *Environment, rel, expected string) {
	t.Helper()
	if content := env.ReadFile(rel); !strings.Contains(content, expected) {
		t.Errorf("Expected file %s to contain %q, but got:\n%s", rel, expected, content)
	}
}
