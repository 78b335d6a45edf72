package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePackageName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple", "git", nil},
		{"versioned gcc", "gcc-12", nil},
		{"plus signs", "g++-12", nil},
		{"library", "libstdc++-12-dev", nil},
		{"dotted", "python3.11", nil},
		{"apt version pin", "cuda-nvcc-12-4=12.4.131-1", nil},
		{"apt wildcard pin", "nsight-systems=2024.4.*", nil},
		{"empty", "", ErrEmptyInput},
		{"too long", strings.Repeat("a", 257), ErrInvalidPackageName},
		{"leading dash", "-y", ErrInvalidPackageName},
		{"space", "git vim", ErrInvalidPackageName},
		{"semicolon", "git;rm", ErrCommandInjection},
		{"subshell", "$(id)", ErrCommandInjection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePackageName(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidatePPA(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePPA("ppa:ubuntu-toolchain-r/test"))
	assert.NoError(t, ValidatePPA("deadsnakes/ppa"))
	assert.ErrorIs(t, ValidatePPA(""), ErrEmptyInput)
	assert.ErrorIs(t, ValidatePPA("ppa:missing-name"), ErrInvalidPPA)
	assert.ErrorIs(t, ValidatePPA("ppa:a/b && id"), ErrCommandInjection)
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"https", "https://apt.llvm.org/llvm-snapshot.gpg.key", nil},
		{"http with port", "http://mirror.internal:8080/pub/x.tar.gz", nil},
		{"empty", "", ErrEmptyInput},
		{"ftp", "ftp://example.org/x", ErrInvalidURL},
		{"no scheme", "example.org/x", ErrInvalidURL},
		{"backtick", "https://example.org/`id`", ErrCommandInjection},
		{"too long", "https://example.org/" + strings.Repeat("a", 2048), ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateURL(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateAptRepository(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateAptRepository("deb http://apt.llvm.org/jammy/ llvm-toolchain-jammy-17 main"))
	assert.NoError(t, ValidateAptRepository("deb https://developer.download.nvidia.com/devtools/repos/ubuntu2204/amd64/ /"))
	assert.NoError(t, ValidateAptRepository("deb [arch=amd64] http://archive.example.org/ubuntu jammy main"))
	assert.ErrorIs(t, ValidateAptRepository(""), ErrEmptyInput)
	assert.ErrorIs(t, ValidateAptRepository("http://apt.llvm.org/jammy/"), ErrInvalidRepository)
	assert.ErrorIs(t, ValidateAptRepository(`deb http://x/ jammy main" > /etc/passwd`), ErrCommandInjection)
}

func TestValidatePipPackage(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"numpy", "h5py", "black==23.1.0", "ruff>=0.1.0", "scipy~=1.11", "jax[cuda12]"} {
		assert.NoError(t, ValidatePipPackage(ok), ok)
	}
	assert.ErrorIs(t, ValidatePipPackage(""), ErrEmptyInput)
	assert.ErrorIs(t, ValidatePipPackage("-r requirements.txt"), ErrInvalidPipPackage)
	assert.ErrorIs(t, ValidatePipPackage("numpy; id"), ErrCommandInjection)
}

func TestValidateGitBranch(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateGitBranch(""))
	assert.NoError(t, ValidateGitBranch("master"))
	assert.NoError(t, ValidateGitBranch("release/v1.2"))
	assert.ErrorIs(t, ValidateGitBranch("../etc"), ErrInvalidGitBranch)
	assert.ErrorIs(t, ValidateGitBranch("main branch"), ErrInvalidGitBranch)
	assert.ErrorIs(t, ValidateGitBranch("main|id"), ErrCommandInjection)
	assert.ErrorIs(t, ValidateGitBranch(strings.Repeat("b", 256)), ErrInvalidGitBranch)
}

func TestValidateGitRemoteURL(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{
		"https://github.com/hpc/xpmem.git",
		"https://gitlab.inria.fr/knem/knem",
		"git@github.com:hpc/xpmem.git",
		"ssh://git@example.org/team/repo.git",
	} {
		assert.NoError(t, ValidateGitRemoteURL(ok), ok)
	}
	assert.ErrorIs(t, ValidateGitRemoteURL(""), ErrEmptyInput)
	assert.ErrorIs(t, ValidateGitRemoteURL("github.com/hpc/xpmem"), ErrInvalidGitRemote)
	assert.ErrorIs(t, ValidateGitRemoteURL("https://github.com/x.git && id"), ErrCommandInjection)
}
