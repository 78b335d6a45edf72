package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

// ErrInvalidDockerfile is returned when rendered Docker output does not
// parse as a Dockerfile.
var ErrInvalidDockerfile = errors.New("rendered Dockerfile is invalid")

// fingerprintNamespace scopes recipe fingerprints.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/felixgeelhaar/ogbon/recipe"))

// Verify parses Dockerfile text with the BuildKit parser and returns the
// number of instructions. The first instruction must be FROM.
func Verify(dockerfile string) (int, error) {
	result, err := parser.Parse(strings.NewReader(dockerfile))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDockerfile, err)
	}

	children := result.AST.Children
	if len(children) == 0 {
		return 0, fmt.Errorf("%w: no instructions", ErrInvalidDockerfile)
	}
	if first := children[0]; !strings.EqualFold(first.Value, "from") {
		return 0, fmt.Errorf("%w: line %d: first instruction is %s, not FROM",
			ErrInvalidDockerfile, first.StartLine, strings.ToUpper(first.Value))
	}
	return len(children), nil
}

// Fingerprint returns a deterministic id for rendered recipe text.
func Fingerprint(text string) string {
	return uuid.NewSHA1(fingerprintNamespace, []byte(text)).String()
}
