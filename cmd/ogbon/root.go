package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/adapters/logging"
	"github.com/felixgeelhaar/ogbon/internal/domain/compiler"
	"github.com/felixgeelhaar/ogbon/internal/domain/config"
	"github.com/felixgeelhaar/ogbon/internal/ports"
	"github.com/spf13/cobra"
)

// DefaultManifest is the manifest read when --config is not given.
const DefaultManifest = "ogbon.yaml"

// Global flags
var (
	verbose  bool
	logLevel string
	logJSON  bool
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitCode maps an error to the process exit status: 2 when the recipe could
// not be read, 1 otherwise.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ogbon",
		Short: "A container recipe compiler for HPC development images",
		Long: `Ogbon compiles layered recipe descriptions into a Dockerfile or a
Singularity definition file.

Recipes are built from building blocks (compilers, MPI, UCX, CUDA tools,
packages, environment) stacked in layers and selected per target:
  Layers → Merge → Compile → Render → Verify`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogger,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs and error details)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	_ = root.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newRenderCmd(),
		newValidateCmd(),
		newExplainCmd(),
		newBlocksCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// setupLogger attaches a console logger to the command context.
func setupLogger(cmd *cobra.Command, _ []string) error {
	level, err := ports.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = ports.LevelDebug
	}

	logger := logging.NewConsoleLogger(
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithLevel(level),
		logging.WithJSONFormat(logJSON),
		logging.WithColor(!logJSON),
	)
	cmd.SetContext(ports.ContextWithLogger(cmd.Context(), logger))
	return nil
}

// addRecipeFlags registers the flags shared by commands that read a recipe.
func addRecipeFlags(cmd *cobra.Command, manifest, target *string) {
	cmd.Flags().StringVarP(manifest, "config", "c", DefaultManifest, "path to ogbon.yaml")
	cmd.Flags().StringVarP(target, "target", "t", "", "target to compile (default: manifest default)")
	_ = cmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var list *config.ErrorList
	if errors.As(err, &list) {
		msgs := make([]string, 0, list.Len())
		for _, e := range list.Errors() {
			msgs = append(msgs, formatError(e))
		}
		return strings.Join(msgs, "\n\n")
	}

	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}

	var blockErr *compiler.BlockError
	if errors.As(err, &blockErr) {
		msg := blockErr.Message
		if blockErr.Block != "" {
			where := blockErr.Block
			if blockErr.ID != "" {
				where += " " + blockErr.ID
			}
			if blockErr.Provenance != "" {
				where += " in " + blockErr.Provenance
			}
			msg += fmt.Sprintf(" (at %s)", where)
		}
		if blockErr.Underlying != nil && (verbose || blockErr.Code == compiler.ErrCodeParamInvalid || blockErr.Code == compiler.ErrCodeBlockFailed) {
			msg += fmt.Sprintf(": %v", blockErr.Underlying)
		}
		if blockErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", blockErr.Suggestion)
		}
		return msg
	}

	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
