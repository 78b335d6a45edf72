package main

import (
	"encoding/json"
	"errors"

	"github.com/felixgeelhaar/ogbon/internal/app"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

type validateOptions struct {
	manifest string
	target   string
	json     bool
	strict   bool
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a recipe without writing output",
		Long: `Validate loads and merges the target's layers, checks block parameters
and the strings that end up in shell commands, compiles the recipe and
renders it in every format.

Exit codes:
  0 - Valid recipe
  1 - Validation errors found (or warnings with --strict)
  2 - Could not read the recipe

Examples:
  ogbon validate
  ogbon validate --target cpu --strict
  ogbon validate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	addRecipeFlags(cmd, &opts.manifest, &opts.target)
	cmd.Flags().BoolVar(&opts.json, "json", false, "output results as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat warnings as errors")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	ogbon := app.New(cmd.OutOrStdout())

	result, err := ogbon.Validate(cmd.Context(), opts.manifest, opts.target)
	if err != nil {
		if opts.json {
			outputValidationJSON(cmd, nil, err)
			// Already reported on stdout.
			return &exitError{code: 2, err: errValidationFailed}
		}
		return &exitError{code: 2, err: err}
	}

	if opts.json {
		outputValidationJSON(cmd, result, nil)
	} else {
		ogbon.PrintValidation(result)
	}

	if result.HasErrors() || (opts.strict && result.HasWarnings()) {
		return &exitError{code: 1, err: errValidationFailed}
	}
	return nil
}

func outputValidationJSON(cmd *cobra.Command, result *app.ValidationResult, err error) {
	output := struct {
		Valid    bool     `json:"valid"`
		Errors   []string `json:"errors,omitempty"`
		Warnings []string `json:"warnings,omitempty"`
		Info     []string `json:"info,omitempty"`
		Error    string   `json:"error,omitempty"`
	}{}

	if err != nil {
		output.Error = formatError(err)
	} else if result != nil {
		output.Valid = !result.HasErrors()
		output.Errors = result.Errors
		output.Warnings = result.Warnings
		output.Info = result.Info
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	_ = enc.Encode(output)
}
