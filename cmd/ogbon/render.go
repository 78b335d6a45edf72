package main

import (
	"bytes"
	"fmt"

	"github.com/felixgeelhaar/ogbon/internal/adapters/filesystem"
	"github.com/felixgeelhaar/ogbon/internal/app"
	"github.com/felixgeelhaar/ogbon/internal/ports"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	manifest string
	target   string
	format   string
	output   string
	verify   bool
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Compile a target and write the container recipe",
		Long: `Render merges the target's layers, compiles every building block and
writes the result as a Dockerfile or a Singularity definition.

Without --output the recipe is written to stdout.

Examples:
  ogbon render
  ogbon render --target cpu --output Dockerfile
  ogbon render --format singularity --output ompc.def`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	addRecipeFlags(cmd, &opts.manifest, &opts.target)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: docker or singularity (default: manifest default)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the recipe to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.verify, "verify", true, "parse Docker output before writing it")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"docker", "singularity"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions) error {
	ogbon := app.New(cmd.OutOrStdout())

	result, err := ogbon.Render(cmd.Context(), opts.manifest, app.RenderOptions{
		Target: opts.target,
		Format: opts.format,
		Verify: opts.verify,
	})
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	if opts.output == "" || opts.output == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), result.Text)
		return err
	}

	path := ports.ExpandPath(opts.output)
	fsys := filesystem.NewRealFileSystem()
	if current, err := fsys.ReadFile(path); err == nil && bytes.Equal(current, []byte(result.Text)) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is up to date (fingerprint %s)\n", path, result.Fingerprint)
		return nil
	}

	if err := fsys.WriteFile(path, []byte(result.Text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ogbon.PrintRenderSummary(result, path)
	return nil
}
