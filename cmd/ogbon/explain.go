package main

import (
	"github.com/felixgeelhaar/ogbon/internal/app"
	"github.com/spf13/cobra"
)

func newExplainCmd() *cobra.Command {
	var manifest, target string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show what each block of a target contributes",
		Long: `Explain compiles the target and lists every block instance in recipe
order with the layer that declared it and the directives it emits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ogbon := app.New(cmd.OutOrStdout())
			explanations, err := ogbon.Explain(cmd.Context(), manifest, target)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			ogbon.PrintExplanations(explanations)
			return nil
		},
	}

	addRecipeFlags(cmd, &manifest, &target)
	return cmd
}
