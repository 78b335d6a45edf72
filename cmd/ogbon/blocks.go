package main

import (
	"github.com/felixgeelhaar/ogbon/internal/app"
	"github.com/spf13/cobra"
)

func newBlocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "List the available building blocks",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ogbon := app.New(cmd.OutOrStdout())
			ogbon.PrintBlocks(ogbon.Blocks())
		},
	}
}
