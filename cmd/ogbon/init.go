package main

import (
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/ogbon/internal/adapters/filesystem"
	"github.com/felixgeelhaar/ogbon/internal/adapters/logging"
	"github.com/felixgeelhaar/ogbon/internal/domain/render"
	"github.com/felixgeelhaar/ogbon/internal/ports"
	"github.com/felixgeelhaar/ogbon/internal/templates"
	"github.com/spf13/cobra"
)

type initOptions struct {
	name   string
	format string
	force  bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write the OMPC development image starter recipe",
		Long: `Init writes ogbon.yaml, the base, gpu, focal and ompc layers and a README
into dir (default: the current directory).

Existing files are left untouched unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = ports.ExpandPath(args[0])
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "recipe name (default: ompc-dev)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(render.FormatDocker), "default output format: docker or singularity")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *initOptions) error {
	logger := logging.FromContext(cmd.Context())

	if _, err := render.New(opts.format); err != nil {
		return err
	}

	files, err := templates.Starter(templates.Options{Name: opts.name, Format: opts.format})
	if err != nil {
		return err
	}
	if err := templates.Write(filesystem.NewRealFileSystem(), dir, files, opts.force); err != nil {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}

	out := cmd.OutOrStdout()
	for _, f := range files {
		logger.Debug(cmd.Context(), "wrote starter file", ports.F("path", f.Path))
		_, _ = fmt.Fprintf(out, "  created %s\n", filepath.Join(dir, filepath.FromSlash(f.Path)))
	}
	_, _ = fmt.Fprintf(out, "\n✓ Starter recipe written. Next: ogbon validate -c %s\n",
		filepath.Join(dir, "ogbon.yaml"))
	return nil
}
