package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screenflow/core/internal/parser"
	"github.com/screenflow/core/internal/render"
	"github.com/screenflow/core/internal/ui"
)

func renderCmd(load configLoader) *cobra.Command {
	var (
		output string
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a project file to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readProject(args[0])
			if err != nil {
				return fail(cmd, err)
			}
			if !cmd.Flags().Changed("scale") {
				cfg, err := load()
				if err != nil {
					return fail(cmd, err)
				}
				scale = cfg.Render.Scale
			}

			var buf bytes.Buffer
			if err := render.PNG(&buf, doc.Snapshot(), render.Options{Scale: scale}); err != nil {
				return fail(cmd, err)
			}
			if output == "" {
				output = parser.ImageFileName(doc.ProjectName)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fail(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", ui.StatusIcon(true), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derived from the project name)")
	cmd.Flags().Float64Var(&scale, "scale", render.DefaultScale, "pixel density")
	return cmd
}

func filenameCmd() *cobra.Command {
	var ext string

	cmd := &cobra.Command{
		Use:   "filename <project name>",
		Short: "Print the export file name for a project name",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			name := args[0]
			for _, a := range args[1:] {
				name += " " + a
			}
			if ext == "png" {
				fmt.Fprintln(cmd.OutOrStdout(), parser.ImageFileName(name))
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), parser.FileName(name, "."+ext))
		},
	}
	cmd.Flags().StringVar(&ext, "ext", "json", "json or png")
	return cmd
}
