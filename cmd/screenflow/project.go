package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/screenflow/core/internal/parser"
	"github.com/screenflow/core/internal/ui"
)

func validateCmd() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that project files can be imported",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := make([]bytes.Buffer, len(args))
			errs := make([]error, len(args))

			g := new(errgroup.Group)
			g.SetLimit(max(jobs, 1))
			for i, path := range args {
				g.Go(func() error {
					errs[i] = validateFile(&reports[i], path)
					return nil
				})
			}
			_ = g.Wait()

			out := cmd.OutOrStdout()
			for i := range args {
				if errs[i] != nil {
					fail(cmd, errs[i])
					continue
				}
				out.Write(reports[i].Bytes())
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "files to check at once")
	return cmd
}

func validateFile(out io.Writer, path string) error {
	doc, err := readProject(path)
	if err != nil {
		return err
	}
	legacy := parser.Migrate(doc.Nodes)

	fmt.Fprintf(out, "%s %s  %s\n", ui.StatusIcon(true), ui.Brand.Sprint(doc.ProjectName),
		ui.Subtle.Sprintf("%d nodes, %d edges", len(doc.Nodes), len(doc.Edges)))
	if doc.Version != "" && doc.Version != "1.0" {
		fmt.Fprintf(out, "%s unknown document version %q\n", ui.WarnIcon(), doc.Version)
	}
	for _, e := range parser.DanglingEdges(doc) {
		fmt.Fprintf(out, "%s edge %s points at a missing node (%s -> %s)\n", ui.WarnIcon(), e.ID, e.Source, e.Target)
	}
	if legacy > 0 {
		fmt.Fprintf(out, "%s %d UI options have no id; run `screenflow migrate`\n", ui.WarnIcon(), legacy)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Give legacy UI options explicit ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readProject(args[0])
			if err != nil {
				return fail(cmd, err)
			}
			n := parser.Migrate(doc.Nodes)
			if doc.Version == "" {
				doc.Version = "1.0"
			}

			data, err := parser.Encode(*doc)
			if err != nil {
				return fail(cmd, err)
			}
			if output == "" {
				output = args[0]
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return fail(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s migrated %d options -> %s\n", ui.StatusIcon(true), n, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write here instead of overwriting the input")
	return cmd
}
