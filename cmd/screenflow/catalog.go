package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screenflow/core/internal/ui"
)

func catalogCmd(load configLoader) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "catalog [query]",
		Short: "List screen archetypes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(load)
			if err != nil {
				return fail(cmd, err)
			}
			query := strings.Join(args, " ")
			results := cat.Filter(query, category)
			out := cmd.OutOrStdout()

			ui.Banner(out, "screen archetypes")
			if len(results) == 0 {
				fmt.Fprintln(out, "  No archetypes found.")
				return nil
			}

			headers := []string{"ID", "Label", "Category", "Options", "Description"}
			var rows [][]string
			for _, a := range results {
				desc := a.Description
				if r := []rune(desc); len(r) > 45 {
					desc = string(r[:42]) + "..."
				}
				rows = append(rows, []string{a.ID, a.Label, ui.Category(a.Category), fmt.Sprint(len(a.UIOptions)), desc})
			}
			ui.Table(out, headers, rows)

			fmt.Fprintf(out, "\n  %d of %d archetypes\n", len(results), cat.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	return cmd
}
