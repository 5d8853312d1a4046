// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/inkwell/internal/core/catalog"
)

func newCatalogCommand(state *runtime) *cobra.Command {
	var (
		page      int
		driftOnly bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print one page of the reconciled archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := state.context(cmd)

			if driftOnly {
				entries, err := state.services.Catalog.Drift(ctx)
				if err != nil {
					return err
				}
				return state.printEntries(cmd, entries, "")
			}

			entries, meta, err := state.services.Catalog.Page(ctx, page)
			if err != nil {
				return err
			}
			return state.printEntries(cmd, entries,
				fmt.Sprintf("page %d of %d (%d comics)", meta.Page, max(meta.TotalPages, 1), meta.Total))
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number, clamped into range")
	cmd.Flags().BoolVar(&driftOnly, "drift", false, "Only list comics missing from at least one source")

	return cmd
}

func (state *runtime) printEntries(cmd *cobra.Command, entries []catalog.Entry, footer string) error {
	if state.asJSON {
		return printJSON(cmd.OutOrStdout(), entries)
	}

	table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tCHAPTER\tTITLE\tSOURCES\tMISSING")
	for _, entry := range entries {
		chapter := "-"
		if entry.ChapterKey != nil {
			chapter = fmt.Sprintf("%q", string(*entry.ChapterKey))
		}
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
			entry.ID, chapter, entry.Title, joinSources(entry.Sources), joinSources(entry.Missing))
	}
	if err := table.Flush(); err != nil {
		return err
	}

	if footer != "" {
		fmt.Fprintln(cmd.OutOrStdout(), footer)
	}
	return nil
}

func joinSources(sources []catalog.Source) string {
	if len(sources) == 0 {
		return "-"
	}
	names := make([]string, len(sources))
	for i, source := range sources {
		names[i] = string(source)
	}
	return strings.Join(names, ",")
}
