// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/inkwell/internal/core/catalog"
)

func newChaptersCommand(state *runtime) *cobra.Command {
	var sync bool

	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Print chapters in display order",
		Long: `Print chapters in display order with their comic counts.

With --sync, chapter keys used by comics but missing from the chapters file are
added as placeholders, and an unused empty-key chapter is removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := state.context(cmd)

			var (
				grouping *catalog.Grouping
				err      error
			)
			if sync {
				grouping, err = state.services.Catalog.SyncChapters(ctx)
			} else {
				grouping, err = state.services.Catalog.Chapters(ctx)
			}
			if err != nil {
				return err
			}

			if state.asJSON {
				return printJSON(cmd.OutOrStdout(), grouping)
			}

			table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(table, "KEY\tTITLE\tCOMICS")
			for _, group := range grouping.Chapters {
				fmt.Fprintf(table, "%q\t%s\t%d\n", group.Chapter.ID, group.Chapter.Title, len(group.Entries))
			}
			if err := table.Flush(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d comics without a chapter\n", grouping.Unchaptered)

			verb := "would add"
			if sync {
				verb = "added"
			}
			for _, key := range grouping.Synthesized {
				fmt.Fprintf(out, "%s chapter %q\n", verb, key)
			}
			verb = "would remove"
			if sync {
				verb = "removed"
			}
			for _, key := range grouping.Removed {
				fmt.Fprintf(out, "%s chapter %q\n", verb, key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sync, "sync", false, "Persist placeholder and removed chapter records")

	return cmd
}
