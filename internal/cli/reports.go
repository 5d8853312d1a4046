// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/taibuivan/inkwell/internal/core/report"
)

// excerptLength bounds the description column of the report table.
const excerptLength = 48

func newReportsCommand(state *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List and moderate reader reports",
	}

	cmd.AddCommand(newReportsListCommand(state), newReportsMoveCommand(state))
	return cmd
}

func newReportsListCommand(state *runtime) *cobra.Command {
	var (
		status string
		page   int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports with a given status, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, meta, err := state.services.Reports.List(state.context(cmd), status, page, limit)
			if err != nil {
				return err
			}

			if state.asJSON {
				return printJSON(cmd.OutOrStdout(), views)
			}

			now := time.Now()
			table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(table, "ID\tCOMIC\tKIND\tSTATUS\tSUBMITTED\tDESCRIPTION")
			for _, view := range views {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%s\n",
					view.ID, view.ComicID, view.Kind, view.Status,
					humanize.RelTime(view.CreatedAt, now, "ago", "from now"),
					excerpt(view.Description))
			}
			if err := table.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%s reports)\n",
				meta.Page, max(meta.TotalPages, 1), humanize.Comma(int64(meta.Total)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", string(report.StatusOpen), "Report status: open, spam or closed")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Reports per page")

	return cmd
}

func newReportsMoveCommand(state *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "move <report-id> <close|spam|reopen>",
		Short: "Apply a moderation action to a report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			moved, err := state.services.Reports.Move(state.context(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			if state.asJSON {
				return printJSON(cmd.OutOrStdout(), moved.ToView())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "report %s is now %s (%s collection)\n",
				moved.ID, moved.Status, moved.Status.Collection())
			return nil
		},
	}
}

// excerpt shortens text to one table cell.
func excerpt(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' || r == '\t' {
			runes[i] = ' '
		}
	}
	if len(runes) <= excerptLength {
		return string(runes)
	}
	return string(runes[:excerptLength-1]) + "…"
}
