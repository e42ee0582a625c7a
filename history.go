package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/felo/eml2pdf/internal/db"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JournalPath == "" {
				return errors.New("no journal configured: pass --journal or set EML2PDF_JOURNAL")
			}
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}

			journal, err := db.Open(a.cfg.JournalPath)
			if err != nil {
				return err
			}
			defer journal.Close()

			entries, err := journal.ListConversions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tSTATUS\tSIZE\tSOURCE\tOUTPUT")
			for _, e := range entries {
				size := "-"
				if e.Status == db.StatusConverted {
					size = humanize.Bytes(uint64(e.PDFSize))
				}
				output := e.OutputPath
				if e.Status == db.StatusFailed {
					output = e.Error
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					humanize.Time(e.ConvertedAt), e.Status, size, e.SourcePath, output)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("limit", 20, "Number of entries to show")
	return cmd
}
