package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/felo/eml2pdf/internal/config"
	"github.com/felo/eml2pdf/internal/converter"
	"github.com/felo/eml2pdf/internal/db"
	"github.com/felo/eml2pdf/internal/render"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input_directory> [output_directory]",
		Short: "Convert every .eml file in a directory to PDF",
		Long: `Convert reads every .eml file in input_directory and writes one PDF per
message into output_directory (default: the current directory).

Files that cannot be parsed or rendered are reported and skipped; the command
only fails when a directory cannot be read or created.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if len(args) == 2 {
				cfg.OutputDir = args[1]
			}

			opts := converter.Options{
				OutputDir: cfg.OutputDir,
				KeepHTML:  cfg.KeepHTML,
				Out:       cmd.OutOrStdout(),
				Logger:    a.logger,
			}
			if cfg.Sanitize {
				opts.Sanitizer = render.NewSanitizer()
			}
			if cfg.JournalPath != "" {
				journal, err := db.Open(cfg.JournalPath)
				if err != nil {
					return err
				}
				defer journal.Close()
				opts.Journal = journal
			}

			c := converter.New(a.newRenderer(cfg), opts)
			result, err := c.ConvertDir(cmd.Context(), args[0], cfg.Recursive)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nBatch summary: %d converted, %d failed (total: %d, %s written)\n",
				result.Converted, result.Failed, result.TotalFound, humanize.Bytes(uint64(result.PDFBytes)))
			for _, f := range result.FailedFiles {
				fmt.Fprintf(cmd.OutOrStdout(), "failed: %s\n", f)
			}
			if result.Overwritten > 0 {
				a.logger.Warn("some outputs were overwritten by messages with the same date and subject",
					"count", result.Overwritten)
			}
			return nil
		},
	}

	config.RegisterConvertFlags(cmd.Flags())
	return cmd
}
