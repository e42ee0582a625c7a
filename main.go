package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/felo/eml2pdf/internal/config"
	"github.com/felo/eml2pdf/internal/pdf"
)

// app carries what PersistentPreRunE resolves to the subcommands
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	// newRenderer is replaced in tests
	newRenderer func(cfg *config.Config) pdf.Renderer
}

func newApp() *app {
	return &app{
		newRenderer: func(cfg *config.Config) pdf.Renderer {
			return pdf.NewWKHTMLToPDF(pdf.Options{
				PageSize:  cfg.PageSize,
				DPI:       cfg.DPI,
				Grayscale: cfg.Grayscale,
			})
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eml2pdf",
		Short: "Convert .eml message files into PDF documents",
		Long: `eml2pdf converts every .eml file in a directory into a PDF named after the
message date and subject, e.g. 2024-01-01_Hello_World.pdf. Rendering is done by
wkhtmltopdf, which must be installed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	config.RegisterGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newConvertCmd(a), newPreviewCmd(a), newHistoryCmd(a))
	return rootCmd
}

// load resolves configuration and the logger for the command being run
func (a *app) load(cmd *cobra.Command, args []string) error {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.WKHTMLToPDFPath != "" {
		pdf.SetBinaryPath(cfg.WKHTMLToPDFPath)
	}
	a.logger = setupLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)

	if used := v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	switch cfg.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
