package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felo/eml2pdf/internal/config"
	"github.com/felo/eml2pdf/internal/handlers"
	"github.com/felo/eml2pdf/web"
)

func newPreviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <input_directory>",
		Short: "Serve the HTML documents PDFs would be rendered from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}

			h := handlers.New(args[0])
			if err := h.LoadTemplates(web.Assets); err != nil {
				return fmt.Errorf("failed to load templates: %w", err)
			}

			srv := &http.Server{
				Addr:         a.cfg.Address(),
				Handler:      h.Routes(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: time.Minute,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting preview server", "url", a.cfg.URL(), "dir", args[0])
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("preview server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.logger.Info("shutting down preview server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown error: %w", err)
			}
			return nil
		},
	}

	config.RegisterPreviewFlags(cmd.Flags())
	return cmd
}
