package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the page server",
		Long:  "Start an HTTP server that renders the job board's pages and forwards each browser session to the backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			// Shared between browser sessions, so it must not keep cookies.
			client, err := api.New(api.Config{
				BaseURL: a.cfg.BackendURL,
				Timeout: a.cfg.RequestTimeout.Std(),
				Jar:     api.DiscardJar{},
			})
			if err != nil {
				return err
			}
			srv, err := server.New(a.cfg, client)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
