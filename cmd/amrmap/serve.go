package main

import (
	"context"
	"github.com/ougirez/amrmap/internal/api"
	"github.com/ougirez/amrmap/internal/pkg/logger"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		svc, err := api.NewAPIService(cfg, st)
		if err != nil {
			return err
		}

		go svc.Serve(cfg.Server.Addr)
		logger.Infof(ctx, "listening on %s", cfg.Server.Addr)

		<-ctx.Done()
		logger.Infof(context.Background(), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return svc.Shutdown(shutdownCtx)
	},
}
