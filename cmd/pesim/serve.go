package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/go-pe-sim/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dot-product HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			srv := server.New(activeCfg).
				WithShutdownTimeout(time.Duration(activeCfg.Server.ShutdownTimeout) * time.Second)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	return cmd
}
