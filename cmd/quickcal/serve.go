package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appLog "quickcal/internal/log"
	"quickcal/internal/web"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(root)
			if err != nil {
				return err
			}
			// --listen overrides config file listen if provided.
			if listen != "" {
				conf.Listen = listen
			}

			appLog.Info("effective config",
				"listen", conf.Listen,
				"log_level", conf.LogLevel,
				"default_duration", conf.DefaultDuration,
				"inverted_interval", conf.InvertedInterval,
				"qr_size", conf.QR.Size,
				"qr_rate_per_second", conf.QR.RatePerSecond,
				"basic_auth", conf.BasicAuth != nil,
			)

			// Root context with cancellation on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := web.StartServer(ctx, conf); err != nil {
				appLog.Error("http server stopped", err)
				return err
			}
			appLog.Info("quickcal exiting")
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}
