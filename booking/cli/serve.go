package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/ruelucas/booking-service/booking/app"
	"github.com/ruelucas/booking-service/booking/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Start the HTTP API and block until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig(
				config.WithLogLevel(zapcore.DebugLevel),
				config.WithWriteTimeout(time.Minute),
			)
			return app.Run(cfg)
		},
	}
}
