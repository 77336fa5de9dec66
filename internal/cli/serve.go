package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
	"github.com/randalmurphal/rulekit/pkg/rulekit/server"
)

type ServeArgs struct {
	Root *RootArgs
	Addr string
}

func NewServeCmd(root *RootArgs) *cobra.Command {
	args := &ServeArgs{Root: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rule API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := root.Settings
			if cmd.Flags().Changed("addr") {
				settings.Addr = args.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tel, err := observability.Setup(ctx, settings)
			if err != nil {
				return fmt.Errorf("setup telemetry: %w", err)
			}
			defer func() {
				if err := tel.Shutdown(context.Background()); err != nil {
					slog.Error("telemetry shutdown failed", slog.String("error", err.Error()))
				}
			}()

			engine := root.NewEngine(
				rulekit.WithMetricsRecorder(tel.Metrics),
				rulekit.WithSpanManager(tel.Spans),
			)

			gin.SetMode(gin.ReleaseMode)
			srv := server.New(engine, settings, slog.Default(), server.WithMetricsHandler(tel.MetricsHandler))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&args.Addr, "addr", ":8080", "Listen address")

	return cmd
}
