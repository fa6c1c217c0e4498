package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/quoteboard/internal/config"
	"github.com/vango-dev/quoteboard/pkg/live"
	"github.com/vango-dev/quoteboard/pkg/telemetry"
	"github.com/vango-dev/quoteboard/pkg/widgets"
)

func serveCmd(dir *string) *cobra.Command {
	var (
		addr    string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live quote board",
		Long: `Start the live server.

Each browser connection gets its own set of widgets. Quotes come from
the configured API, or from a fixed demo set with --offline.

Examples:
  quoteboard serve
  quoteboard serve --addr=:8080
  quoteboard serve --offline`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*dir, addr, offline)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from quoteboard.json)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Serve demo quotes instead of calling the API")

	return cmd
}

func runServe(dir, addr string, offline bool) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cfg.NewLogger(os.Stderr)

	var telOpts []telemetry.Option
	tp, err := newTracerProvider(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Warn("tracer shutdown", "error", err)
			}
		}()
		telOpts = append(telOpts, telemetry.WithTracerProvider(tp))
	}

	a, err := newApp(cfg, logger, offline, telOpts...)
	if err != nil {
		return err
	}

	srv := live.NewServer(a.newHost, widgets.Dashboard,
		live.WithLogger(logger),
		live.WithTelemetry(a.tel),
	)

	success("quoteboard listening on http://%s", cfg.Addr)
	if p := cfg.Path(); p != "" {
		info("config: %s", p)
	}
	if tp != nil {
		info("exporting traces to %s", cfg.Tracing.Endpoint)
	}
	return srv.ListenAndServe(ctx, cfg.Addr)
}
