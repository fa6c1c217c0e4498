package main

import (
	"log/slog"
	"time"

	"github.com/vango-dev/quoteboard/internal/config"
	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/quote"
	"github.com/vango-dev/quoteboard/pkg/telemetry"
	"github.com/vango-dev/quoteboard/pkg/widgets"
)

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	tel      *telemetry.Telemetry
	quotes   quote.Service
	registry *component.Registry
}

func newApp(cfg *config.Config, logger *slog.Logger, offline bool, telOpts ...telemetry.Option) (*app, error) {
	tel := telemetry.New(telOpts...)

	var svc quote.Service
	if offline || cfg.APIKey == "" {
		if !offline {
			logger.Warn("no API key configured, serving demo quotes", "env", config.EnvAPIKey)
		}
		svc = quote.Demo()
	} else {
		svc = quote.NewClient(cfg.APIKey,
			quote.WithBaseURL(cfg.BaseURL),
			quote.WithLogger(logger),
		)
	}
	if cfg.Cache.Size > 0 {
		svc = quote.NewCache(svc, cfg.Cache.Size, time.Duration(cfg.Cache.TTL))
	}
	svc = quote.Instrument(svc, tel)

	reg := component.NewRegistry()
	if err := widgets.Register(reg, widgets.Deps{
		Quotes:      svc,
		Logger:      logger,
		DrawerTitle: cfg.DrawerTitle,
	}); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, tel: tel, quotes: svc, registry: reg}, nil
}

func (a *app) newHost() *component.Host {
	return component.NewHost(
		component.WithRegistry(a.registry),
		component.WithLogger(a.logger),
		component.WithTelemetry(a.tel),
		component.WithAsyncTimeout(time.Duration(a.cfg.AsyncTimeout)),
		component.WithMaxQueue(a.cfg.MaxQueue),
	)
}
