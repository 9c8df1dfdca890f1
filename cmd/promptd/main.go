package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"promptd/internal/app"
	"promptd/internal/domain"
	"promptd/internal/infra/config"
	"promptd/internal/infra/gateway"
	"promptd/internal/infra/storage"
	"promptd/internal/infra/telemetry"
)

type serveOptions struct {
	configPath          string
	catalogURL          string
	cacheTTLSeconds     int
	fetchTimeoutSeconds int
	registrySyncSeconds int
	transport           string
	httpAddr            string
	httpPath            string
	observabilityAddr   string
	logger              *zap.Logger
}

func main() {
	opts := serveOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "promptd",
		Short: "MCP server exposing a remote prompt catalog as tools and resources",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg := zap.NewProductionConfig()
			log, err := cfg.Build()
			if err != nil {
				return err
			}
			opts.logger = log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()
			return runServe(ctx, cmd.Flags(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the yaml config file (optional)")
	root.PersistentFlags().StringVar(&opts.catalogURL, "catalog-url", "", "prompt storage listing endpoint")
	root.PersistentFlags().IntVar(&opts.cacheTTLSeconds, "cache-ttl", 0, "catalog cache TTL in seconds")
	root.PersistentFlags().IntVar(&opts.fetchTimeoutSeconds, "fetch-timeout", 0, "upstream request timeout in seconds")
	root.PersistentFlags().IntVar(&opts.registrySyncSeconds, "registry-sync", 0, "dynamic tool registry sync interval in seconds")
	root.PersistentFlags().StringVar(&opts.transport, "transport", "", "serving transport (stdio or http)")
	root.PersistentFlags().StringVar(&opts.httpAddr, "http-addr", "", "streamable HTTP listen address")
	root.PersistentFlags().StringVar(&opts.httpPath, "http-path", "", "streamable HTTP endpoint path")
	root.PersistentFlags().StringVar(&opts.observabilityAddr, "observability-addr", "", "metrics and healthz listen address")

	if err := root.Execute(); err != nil {
		opts.logger.Fatal("command failed", zap.Error(err))
	}
}

func runServe(ctx context.Context, flags *pflag.FlagSet, opts serveOptions) error {
	logger := opts.logger

	loader := config.NewLoader(logger)
	cfg, err := loader.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(flags, opts, &cfg)

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewPrometheusMetrics(registry)

	client := storage.NewClient(storage.Config{
		CatalogURL: cfg.CatalogURL,
		Timeout:    cfg.FetchTimeout,
	}, metrics, logger)

	cache := domain.NewCatalogCache(cfg.CacheTTL)
	library := app.NewLibrary(client, cache, metrics, logger)

	health := telemetry.NewHealthTracker()
	beat := health.Register("catalog-sync", 2*cfg.RegistrySync)

	gw := gateway.NewGateway(gateway.Options{
		Library:      library,
		Logger:       logger,
		Metrics:      metrics,
		SyncInterval: cfg.RegistrySync,
		Heartbeat:    beat,
	})

	go func() {
		err := telemetry.StartHTTPServer(ctx, telemetry.HTTPServerOptions{
			Addr:          cfg.Observability.ListenAddress,
			EnableMetrics: cfg.Observability.EnableMetrics,
			EnableHealthz: cfg.Observability.EnableHealthz,
			Health:        health,
			Registry:      registry,
		}, logger)
		if err != nil {
			logger.Warn("observability server exited", zap.Error(err))
		}
	}()

	// Hot reload adjusts the TTL and upstream endpoint without a restart;
	// transport changes still require one.
	currentURL := cfg.CatalogURL
	watcher := config.NewWatcher(loader, opts.configPath, func(next config.Config) {
		cache.SetTTL(next.CacheTTL)
		if next.CatalogURL != currentURL {
			client.SetCatalogURL(next.CatalogURL)
			cache.Invalidate()
			currentURL = next.CatalogURL
		}
	}, logger)
	go watcher.Run(ctx)

	logger.Info("promptd starting",
		zap.String("catalog_url", cfg.CatalogURL),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("registry_sync", cfg.RegistrySync),
		zap.String("transport", cfg.Transport),
		zap.Strings("tools", gw.StaticTools()),
	)

	switch cfg.Transport {
	case config.TransportStdio:
		err = gw.Run(ctx)
	case config.TransportStreamableHTTP:
		err = gw.RunStreamableHTTP(ctx, cfg.HTTP.ListenAddress, cfg.HTTP.Path)
	default:
		return fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// applyFlagOverrides lets explicitly set flags win over file and env
// values.
func applyFlagOverrides(flags *pflag.FlagSet, opts serveOptions, cfg *config.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "catalog-url":
			cfg.CatalogURL = opts.catalogURL
		case "cache-ttl":
			cfg.CacheTTL = time.Duration(opts.cacheTTLSeconds) * time.Second
		case "fetch-timeout":
			cfg.FetchTimeout = time.Duration(opts.fetchTimeoutSeconds) * time.Second
		case "registry-sync":
			cfg.RegistrySync = time.Duration(opts.registrySyncSeconds) * time.Second
		case "transport":
			cfg.Transport = opts.transport
		case "http-addr":
			cfg.HTTP.ListenAddress = opts.httpAddr
		case "http-path":
			cfg.HTTP.Path = opts.httpPath
		case "observability-addr":
			cfg.Observability.ListenAddress = opts.observabilityAddr
		}
	})
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
