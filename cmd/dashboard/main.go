package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/afrimarkets/dashboard/internal/api"
	"github.com/afrimarkets/dashboard/internal/config"
	"github.com/afrimarkets/dashboard/internal/market"
	"github.com/afrimarkets/dashboard/internal/probe"
	"github.com/afrimarkets/dashboard/internal/publish"
	"github.com/afrimarkets/dashboard/internal/server"
	"github.com/afrimarkets/dashboard/internal/stream"
	"github.com/afrimarkets/dashboard/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/dashboard.yaml", "path to config file")
	envFile := flag.String("env", ".env", "optional .env file loaded before the config")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Set up structured logging
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting dashboard",
		"version", version.String(),
		"config", *configPath,
	)

	if err := config.LoadEnv(*envFile); err != nil {
		logger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	baseURL := cfg.BaseURL()
	logger.Info("configuration loaded",
		"host", cfg.Instance.Host,
		"auto_refresh", cfg.Sync.AutoRefreshEnabled(),
	)

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, baseURL, logger); err != nil {
		logger.Error("dashboard failed", "error", err)
		os.Exit(1)
	}

	logger.Info("dashboard stopped")
}

func run(ctx context.Context, cfg *config.Config, baseURL string, logger *slog.Logger) error {
	// Create API client
	opts := []api.ClientOption{
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	}
	if cfg.API.Origin != "" {
		opts = append(opts, api.WithOrigin(cfg.API.Origin))
	}
	apiClient := api.NewClient(baseURL, opts...)
	logger.Info("market api", "url", apiClient.BaseURL(), "origin", cfg.API.Origin)

	prober := probe.New(probe.Config{
		Attempts:    cfg.Probe.Attempts,
		Timeout:     cfg.Probe.Timeout,
		BackoffStep: cfg.Probe.BackoffStep,
	}, apiClient, logger)

	syncer := market.New(market.Config{
		RefreshInterval: cfg.Sync.RefreshInterval,
		AutoRefresh:     cfg.Sync.AutoRefreshEnabled(),
	}, apiClient, prober, logger)

	hub := stream.NewHub(stream.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	serverOpts := []server.Option{server.WithStream(hub)}

	// Optional Redis publisher
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		publisher := publish.New(rdb, publish.Config{
			Key:     cfg.Redis.Key,
			Channel: cfg.Redis.Channel,
		}, logger)
		defer publisher.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := publisher.Ping(pingCtx)
		pingCancel()
		if err != nil {
			// Publishing is best effort; the dashboard still serves.
			logger.Warn("redis unreachable, snapshots will not be published until it recovers",
				"addr", cfg.Redis.Addr,
				"error", err,
			)
		} else {
			logger.Info("redis connected", "addr", cfg.Redis.Addr)
			logLatest(ctx, publisher, logger)
		}

		syncer.OnSnapshot(publisher)
		serverOpts = append(serverOpts, server.WithDependency("redis", publisher))
	}

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, syncer, logger, serverOpts...)

	if err := syncer.Start(ctx); err != nil {
		return fmt.Errorf("start synchronizer: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := syncer.Stop(shutdownCtx); err != nil {
			logger.Warn("synchronizer stop", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx, syncer.SubscribeChanges())
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})

	logger.Info("dashboard running",
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// logLatest reports the snapshot left in Redis by a previous run, which
// subscribers see until the first load of this one.
func logLatest(ctx context.Context, publisher *publish.Publisher, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := publisher.Latest(ctx)
	switch {
	case errors.Is(err, publish.ErrNoSnapshot):
		logger.Info("no published snapshot yet")
	case err != nil:
		logger.Warn("failed to read published snapshot", "error", err)
	default:
		logger.Info("previous snapshot still published",
			"snapshot", snap.ID,
			"source", snap.Source,
			"markets", len(snap.Records),
			"updated_at", snap.UpdatedAt,
		)
	}
}
