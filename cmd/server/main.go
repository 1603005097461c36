package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/config"
	"github.com/vanshika/knighttravails/internal/graph"
	"github.com/vanshika/knighttravails/internal/logging"
	"github.com/vanshika/knighttravails/internal/metrics"
	"github.com/vanshika/knighttravails/internal/repository"
	"github.com/vanshika/knighttravails/internal/server"
	"github.com/vanshika/knighttravails/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config) error {
	knightGraph := board.Build()
	logger.Info("knight graph built", "squares", len(knightGraph.Squares()), "moves", knightGraph.EdgeCount())

	var collector *metrics.Collector
	if cfg.HTTP.MetricsEnabled {
		collector = metrics.NewCollector("")
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(collector),
	}

	var monitor *server.HealthMonitor
	if cfg.Graph.Enabled() {
		graphClient, err := buildGraphClient(ctx, logger, cfg)
		if err != nil {
			return fmt.Errorf("create graph client: %w", err)
		}
		defer func() {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}()

		repo := repository.New(graphClient)
		probe := server.GraphHealthService{Client: graphClient}
		if cfg.Search.Backend == config.BackendNeo4j {
			if err := repo.EnsureSeeded(ctx); err != nil {
				return fmt.Errorf("neo4j backend: %w (run `knight seed` first)", err)
			}
			probe.Seeds = repo
			opts = append(opts, service.WithStore(repo))
		}
		monitor = server.NewHealthMonitor(logger, probe, cfg.HTTP.HealthInterval, collector)
	}

	pathService := service.NewPathService(knightGraph, opts...)
	logger.Info("path service ready", "backend", pathService.Backend())

	var health server.HealthService
	if monitor != nil {
		health = monitor
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           health,
		API:              server.NewAPIHandlers(logger, pathService),
		Metrics:          collector,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})
	srv := server.New(logger, cfg.HTTP, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if monitor != nil {
		g.Go(func() error {
			return monitor.Run(gctx)
		})
	}
	return g.Wait()
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
