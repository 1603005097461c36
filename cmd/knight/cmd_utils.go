package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/config"
	"github.com/vanshika/knighttravails/internal/graph"
	"github.com/vanshika/knighttravails/internal/logging"
	"github.com/vanshika/knighttravails/internal/repository"
	"github.com/vanshika/knighttravails/internal/service"
)

// newPathServiceFor builds a PathService for the named backend. The returned
// cleanup must be called once the service is no longer used.
func newPathServiceFor(ctx context.Context, backend string) (*service.PathService, func(), error) {
	switch backend {
	case config.BackendMemory, "":
		return service.NewPathService(board.Build()), func() {}, nil
	case config.BackendNeo4j:
		repo, logger, closeFn, err := openRepository(ctx)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureSeeded(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("%w (run `knight seed` first)", err)
		}
		svc := service.NewPathService(board.Build(), service.WithStore(repo), service.WithLogger(logger))
		return svc, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend %q", backend)
	}
}

// defaultBackend is the backend named by PATH_BACKEND, so the CLI and the
// server agree when they share an environment. Invalid configuration falls
// back to memory; an explicit --backend still reports the problem.
func defaultBackend() string {
	cfg, err := config.Load()
	if err != nil {
		return config.BackendMemory
	}
	return cfg.Search.Backend
}

// openRepository connects to the Neo4j database named by GRAPH_URI.
func openRepository(ctx context.Context) (*repository.Repository, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if !cfg.Graph.Enabled() {
		return nil, nil, nil, fmt.Errorf("GRAPH_URI is required for the neo4j backend: %w", graph.ErrMissingURI)
	}

	logger := logging.New(cfg.Logging).With("component", "cli")
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)

	closeFn := func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}
	return repository.New(client), logger, closeFn, nil
}

// contextWithTimeout bounds the command's context. A zero timeout only adds
// cancellation.
func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
