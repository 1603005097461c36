package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/config"
	"github.com/vanshika/knighttravails/internal/domain"
	"github.com/vanshika/knighttravails/internal/metrics"
	"github.com/vanshika/knighttravails/internal/search"
)

var (
	// ErrNoPath means the squares are not connected, or one of them is not on the board.
	ErrNoPath = errors.New("no knight path")
	// ErrInvalidSquare wraps unparsable or off-board input.
	ErrInvalidSquare = board.ErrInvalidSquare
)

// PathStore answers shortest path queries from persistent storage.
type PathStore interface {
	ShortestPath(ctx context.Context, from, to board.Square) (domain.KnightPath, bool, error)
}

// PathService resolves knight routes either in memory or through a PathStore.
type PathService struct {
	graph   *board.Graph
	store   PathStore
	backend string
	metrics *metrics.Collector
	logger  *slog.Logger
	nowFn   func() time.Time
}

// Option customises a PathService.
type Option func(*PathService)

// WithStore routes searches to store instead of the in-memory graph.
func WithStore(store PathStore) Option {
	return func(s *PathService) {
		if store != nil {
			s.store = store
			s.backend = config.BackendNeo4j
		}
	}
}

// WithMetrics records every search on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *PathService) {
		s.metrics = c
	}
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *PathService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time provider (used primarily in tests).
func WithClock(nowFn func() time.Time) Option {
	return func(s *PathService) {
		if nowFn != nil {
			s.nowFn = nowFn
		}
	}
}

// NewPathService builds a service over g. A nil g is replaced by a freshly
// built board.
func NewPathService(g *board.Graph, opts ...Option) *PathService {
	if g == nil {
		g = board.Build()
	}
	s := &PathService{
		graph:   g,
		backend: config.BackendMemory,
		logger:  slog.New(slog.DiscardHandler),
		nowFn:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend names the search backend in use.
func (s *PathService) Backend() string {
	return s.backend
}

// FindPathByName parses both squares and delegates to FindPath.
func (s *PathService) FindPathByName(ctx context.Context, from, to string) (domain.KnightPath, error) {
	start, err := board.ParseSquare(from)
	if err != nil {
		s.metrics.ObserveSearch(s.backend, metrics.OutcomeInvalid, 0, 0)
		return domain.KnightPath{}, fmt.Errorf("from: %w", err)
	}
	end, err := board.ParseSquare(to)
	if err != nil {
		s.metrics.ObserveSearch(s.backend, metrics.OutcomeInvalid, 0, 0)
		return domain.KnightPath{}, fmt.Errorf("to: %w", err)
	}
	return s.FindPath(ctx, start, end)
}

// FindPath returns a shortest knight route. Off-board squares and disconnected
// pairs both yield ErrNoPath.
func (s *PathService) FindPath(ctx context.Context, from, to board.Square) (domain.KnightPath, error) {
	started := s.nowFn()

	var (
		path domain.KnightPath
		ok   bool
		err  error
	)
	if s.store != nil {
		path, ok, err = s.store.ShortestPath(ctx, from, to)
	} else {
		path, ok = s.findInMemory(from, to)
	}
	elapsed := s.nowFn().Sub(started)

	switch {
	case err != nil:
		s.metrics.ObserveSearch(s.backend, metrics.OutcomeError, 0, elapsed)
		return domain.KnightPath{}, fmt.Errorf("find path %s -> %s: %w", from, to, err)
	case !ok:
		s.metrics.ObserveSearch(s.backend, metrics.OutcomeNoPath, 0, elapsed)
		s.logger.Debug("no knight path", "from", from.String(), "to", to.String(), "backend", s.backend)
		return domain.KnightPath{}, fmt.Errorf("%w from %s to %s", ErrNoPath, from, to)
	}

	path.Backend = s.backend
	s.metrics.ObserveSearch(s.backend, metrics.OutcomeFound, path.Moves, elapsed)
	s.logger.Debug("knight path found",
		"from", from.String(),
		"to", to.String(),
		"moves", path.Moves,
		"backend", s.backend,
		"duration", elapsed.String(),
	)
	return path, nil
}

func (s *PathService) findInMemory(from, to board.Square) (domain.KnightPath, bool) {
	route, ok := search.FindShortestPath(s.graph, from, to)
	if !ok {
		return domain.KnightPath{}, false
	}
	return domain.KnightPath{
		From:    from,
		To:      to,
		Squares: []board.Square(route),
		Moves:   route.Moves(),
	}, true
}

// MovesFrom lists the knight moves available from a square given by name.
func (s *PathService) MovesFrom(name string) (domain.SquareMoves, error) {
	sq, err := board.ParseSquare(name)
	if err != nil {
		return domain.SquareMoves{}, err
	}
	adj, ok := s.graph.Neighbors(sq)
	if !ok {
		return domain.SquareMoves{}, fmt.Errorf("%w: %s", ErrInvalidSquare, sq)
	}
	return domain.SquareMoves{Square: sq, Moves: adj}, nil
}

// FormatPath renders squares as "d4 -> e6 -> c5 -> e4".
func FormatPath(squares []board.Square) string {
	names := make([]string, len(squares))
	for i, sq := range squares {
		names[i] = sq.String()
	}
	return strings.Join(names, " -> ")
}
