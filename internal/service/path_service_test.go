package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/config"
	"github.com/vanshika/knighttravails/internal/domain"
	"github.com/vanshika/knighttravails/internal/metrics"
)

type stubStore struct {
	path  domain.KnightPath
	found bool
	err   error
	calls int
}

func (s *stubStore) ShortestPath(ctx context.Context, from, to board.Square) (domain.KnightPath, bool, error) {
	s.calls++
	if s.err != nil {
		return domain.KnightPath{}, false, s.err
	}
	return s.path, s.found, nil
}

func TestPathService_FindPathInMemory(t *testing.T) {
	collector := metrics.NewCollector("")
	svc := NewPathService(nil, WithMetrics(collector))

	path, err := svc.FindPath(context.Background(), board.Square{File: 3, Rank: 3}, board.Square{File: 4, Rank: 3})
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, path.Backend)
	assert.Equal(t, 3, path.Moves)
	assert.Equal(t, "d4 -> e6 -> c5 -> e4", FormatPath(path.Squares))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Searches.WithLabelValues(config.BackendMemory, metrics.OutcomeFound)))
}

func TestPathService_FindPathByName(t *testing.T) {
	svc := NewPathService(board.Build())

	path, err := svc.FindPathByName(context.Background(), "a1", "h8")
	require.NoError(t, err)
	assert.Equal(t, 6, path.Moves)
	assert.Equal(t, board.Square{}, path.From)
	assert.Equal(t, board.Square{File: 7, Rank: 7}, path.To)

	_, err = svc.FindPathByName(context.Background(), "a1", "i9")
	assert.ErrorIs(t, err, ErrInvalidSquare)

	_, err = svc.FindPathByName(context.Background(), "", "a1")
	assert.ErrorIs(t, err, ErrInvalidSquare)
}

func TestPathService_InvalidInputSkipsLatency(t *testing.T) {
	collector := metrics.NewCollector("")
	svc := NewPathService(nil, WithMetrics(collector))

	_, err := svc.FindPathByName(context.Background(), "z9", "a1")
	require.ErrorIs(t, err, ErrInvalidSquare)
	_, err = svc.FindPathByName(context.Background(), "a1", "")
	require.ErrorIs(t, err, ErrInvalidSquare)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Searches.WithLabelValues(config.BackendMemory, metrics.OutcomeInvalid)))
	assert.Zero(t, testutil.CollectAndCount(collector.SearchDuration))
}

func TestPathService_OffBoardIsNoPath(t *testing.T) {
	collector := metrics.NewCollector("")
	svc := NewPathService(nil, WithMetrics(collector))

	_, err := svc.FindPath(context.Background(), board.Square{File: -1}, board.Square{File: 4, Rank: 4})
	assert.ErrorIs(t, err, ErrNoPath)

	_, err = svc.FindPath(context.Background(), board.Square{}, board.Square{File: 8, Rank: 8})
	assert.ErrorIs(t, err, ErrNoPath)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Searches.WithLabelValues(config.BackendMemory, metrics.OutcomeNoPath)))
}

func TestPathService_UsesStore(t *testing.T) {
	store := &stubStore{
		found: true,
		path: domain.KnightPath{
			Squares: []board.Square{{File: 0, Rank: 0}, {File: 1, Rank: 2}},
			Moves:   1,
		},
	}
	ticks := []time.Time{time.Unix(0, 0), time.Unix(0, int64(time.Millisecond))}
	svc := NewPathService(nil, WithStore(store), WithClock(func() time.Time {
		now := ticks[0]
		ticks = ticks[1:]
		return now
	}))

	require.Equal(t, config.BackendNeo4j, svc.Backend())

	path, err := svc.FindPath(context.Background(), board.Square{}, board.Square{File: 1, Rank: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, config.BackendNeo4j, path.Backend)
	assert.Equal(t, 1, path.Moves)
}

func TestPathService_StoreErrors(t *testing.T) {
	boom := errors.New("bolt connection reset")
	svc := NewPathService(nil, WithStore(&stubStore{err: boom}))

	_, err := svc.FindPath(context.Background(), board.Square{}, board.Square{File: 7, Rank: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoPath)

	svc = NewPathService(nil, WithStore(&stubStore{}))
	_, err = svc.FindPath(context.Background(), board.Square{}, board.Square{File: 7, Rank: 7})
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestPathService_NilStoreKeepsMemoryBackend(t *testing.T) {
	svc := NewPathService(nil, WithStore(nil))
	assert.Equal(t, config.BackendMemory, svc.Backend())
}

func TestPathService_MovesFrom(t *testing.T) {
	svc := NewPathService(nil)

	moves, err := svc.MovesFrom("a1")
	require.NoError(t, err)
	assert.Equal(t, []board.Square{{File: 1, Rank: 2}, {File: 2, Rank: 1}}, moves.Moves)

	_, err = svc.MovesFrom("z0")
	assert.ErrorIs(t, err, ErrInvalidSquare)
}
