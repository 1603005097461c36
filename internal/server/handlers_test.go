package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/domain"
	"github.com/vanshika/knighttravails/internal/graph"
	"github.com/vanshika/knighttravails/internal/logging"
	"github.com/vanshika/knighttravails/internal/metrics"
	"github.com/vanshika/knighttravails/internal/service"
)

type failingStore struct{}

func (failingStore) ShortestPath(context.Context, board.Square, board.Square) (domain.KnightPath, bool, error) {
	return domain.KnightPath{}, false, errors.New("database unavailable")
}

type seeded struct{ err error }

func (s seeded) EnsureSeeded(context.Context) error { return s.err }

func newTestRouter(t *testing.T, svc *service.PathService, deps RouterDependencies) http.Handler {
	t.Helper()
	logger := logging.Discard()
	if svc == nil {
		svc = service.NewPathService(nil)
	}
	deps.API = NewAPIHandlers(logger, svc)
	return NewRouter(logger, deps)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandlePath(t *testing.T) {
	router := newTestRouter(t, nil, RouterDependencies{})

	rec := do(t, router, http.MethodGet, "/path?from=d4&to=e4")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var payload pathResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "d4", payload.From)
	assert.Equal(t, "e4", payload.To)
	assert.Equal(t, 3, payload.Moves)
	assert.Equal(t, "memory", payload.Backend)

	names := make([]string, 0, len(payload.Squares))
	for _, sq := range payload.Squares {
		names = append(names, sq.Name)
	}
	assert.Equal(t, []string{"d4", "e6", "c5", "e4"}, names)
}

func TestHandlePath_CoordinatePairs(t *testing.T) {
	router := newTestRouter(t, nil, RouterDependencies{})

	rec := do(t, router, http.MethodGet, "/path?from=0,0&to=0,0")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload pathResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Zero(t, payload.Moves)
	require.Len(t, payload.Squares, 1)
	assert.Equal(t, squareResponse{Name: "a1"}, payload.Squares[0])
}

func TestHandlePath_BadRequest(t *testing.T) {
	router := newTestRouter(t, nil, RouterDependencies{})

	cases := map[string]string{
		"/path?to=e4":             "from is required",
		"/path?from=-1,0&to=e4":   "from must be a board square",
		"/path?from=a1&to=8,8":    "to must be a board square",
		"/path?from=zz&to=banana": "from must be a board square",
	}
	for target, want := range cases {
		rec := do(t, router, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], want, target)
	}
}

func TestHandlePath_BackendError(t *testing.T) {
	svc := service.NewPathService(nil, service.WithStore(failingStore{}))
	router := newTestRouter(t, svc, RouterDependencies{})

	rec := do(t, router, http.MethodGet, "/path?from=a1&to=h8")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleSquareMoves(t *testing.T) {
	router := newTestRouter(t, nil, RouterDependencies{})

	rec := do(t, router, http.MethodGet, "/squares/a1/moves")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload squareMovesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "a1", payload.Square.Name)
	require.Len(t, payload.Moves, 2)
	assert.Equal(t, "b3", payload.Moves[0].Name)
	assert.Equal(t, "c2", payload.Moves[1].Name)

	rec = do(t, router, http.MethodGet, "/squares/j9/moves")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil, RouterDependencies{})

	rec := do(t, router, http.MethodPost, "/path?from=a1&to=b3")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil, RouterDependencies{
		Health: GraphHealthService{Client: graph.NewMemoryClient()},
	})
	rec := do(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	router = newTestRouter(t, nil, RouterDependencies{
		Health: GraphHealthService{
			Client: graph.NewMemoryClient(),
			Seeds:  seeded{err: errors.New("knight graph has not been seeded")},
		},
	})
	rec = do(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")

	router = newTestRouter(t, nil, RouterDependencies{
		Health: GraphHealthService{Client: graph.NewMemoryClient().WithConnectivityError(errors.New("refused"))},
	})
	rec = do(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.NewCollector("")
	svc := service.NewPathService(nil, service.WithMetrics(collector))
	router := newTestRouter(t, svc, RouterDependencies{Metrics: collector})

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/path?from=a1&to=h8").Code)

	rec := do(t, router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `knight_path_searches_total{backend="memory",outcome="found"} 1`)
	assert.Contains(t, body, `knight_http_requests_total{method="GET",route="/path",status="200"} 1`)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, nil, RouterDependencies{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/path", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/path", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
