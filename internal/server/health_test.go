package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/knighttravails/internal/graph"
	"github.com/vanshika/knighttravails/internal/logging"
	"github.com/vanshika/knighttravails/internal/metrics"
)

type switchableProbe struct {
	mu    sync.Mutex
	err   error
	calls atomic.Int32
}

func (p *switchableProbe) Probe(context.Context) error {
	p.calls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *switchableProbe) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func TestHealthMonitor_RunTracksProbe(t *testing.T) {
	probe := &switchableProbe{}
	collector := metrics.NewCollector("")
	monitor := NewHealthMonitor(logging.Discard(), probe, 5*time.Millisecond, collector)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()

	require.Eventually(t, func() bool { return probe.calls.Load() >= 2 }, time.Second, time.Millisecond)
	assert.NoError(t, monitor.Probe(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.GraphUp))

	probe.set(errors.New("refused"))
	require.Eventually(t, func() bool { return monitor.Probe(context.Background()) != nil }, time.Second, time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.GraphUp))

	probe.set(nil)
	require.Eventually(t, func() bool { return monitor.Probe(context.Background()) == nil }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop after context cancellation")
	}
}

func TestHealthMonitor_ProbesDirectlyBeforeFirstCheck(t *testing.T) {
	probe := &switchableProbe{err: errors.New("not yet")}
	monitor := NewHealthMonitor(logging.Discard(), probe, time.Hour, nil)

	assert.EqualError(t, monitor.Probe(context.Background()), "not yet")
	assert.EqualValues(t, 1, probe.calls.Load())
}

func TestHealthMonitor_ServesCachedResult(t *testing.T) {
	client := graph.NewMemoryClient().WithConnectivityError(errors.New("refused"))
	monitor := NewHealthMonitor(logging.Discard(), GraphHealthService{Client: client}, time.Hour, nil)
	monitor.check(context.Background())

	router := newTestRouter(t, nil, RouterDependencies{Health: monitor})

	rec := do(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec = do(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "refused")
}
