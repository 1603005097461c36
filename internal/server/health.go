package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vanshika/knighttravails/internal/graph"
	"github.com/vanshika/knighttravails/internal/metrics"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// SeedChecker reports whether the persisted knight graph is complete.
type SeedChecker interface {
	EnsureSeeded(ctx context.Context) error
}

// GraphHealthService verifies graph connectivity and, when Seeds is set, that
// the board has been written to the database.
type GraphHealthService struct {
	Client graph.Client
	Seeds  SeedChecker
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return err
	}
	if s.Seeds != nil {
		return s.Seeds.EnsureSeeded(ctx)
	}
	return nil
}

// HealthMonitor re-runs a probe on a fixed interval while the server is up and
// serves the latest result from Probe, so /healthz does not hit the database
// on every request.
type HealthMonitor struct {
	probe    HealthService
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Collector

	mu      sync.RWMutex
	checked bool
	lastErr error
}

// NewHealthMonitor creates a monitor for probe. A non-positive interval
// defaults to 15 seconds.
func NewHealthMonitor(logger *slog.Logger, probe HealthService, interval time.Duration, collector *metrics.Collector) *HealthMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &HealthMonitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
		metrics:  collector,
	}
}

// Run probes immediately and then on every tick until ctx is cancelled.
func (m *HealthMonitor) Run(ctx context.Context) error {
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// Probe returns the result of the latest check. Before the first check
// completes it probes directly.
func (m *HealthMonitor) Probe(ctx context.Context) error {
	m.mu.RLock()
	checked, lastErr := m.checked, m.lastErr
	m.mu.RUnlock()
	if !checked {
		return m.probe.Probe(ctx)
	}
	return lastErr
}

func (m *HealthMonitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	err := m.probe.Probe(probeCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	wasHealthy := !m.checked || m.lastErr == nil
	m.checked = true
	m.lastErr = err
	m.mu.Unlock()

	m.metrics.SetGraphUp(err == nil)
	switch {
	case err != nil && wasHealthy:
		m.logger.Warn("graph health check failing", "error", err)
	case err == nil && !wasHealthy:
		m.logger.Info("graph health check recovered")
	}
}
