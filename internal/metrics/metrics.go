package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes recorded by ObserveSearch.
const (
	OutcomeFound   = "found"
	OutcomeNoPath  = "no_path"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

const defaultNamespace = "knight"

// Collector holds the Prometheus metrics of the service. Each Collector owns
// its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Searches       *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	PathMoves      prometheus.Histogram

	GraphUp prometheus.Gauge
}

// NewCollector creates and registers the metrics under namespace. An empty
// namespace defaults to "knight".
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "path_searches_total",
				Help:      "Shortest path searches by backend and outcome",
			},
			[]string{"backend", "outcome"},
		),
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "path_search_duration_seconds",
				Help:      "Shortest path search duration in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"backend"},
		),
		PathMoves: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "path_moves",
				Help:      "Number of knight moves in returned paths",
				Buckets:   prometheus.LinearBuckets(0, 1, 7),
			},
		),
		GraphUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "graph_up",
				Help:      "1 when the last graph database health check passed",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Searches,
		c.SearchDuration,
		c.PathMoves,
		c.GraphUp,
	)
	return c
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one search. moves is ignored unless outcome is
// OutcomeFound. Invalid input never reached a backend, so it is only counted.
func (c *Collector) ObserveSearch(backend, outcome string, moves int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Searches.WithLabelValues(backend, outcome).Inc()
	if outcome == OutcomeInvalid {
		return
	}
	c.SearchDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	if outcome == OutcomeFound {
		c.PathMoves.Observe(float64(moves))
	}
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SetGraphUp records the result of the latest graph health check.
func (c *Collector) SetGraphUp(up bool) {
	if c == nil {
		return
	}
	if up {
		c.GraphUp.Set(1)
		return
	}
	c.GraphUp.Set(0)
}
