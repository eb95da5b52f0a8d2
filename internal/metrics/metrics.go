// Package metrics holds the Prometheus collectors of the service. They are
// registered on the default registry through promauto.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviegraph_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures handler latency, queueing included.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviegraph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"method", "path"},
	)

	// InFlightRequests is the number of admitted requests being handled.
	InFlightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviegraph_inflight_requests",
			Help: "Requests currently admitted past the concurrency limit",
		},
	)

	// QueuedRequests is the number of requests waiting for admission.
	QueuedRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviegraph_queued_requests",
			Help: "Requests waiting for a concurrency slot",
		},
	)

	// SubgraphNodes and SubgraphLinks track response sizes per traversal mode.
	SubgraphNodes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviegraph_subgraph_nodes",
			Help:    "Number of nodes in assembled subgraphs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		},
		[]string{"mode"},
	)

	SubgraphLinks = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviegraph_subgraph_links",
			Help:    "Number of links in assembled subgraphs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		},
		[]string{"mode"},
	)

	// TraversalDuration measures store round trips plus assembly.
	TraversalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviegraph_traversal_duration_seconds",
			Help:    "Duration of subgraph traversals in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// StoreErrors counts failed store operations by operation name.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviegraph_store_errors_total",
			Help: "Total number of failed graph store operations",
		},
		[]string{"operation"},
	)
)

// ObserveSubgraph records the size and duration of one assembled subgraph.
func ObserveSubgraph(mode string, nodes, links int, elapsed time.Duration) {
	SubgraphNodes.WithLabelValues(mode).Observe(float64(nodes))
	SubgraphLinks.WithLabelValues(mode).Observe(float64(links))
	TraversalDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}
