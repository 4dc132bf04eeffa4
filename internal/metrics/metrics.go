// Package metrics defines Prometheus metrics for costar.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	GraphVertices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "costar_graph_vertices",
			Help: "Number of actors in the loaded graph",
		},
	)

	GraphEdges = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "costar_graph_edges",
			Help: "Number of co-star pairs in the loaded graph",
		},
	)

	BuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "costar_graph_build_duration_seconds",
			Help:    "Time spent building the graph from relation data",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "costar_bfs_duration_seconds",
			Help:    "Time spent computing a shortest-path tree",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costar_queries_total",
			Help: "Total queries by kind",
		},
		[]string{"kind"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "costar_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costar_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costar_errors_total",
			Help: "Total API errors by code",
		},
		[]string{"code"},
	)
)

func init() {
	prometheus.MustRegister(
		GraphVertices, GraphEdges,
		BuildDuration, SearchDuration, QueriesTotal,
		RequestDuration, RequestsTotal, ErrorsTotal,
	)
}

// WriteTextfile dumps every registered metric to path in the text exposition
// format, for collection by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
