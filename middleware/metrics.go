// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the store's metrics.
var Registry = prometheus.NewRegistry()

var (
	actionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "exam_intake",
			Name:      "store_actions_total",
			Help:      "Store actions handled, by action and reply status.",
		},
		[]string{"action", "status"},
	)
	actionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "exam_intake",
			Name:      "store_action_duration_seconds",
			Help:      "Time spent handling a store action.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action"},
	)
)

func init() {
	Registry.MustRegister(
		actionsTotal,
		actionDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveAction records one handled action.
func ObserveAction(action, status string, elapsed time.Duration) {
	actionsTotal.WithLabelValues(action, status).Inc()
	actionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ActionCount returns the counter for action and status. Used by tests.
func ActionCount(action, status string) prometheus.Counter {
	return actionsTotal.WithLabelValues(action, status)
}

// MetricsHandler serves Registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
