package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "firerisk"

// Metrics holds the Prometheus collectors for the refresh loop.
type Metrics struct {
	RefreshTotal     *prometheus.CounterVec // labels: outcome
	RefreshDuration  prometheus.Histogram
	RowsAssessed     prometheus.Gauge
	CellsCoerced     prometheus.Counter
	CurrentRiskCode  prometheus.Gauge
	FeedFetchErrors  prometheus.Counter
	ModelArtifactsOK prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Refresh cycles by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-assess-store cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RowsAssessed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_assessed",
			Help:      "Number of feed rows classified in the last successful cycle.",
		}),
		CellsCoerced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_coerced_total",
			Help:      "Feature cells that could not be parsed and were replaced by zero.",
		}),
		CurrentRiskCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_risk_code",
			Help:      "Class code of the most recent reading (0=low .. 3=very high).",
		}),
		FeedFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetch_errors_total",
			Help:      "Failed feed downloads.",
		}),
		ModelArtifactsOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_artifacts_loaded",
			Help:      "1 once the scaler and classifier are loaded.",
		}),
	}
}

// NewMetrics creates the collectors and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RefreshTotal,
		m.RefreshDuration,
		m.RowsAssessed,
		m.CellsCoerced,
		m.CurrentRiskCode,
		m.FeedFetchErrors,
		m.ModelArtifactsOK,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
