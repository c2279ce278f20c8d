// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus instrumentation for the research
// platform. A dedicated registry is used so tests can create isolated
// instances.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the platform's collectors.
type Metrics struct {
	registry *prometheus.Registry

	TasksSubmitted *prometheus.CounterVec
	TasksFinished  *prometheus.CounterVec
	PhaseDuration  *prometheus.HistogramVec
	ActiveTasks    prometheus.Gauge
}

// New builds a Metrics with its own registry, including the standard
// Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		TasksSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "research_tasks_submitted_total",
			Help: "Research tasks accepted, by research type.",
		}, []string{"research_type"}),
		TasksFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "research_tasks_finished_total",
			Help: "Research tasks that reached a terminal status.",
		}, []string{"status"}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "research_phase_duration_seconds",
			Help:    "Wall-clock duration of individual research phases.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"phase", "outcome"}),
		ActiveTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "research_tasks_active",
			Help: "Tasks currently pending or running.",
		}),
	}

	reg.MustRegister(m.TasksSubmitted, m.TasksFinished, m.PhaseDuration, m.ActiveTasks)
	return m
}

// ObservePhase records one finished phase. Satisfies the workflow's
// phase observer.
func (m *Metrics) ObservePhase(phase, outcome string, d time.Duration) {
	m.PhaseDuration.WithLabelValues(phase, outcome).Observe(d.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
