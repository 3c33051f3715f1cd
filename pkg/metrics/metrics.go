// Package metrics records Prometheus metrics for materialized result
// operations.
//
// # Basic Usage
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector(reg)
//
//	timer := collector.StartTimer(metrics.OpExport)
//	rows, err := res.Export()
//	timer.Stop(err)
//
// A nil *Collector is valid and records nothing, so components can take an
// optional collector without checking for nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/matresult/pkg/errors"
)

const namespace = "matresult"

// Operation names used as the "operation" label
const (
	OpFetch      = "fetch"
	OpGetValue   = "get_value"
	OpToString   = "to_string"
	OpToBox      = "to_box"
	OpExport     = "export"
	OpTake       = "take_collection"
	OpRead       = "read"
	OpWrite      = "write"
	OpBuildIndex = "build_row_index"
)

// Collector groups the result metrics registered with one registerer
type Collector struct {
	operations  *prometheus.CounterVec
	failures    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	rowsFetched prometheus.Counter
	chunks      prometheus.Counter
	cells       prometheus.Counter
	indexBuilds prometheus.Counter
	bufferBytes prometheus.Gauge
	openResults prometheus.Gauge
}

// NewCollector creates the collectors and registers them with reg. A nil reg
// creates unregistered collectors. Registering twice with the same registerer
// panics, as with promauto.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Result operations by outcome",
		}, []string{"operation", "status"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed result operations by error type",
		}, []string{"operation", "type"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of result operations",
			Buckets: []float64{
				1e-6, // single cell lookups
				1e-5,
				1e-4, // chunk copies
				1e-3,
				1e-2, // row index builds, exports
				1e-1,
				1, // file reads and writes
			},
		}, []string{"operation"}),
		rowsFetched: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_fetched_total",
			Help:      "Rows returned by Fetch",
		}),
		chunks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_fetched_total",
			Help:      "Chunks returned by Fetch",
		}),
		cells: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_exported_total",
			Help:      "Cells converted by Export",
		}),
		indexBuilds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "row_index_builds_total",
			Help:      "Row indexes built for random access",
		}),
		bufferBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_bytes",
			Help:      "Arrow memory held by open results",
		}),
		openResults: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_results",
			Help:      "Results constructed and not yet closed",
		}),
	}
}

// Timer measures one operation
type Timer struct {
	c         *Collector
	operation string
	start     time.Time
}

// StartTimer starts timing operation
func (c *Collector) StartTimer(operation string) *Timer {
	return &Timer{c: c, operation: operation, start: time.Now()}
}

// Stop records the duration and the outcome of the operation
func (t *Timer) Stop(err error) time.Duration {
	d := time.Since(t.start)
	if t.c == nil {
		return d
	}
	status := "success"
	if err != nil {
		status = "error"
		typ := string(errors.TypeOf(err))
		if typ == "" {
			typ = "unknown"
		}
		t.c.failures.WithLabelValues(t.operation, typ).Inc()
	}
	t.c.operations.WithLabelValues(t.operation, status).Inc()
	t.c.latency.WithLabelValues(t.operation).Observe(d.Seconds())
	return d
}

// RecordChunk counts one fetched chunk of n rows
func (c *Collector) RecordChunk(n int) {
	if c == nil {
		return
	}
	c.chunks.Inc()
	c.rowsFetched.Add(float64(n))
}

// RecordExport counts exported cells
func (c *Collector) RecordExport(cells int) {
	if c == nil {
		return
	}
	c.cells.Add(float64(cells))
}

// RecordIndexBuild counts a row index build
func (c *Collector) RecordIndexBuild() {
	if c == nil {
		return
	}
	c.indexBuilds.Inc()
}

// ResultOpened tracks a new result holding bytes of arrow memory
func (c *Collector) ResultOpened(bytes int64) {
	if c == nil {
		return
	}
	c.openResults.Inc()
	c.bufferBytes.Add(float64(bytes))
}

// ResultReleased tracks a result giving up bytes of arrow memory. closed is
// false when only the buffer was handed to another owner.
func (c *Collector) ResultReleased(bytes int64, closed bool) {
	if c == nil {
		return
	}
	c.bufferBytes.Sub(float64(bytes))
	if closed {
		c.openResults.Dec()
	}
}
