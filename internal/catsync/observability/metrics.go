// Package observability registers and serves Prometheus metrics for the sync
// engine.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SyncCollector bundles the engine's Prometheus metrics.
type SyncCollector struct {
	gatherer prometheus.Gatherer

	SyncRuns       *prometheus.CounterVec
	SyncInProgress prometheus.Gauge
	SourceRecords  *prometheus.CounterVec
	SourceDuration *prometheus.HistogramVec
	CatalogObjects prometheus.Gauge
}

// NewSyncCollector registers the engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registration is idempotent: already-registered collectors are reused.
func NewSyncCollector(reg prometheus.Registerer) (*SyncCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_runs_total",
		Help: "Total number of completed sync runs, labeled by result.",
	}, []string{"result"})
	runs, err := registerCounterVec(reg, runs, "catalog_sync_runs_total")
	if err != nil {
		return nil, err
	}

	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_source_records_total",
		Help: "Records processed per source, labeled by merge outcome.",
	}, []string{"source", "outcome"})
	records, err = registerCounterVec(reg, records, "catalog_source_records_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_source_sync_duration_seconds",
		Help:    "Wall-clock duration of one source's sync cycle.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"source", "result"})
	durations, err = registerHistogramVec(reg, durations, "catalog_source_sync_duration_seconds")
	if err != nil {
		return nil, err
	}

	inProgress, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_sync_in_progress",
		Help: "1 while a sync run is active, 0 otherwise.",
	}), "catalog_sync_in_progress")
	if err != nil {
		return nil, err
	}
	objects, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_objects_total",
		Help: "Current number of tracked catalog objects.",
	}), "catalog_objects_total")
	if err != nil {
		return nil, err
	}

	return &SyncCollector{
		gatherer:       gatherer,
		SyncRuns:       runs,
		SyncInProgress: inProgress,
		SourceRecords:  records,
		SourceDuration: durations,
		CatalogObjects: objects,
	}, nil
}

// RunStarted marks a sync run active.
func (c *SyncCollector) RunStarted() {
	if c == nil || c.SyncInProgress == nil {
		return
	}
	c.SyncInProgress.Set(1)
}

// RunFinished records the run result and clears the in-progress flag.
func (c *SyncCollector) RunFinished(succeeded bool) {
	if c == nil {
		return
	}
	if c.SyncInProgress != nil {
		c.SyncInProgress.Set(0)
	}
	if c.SyncRuns != nil {
		c.SyncRuns.WithLabelValues(resultLabel(succeeded)).Inc()
	}
}

// ObserveSource records one source's merge outcome counts and duration.
func (c *SyncCollector) ObserveSource(source string, inserted, updated, skipped, errs int, elapsed time.Duration, succeeded bool) {
	if c == nil {
		return
	}
	if c.SourceRecords != nil {
		c.SourceRecords.WithLabelValues(source, "inserted").Add(float64(inserted))
		c.SourceRecords.WithLabelValues(source, "updated").Add(float64(updated))
		c.SourceRecords.WithLabelValues(source, "skipped").Add(float64(skipped))
		c.SourceRecords.WithLabelValues(source, "errors").Add(float64(errs))
	}
	if c.SourceDuration != nil {
		c.SourceDuration.WithLabelValues(source, resultLabel(succeeded)).Observe(elapsed.Seconds())
	}
}

// SetCatalogSize updates the tracked-object gauge.
func (c *SyncCollector) SetCatalogSize(n int64) {
	if c == nil || c.CatalogObjects == nil {
		return
	}
	c.CatalogObjects.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SyncCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func resultLabel(succeeded bool) string {
	if succeeded {
		return "success"
	}
	return "failure"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
