// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package server

import (
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxapi "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "zyntalic"
	metricsSubsystem = "server"
)

// Metrics holds the Prometheus instruments for the translation API.
//
// # Thread Safety
//
// All operations are safe; Prometheus handles its own locking.
type Metrics struct {
	// TranslationsTotal counts translation requests.
	// Labels: engine (core, chiasmus, transformer), status (success,
	// error).
	TranslationsTotal *prometheus.CounterVec

	// TranslationSeconds measures end-to-end synthesis latency.
	// Labels: engine.
	TranslationSeconds *prometheus.HistogramVec

	// CacheHitsTotal and CacheMissesTotal track translation cache
	// effectiveness.
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// ActiveWebsockets tracks open streaming connections.
	ActiveWebsockets prometheus.Gauge

	// IngestedChunksTotal counts corpus chunks stored.
	IngestedChunksTotal prometheus.Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// InitMetrics creates and registers the metric set once per process.
// Repeated calls return the same instance, so tests can construct many
// servers without tripping duplicate registration.
func InitMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			TranslationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "translations_total",
				Help:      "Translation requests by engine and status.",
			}, []string{"engine", "status"}),
			TranslationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "translation_seconds",
				Help:      "Translation latency by engine.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"engine"}),
			CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "cache_hits_total",
				Help:      "Translation cache hits.",
			}),
			CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "cache_misses_total",
				Help:      "Translation cache misses.",
			}),
			ActiveWebsockets: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "active_websockets",
				Help:      "Open streaming translation connections.",
			}),
			IngestedChunksTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "ingested_chunks_total",
				Help:      "Corpus chunks stored.",
			}),
		}
	})
	return metricsInstance
}

// observeTranslation records one translation outcome on whatever
// instruments are configured. Either sink may be nil.
func (s *service) observeTranslation(engine string, err error, cached bool, dur time.Duration, records int) {
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		s.metrics.TranslationsTotal.WithLabelValues(engine, status).Inc()
		if err == nil {
			s.metrics.TranslationSeconds.WithLabelValues(engine).Observe(dur.Seconds())
			if cached {
				s.metrics.CacheHitsTotal.Inc()
			} else {
				s.metrics.CacheMissesTotal.Inc()
			}
		}
	}
	if s.influx != nil && err == nil {
		s.influx.RecordTranslation(engine, cached, dur, records)
	}
}

// InfluxSink forwards translation timings to InfluxDB using the
// non-blocking write API; losing points under backpressure is fine for
// a timing feed.
type InfluxSink struct {
	client influxdb2.Client
	write  influxapi.WriteAPI
}

// NewInfluxSink connects the sink. The client buffers internally and
// flushes in the background.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClient(url, token)
	return &InfluxSink{
		client: client,
		write:  client.WriteAPI(org, bucket),
	}
}

// RecordTranslation writes one translation timing point.
func (s *InfluxSink) RecordTranslation(engine string, cached bool, dur time.Duration, records int) {
	p := influxdb2.NewPoint("translation",
		map[string]string{"engine": engine},
		map[string]interface{}{
			"duration_ms": dur.Milliseconds(),
			"records":     records,
			"cached":      cached,
		},
		time.Now())
	s.write.WritePoint(p)
}

// Close flushes buffered points and releases the client.
func (s *InfluxSink) Close() {
	s.write.Flush()
	s.client.Close()
}
