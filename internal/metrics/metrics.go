// Package metrics registers the Prometheus collectors exposed on /metrics
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "address_resolver_geocode_requests_total",
		Help: "Geocoding provider requests by operation",
	}, []string{"operation"})
	GeocodeFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "address_resolver_geocode_fail_total",
		Help: "Geocoding provider failures by operation",
	}, []string{"operation"})
	GeocodeDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "address_resolver_geocode_duration_ms",
		Help:    "Geocoding provider call duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000},
	}, []string{"operation"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "address_resolver_reverse_cache_hits_total",
		Help: "Reverse geocode results served from redis",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "address_resolver_reverse_cache_misses_total",
		Help: "Reverse geocode lookups not found in redis",
	})
	SelectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "address_resolver_selections_total",
		Help: "Forward place selections applied to a session",
	})
	SyncTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "address_resolver_reverse_sync_total",
		Help: "Reverse sync outcomes (reset, resolved, failed, invalid, superseded, unchanged)",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeFailTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(SelectionsTotal)
	prometheus.MustRegister(SyncTotal)
}

// Handler serves the registered collectors
func Handler() http.Handler { return promhttp.Handler() }
