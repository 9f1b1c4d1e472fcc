package sdk

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusObserver exports client activity as Prometheus metrics. Register
// it as the observer and expose the registry however the host application
// already does:
//
//	registry := prometheus.NewRegistry()
//	config := sdk.DefaultConfig().
//	    WithToken(token).
//	    WithCharacter(name).
//	    WithObserver(sdk.NewPrometheusObserver(registry))
type PrometheusObserver struct {
	NoopObserver

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	retryTotal      *prometheus.CounterVec
	cooldownSeconds prometheus.Counter
	cooldownWaits   prometheus.Counter
	cacheRebuilds   *prometheus.CounterVec
	cacheRecords    *prometheus.GaugeVec
	cacheLookups    *prometheus.CounterVec
}

// NewPrometheusObserver creates an observer registering its collectors with
// the given registerer. Pass prometheus.DefaultRegisterer to use the default
// registry.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	factory := promauto.With(reg)
	return &PrometheusObserver{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "artifacts",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "artifacts",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total API requests by method and outcome",
		}, []string{"method", "outcome"}),
		retryTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "artifacts",
			Subsystem: "client",
			Name:      "retries_total",
			Help:      "Total retry attempts by method",
		}, []string{"method"}),
		cooldownSeconds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "artifacts",
			Subsystem: "client",
			Name:      "cooldown_wait_seconds_total",
			Help:      "Total time spent waiting on the cooldown gate",
		}),
		cooldownWaits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "artifacts",
			Subsystem: "client",
			Name:      "cooldown_waits_total",
			Help:      "Total number of cooldown gate waits",
		}),
		cacheRebuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "artifacts",
			Subsystem: "cache",
			Name:      "rebuilds_total",
			Help:      "Catalog rebuilds by category",
		}, []string{"category"}),
		cacheRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "artifacts",
			Subsystem: "cache",
			Name:      "records",
			Help:      "Records held per cached category",
		}, []string{"category"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "artifacts",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by category and result",
		}, []string{"category", "result"}),
	}
}

func (p *PrometheusObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	p.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
	p.requestTotal.WithLabelValues(method, outcome).Inc()
}

func (p *PrometheusObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	p.retryTotal.WithLabelValues(method).Inc()
}

func (p *PrometheusObserver) OnCooldownWait(remaining time.Duration) {
	p.cooldownWaits.Inc()
	p.cooldownSeconds.Add(remaining.Seconds())
}

func (p *PrometheusObserver) OnCacheRebuild(category string, pages, records int, version string) {
	p.cacheRebuilds.WithLabelValues(category).Inc()
	p.cacheRecords.WithLabelValues(category).Set(float64(records))
}

func (p *PrometheusObserver) OnCacheHit(category, key string) {
	p.cacheLookups.WithLabelValues(category, "hit").Inc()
}

func (p *PrometheusObserver) OnCacheMiss(category, key string) {
	p.cacheLookups.WithLabelValues(category, "miss").Inc()
}
