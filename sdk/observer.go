package sdk

import (
	"sync"
	"time"
)

// Observer receives operational events from the client: request lifecycle,
// retries, cooldown waits, and cache activity. Implementations must be safe
// for concurrent use and must not block; slow observers slow down requests.
//
// Use NoopObserver as an embedding base so new events do not break custom
// implementations.
type Observer interface {
	// OnRequestStart is called before a request is sent.
	OnRequestStart(method, path string)

	// OnRequestEnd is called after a request completes, successfully or not.
	OnRequestEnd(method, path string, duration time.Duration, err error)

	// OnRetryAttempt is called before each retry delay.
	OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error)

	// OnCooldownWait is called when an action is about to block on the
	// cooldown gate.
	OnCooldownWait(remaining time.Duration)

	// OnCacheRebuild is called after a category catalog has been swept and
	// persisted.
	OnCacheRebuild(category string, pages, records int, version string)

	// OnCacheHit is called when a repository lookup finds its record.
	OnCacheHit(category, key string)

	// OnCacheMiss is called when a repository lookup finds nothing.
	OnCacheMiss(category, key string)
}

// NoopObserver ignores all events. Embed it to implement only the events
// you care about:
//
//	type waitLogger struct{ sdk.NoopObserver }
//
//	func (waitLogger) OnCooldownWait(remaining time.Duration) {
//	    log.Printf("waiting %v for cooldown", remaining)
//	}
type NoopObserver struct{}

func (NoopObserver) OnRequestStart(method, path string)                          {}
func (NoopObserver) OnRequestEnd(method, path string, d time.Duration, e error)  {}
func (NoopObserver) OnRetryAttempt(m, p string, a int, d time.Duration, e error) {}
func (NoopObserver) OnCooldownWait(remaining time.Duration)                      {}
func (NoopObserver) OnCacheRebuild(category string, p, r int, version string)    {}
func (NoopObserver) OnCacheHit(category, key string)                             {}
func (NoopObserver) OnCacheMiss(category, key string)                            {}

// MetricsCollector is an in-memory Observer that aggregates counters and
// latency totals. Useful for tests and for callers that want numbers without
// a metrics backend.
type MetricsCollector struct {
	mu sync.Mutex

	requests      int64
	failures      int64
	retries       int64
	totalLatency  time.Duration
	cooldownWaits int64
	cooldownTotal time.Duration
	rebuilds      int64
	cacheHits     int64
	cacheMisses   int64
}

// NewMetricsCollector returns an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

func (m *MetricsCollector) OnRequestStart(method, path string) {}

func (m *MetricsCollector) OnRequestEnd(method, path string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	m.totalLatency += duration
	if err != nil {
		m.failures++
	}
}

func (m *MetricsCollector) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	m.mu.Lock()
	m.retries++
	m.mu.Unlock()
}

func (m *MetricsCollector) OnCooldownWait(remaining time.Duration) {
	m.mu.Lock()
	m.cooldownWaits++
	m.cooldownTotal += remaining
	m.mu.Unlock()
}

func (m *MetricsCollector) OnCacheRebuild(category string, pages, records int, version string) {
	m.mu.Lock()
	m.rebuilds++
	m.mu.Unlock()
}

func (m *MetricsCollector) OnCacheHit(category, key string) {
	m.mu.Lock()
	m.cacheHits++
	m.mu.Unlock()
}

func (m *MetricsCollector) OnCacheMiss(category, key string) {
	m.mu.Lock()
	m.cacheMisses++
	m.mu.Unlock()
}

// Metrics is a point-in-time snapshot of a MetricsCollector.
type Metrics struct {
	Requests         int64
	Failures         int64
	Retries          int64
	AverageLatency   time.Duration
	CooldownWaits    int64
	CooldownTotal    time.Duration
	CacheRebuilds    int64
	CacheHits        int64
	CacheMisses      int64
	CacheHitRate     float64
	SuccessRate      float64
}

// GetMetrics returns a snapshot of the collected metrics.
func (m *MetricsCollector) GetMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := Metrics{
		Requests:      m.requests,
		Failures:      m.failures,
		Retries:       m.retries,
		CooldownWaits: m.cooldownWaits,
		CooldownTotal: m.cooldownTotal,
		CacheRebuilds: m.rebuilds,
		CacheHits:     m.cacheHits,
		CacheMisses:   m.cacheMisses,
	}
	if m.requests > 0 {
		snapshot.AverageLatency = m.totalLatency / time.Duration(m.requests)
		snapshot.SuccessRate = float64(m.requests-m.failures) / float64(m.requests)
	}
	if lookups := m.cacheHits + m.cacheMisses; lookups > 0 {
		snapshot.CacheHitRate = float64(m.cacheHits) / float64(lookups)
	}
	return snapshot
}

// Reset clears all collected metrics.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	m.requests, m.failures, m.retries = 0, 0, 0
	m.totalLatency = 0
	m.cooldownWaits, m.cooldownTotal = 0, 0
	m.rebuilds, m.cacheHits, m.cacheMisses = 0, 0, 0
	m.mu.Unlock()
}
