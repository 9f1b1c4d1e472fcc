package sdk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollectorAggregates(t *testing.T) {
	collector := NewMetricsCollector()

	collector.OnRequestEnd("GET", "items", 100*time.Millisecond, nil)
	collector.OnRequestEnd("POST", "my/Birb/action/move", 200*time.Millisecond, nil)
	collector.OnRequestEnd("POST", "my/Birb/action/fight", 300*time.Millisecond, errors.New("boom"))
	collector.OnRetryAttempt("POST", "my/Birb/action/fight", 1, time.Millisecond, errors.New("boom"))
	collector.OnCooldownWait(2 * time.Second)
	collector.OnCacheRebuild("monsters", 3, 250, "v1.0")
	collector.OnCacheHit("monsters", "chicken")
	collector.OnCacheHit("monsters", "cow")
	collector.OnCacheMiss("monsters", "dragon")

	m := collector.GetMetrics()
	assert.Equal(t, int64(3), m.Requests)
	assert.Equal(t, int64(1), m.Failures)
	assert.Equal(t, int64(1), m.Retries)
	assert.Equal(t, 200*time.Millisecond, m.AverageLatency)
	assert.Equal(t, int64(1), m.CooldownWaits)
	assert.Equal(t, 2*time.Second, m.CooldownTotal)
	assert.Equal(t, int64(1), m.CacheRebuilds)
	assert.InDelta(t, 2.0/3.0, m.CacheHitRate, 0.001)
	assert.InDelta(t, 2.0/3.0, m.SuccessRate, 0.001)
}

func TestMetricsCollectorReset(t *testing.T) {
	collector := NewMetricsCollector()
	collector.OnRequestEnd("GET", "items", time.Millisecond, nil)
	collector.Reset()

	m := collector.GetMetrics()
	assert.Equal(t, int64(0), m.Requests)
	assert.Equal(t, time.Duration(0), m.AverageLatency)
}

func TestObserverReceivesPipelineEvents(t *testing.T) {
	server := newGameServer(t)
	server.setCatalog("monsters", testMonsters()...)
	server.actionFailures["fight"] = 1

	collector := NewMetricsCollector()
	config := DefaultConfig().
		WithBaseURL(server.srv.URL).
		WithToken("test-token").
		WithCharacter("Testbirb").
		WithCachePath(t.TempDir() + "/cache.db").
		WithRetryStrategy(&ConstantBackoffStrategy{Interval: time.Millisecond, MaxAttempts: 3}).
		WithObserver(collector)

	client, err := NewClient(config)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Character().Fight(ctx))

	_, err = client.Monsters().Get(ctx, "chicken")
	require.NoError(t, err)
	_, err = client.Monsters().Get(ctx, "dragon")
	require.NoError(t, err)

	m := collector.GetMetrics()
	assert.Equal(t, int64(1), m.Retries, "one transient failure before the fight succeeded")
	assert.Equal(t, int64(1), m.CacheRebuilds)
	assert.Equal(t, int64(1), m.CacheHits)
	assert.Equal(t, int64(1), m.CacheMisses)
	assert.Greater(t, m.Requests, int64(0))
}

func TestPrometheusObserverRegistersAndCounts(t *testing.T) {
	registry := prometheus.NewRegistry()
	observer := NewPrometheusObserver(registry)

	observer.OnRequestEnd("GET", "items", 50*time.Millisecond, nil)
	observer.OnRequestEnd("POST", "my/Birb/action/move", 80*time.Millisecond, errors.New("boom"))
	observer.OnRetryAttempt("POST", "my/Birb/action/move", 1, time.Millisecond, errors.New("boom"))
	observer.OnCooldownWait(time.Second)
	observer.OnCacheRebuild("items", 5, 420, "v1.0")
	observer.OnCacheHit("items", "copper_ore")
	observer.OnCacheMiss("items", "mithril_ore")

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["artifacts_client_requests_total"])
	assert.True(t, names["artifacts_client_request_duration_seconds"])
	assert.True(t, names["artifacts_client_retries_total"])
	assert.True(t, names["artifacts_client_cooldown_wait_seconds_total"])
	assert.True(t, names["artifacts_cache_rebuilds_total"])
	assert.True(t, names["artifacts_cache_records"])
	assert.True(t, names["artifacts_cache_lookups_total"])
}
