package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits      int
	misses    int
	evictions int
}

// Recorder captures lightweight, in-memory metrics and mirrors them to OTel when configured.
type Recorder struct {
	mu       sync.Mutex
	stats    map[string]*providerStats
	cache    cacheStats
	removals map[bool]int
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:    make(map[string]*providerStats),
		removals: make(map[bool]int),
		otel:     otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider, op string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, op, duration, err)
	}
}

// RecordCacheLookup counts whether a load was served from the cache.
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if hit {
		r.cache.hits++
	} else {
		r.cache.misses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(hit)
	}
}

// RecordRemoval counts a removal attempt by outcome.
func (r *Recorder) RecordRemoval(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.removals[err == nil]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRemoval(err)
	}
}

// RecordSweep tracks an idle-eviction pass.
func (r *Recorder) RecordSweep(evicted int, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cache.evictions += evicted
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSweep(evicted, duration)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// Snapshot is a copy of the stats recorded for one provider plus cache totals.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
	CacheHits       int
	CacheMisses     int
	Evictions       int
	Removals        int
	RemovalFailures int
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		CacheHits:       r.cache.hits,
		CacheMisses:     r.cache.misses,
		Evictions:       r.cache.evictions,
		Removals:        r.removals[true],
		RemovalFailures: r.removals[false],
	}
	if stats, ok := r.stats[provider]; ok && stats != nil {
		snap.Calls = stats.calls
		snap.Errors = stats.errors
		snap.LastCallLatency = stats.lastCallLatency
	}
	return snap
}

func (r *Recorder) ensureStatsLocked(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
