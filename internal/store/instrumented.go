package store

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/heysubinoy/pyazdict/pkg/kv"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation names used for metrics labels.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpSearch = "search"
	OpPage   = "page"
	OpLoad   = "load"
	OpSave   = "save"
)

var ops = []string{OpAdd, OpRemove, OpSearch, OpPage, OpLoad, OpSave}

// opStats holds counters for one operation.
// Uses atomic operations for thread-safe updates without locks.
type opStats struct {
	count     atomic.Uint64
	failures  atomic.Uint64
	latencyNs atomic.Uint64
}

// Collectors are the Prometheus metrics shared by every instrumented
// dictionary of a process.
type Collectors struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewCollectors creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dict_operations_total",
			Help: "Dictionary operations by dictionary, operation and result.",
		}, []string{"dict", "op", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dict_operation_duration_seconds",
			Help:    "Dictionary operation latency.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"dict", "op"}),
	}
	if reg != nil {
		reg.MustRegister(c.Operations, c.Duration)
	}
	return c
}

// InstrumentedDictionary wraps any kv.Dictionary implementation with timing
// metrics. This pattern works for plain and autosaving dictionaries alike.
type InstrumentedDictionary struct {
	kv.Dictionary
	name       string
	stats      map[string]*opStats
	collectors *Collectors
}

// Compile-time check to ensure InstrumentedDictionary implements kv.Dictionary.
var _ kv.Dictionary = (*InstrumentedDictionary)(nil)

// NewInstrumentedDictionary wraps d with instrumentation. c may be nil, in
// which case only the in-process snapshot counters are kept.
func NewInstrumentedDictionary(name string, d kv.Dictionary, c *Collectors) *InstrumentedDictionary {
	stats := make(map[string]*opStats, len(ops))
	for _, op := range ops {
		stats[op] = &opStats{}
	}
	return &InstrumentedDictionary{
		Dictionary: d,
		name:       name,
		stats:      stats,
		collectors: c,
	}
}

func (s *InstrumentedDictionary) observe(op string, start time.Time, err error) {
	elapsed := time.Since(start)

	st := s.stats[op]
	st.count.Add(1)
	st.latencyNs.Add(uint64(elapsed.Nanoseconds()))
	if failed(err) {
		st.failures.Add(1)
	}

	if s.collectors != nil {
		s.collectors.Operations.WithLabelValues(s.name, op, result(err)).Inc()
		s.collectors.Duration.WithLabelValues(s.name, op).Observe(elapsed.Seconds())
	}
}

// failed reports whether err counts as a failure. Not-found results are
// ordinary outcomes, not failures.
func failed(err error) bool {
	return err != nil && !errors.Is(err, kv.ErrNotFound)
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, kv.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, kv.ErrNotFound):
		return "not_found"
	case errors.Is(err, kv.ErrIO):
		return "io_error"
	}
	return "error"
}

// Add delegates to the wrapped dictionary and records timing.
func (s *InstrumentedDictionary) Add(key, value string) error {
	start := time.Now()
	err := s.Dictionary.Add(key, value)
	s.observe(OpAdd, start, err)
	return err
}

// Remove delegates to the wrapped dictionary and records timing.
func (s *InstrumentedDictionary) Remove(key string) error {
	start := time.Now()
	err := s.Dictionary.Remove(key)
	s.observe(OpRemove, start, err)
	return err
}

// Search delegates to the wrapped dictionary and records timing.
func (s *InstrumentedDictionary) Search(key string) (string, bool) {
	start := time.Now()
	value, found := s.Dictionary.Search(key)
	var err error
	if !found {
		err = kv.ErrNotFound
	}
	s.observe(OpSearch, start, err)
	return value, found
}

// Page delegates to the wrapped dictionary and records timing.
func (s *InstrumentedDictionary) Page(page, size int) (kv.Page, error) {
	start := time.Now()
	p, err := s.Dictionary.Page(page, size)
	s.observe(OpPage, start, err)
	return p, err
}

// Load delegates to the wrapped dictionary and records timing.
func (s *InstrumentedDictionary) Load(path string) error {
	start := time.Now()
	err := s.Dictionary.Load(path)
	s.observe(OpLoad, start, err)
	return err
}

// Save delegates to the wrapped dictionary and records timing.
func (s *InstrumentedDictionary) Save(path string) error {
	start := time.Now()
	err := s.Dictionary.Save(path)
	s.observe(OpSave, start, err)
	return err
}

// GetMetrics returns a snapshot of current metrics keyed by operation.
func (s *InstrumentedDictionary) GetMetrics() MetricsSnapshot {
	snap := MetricsSnapshot{Dictionary: s.name, Operations: make(map[string]OpSnapshot, len(ops))}
	for _, op := range ops {
		st := s.stats[op]
		count := st.count.Load()
		snap.Operations[op] = OpSnapshot{
			Count:      count,
			Failures:   st.failures.Load(),
			AvgLatency: avgLatency(st.latencyNs.Load(), count),
		}
	}
	return snap
}

// ResetMetrics clears all snapshot counters. Prometheus collectors are
// cumulative and left alone.
func (s *InstrumentedDictionary) ResetMetrics() {
	for _, st := range s.stats {
		st.count.Store(0)
		st.failures.Store(0)
		st.latencyNs.Store(0)
	}
}

func avgLatency(totalNs, count uint64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / count)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Dictionary string
	Operations map[string]OpSnapshot
}

// OpSnapshot is the snapshot of one operation.
type OpSnapshot struct {
	Count      uint64
	Failures   uint64
	AvgLatency time.Duration
}
