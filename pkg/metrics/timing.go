// Package metrics provides in-process instrumentation for netscope.
//
// Timings cover the per-frame hot paths (layout, render, hit-test) and the
// one-off costs of loading and exporting a graph. Counters track how often
// frames are drawn, pointer probes resolve to a node, and the watched file is
// reloaded.
//
// Everything is lock-free. Collection is on unless NETSCOPE_METRICS=0.
//
//	defer metrics.Timer(metrics.LayoutCompute)()
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("NETSCOPE_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled switches collection on or off for every metric.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric accumulates durations for one named operation.
type TimingMetric struct {
	name  string
	count atomic.Int64
	total atomic.Int64
	max   atomic.Int64
	min   atomic.Int64 // 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.total.Add(ns)
	storeIf(&m.max, ns, func(old int64) bool { return ns > old })
	storeIf(&m.min, ns, func(old int64) bool { return old == 0 || ns < old })
}

// storeIf swaps v into a when better reports it beats the current value.
func storeIf(a *atomic.Int64, v int64, better func(old int64) bool) {
	for {
		old := a.Load()
		if !better(old) || a.CompareAndSwap(old, v) {
			return
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// TotalNs returns the summed duration in nanoseconds.
func (m *TimingMetric) TotalNs() int64 { return m.total.Load() }

// MaxNs returns the slowest sample in nanoseconds.
func (m *TimingMetric) MaxNs() int64 { return m.max.Load() }

// MinNs returns the fastest sample in nanoseconds, or 0 with no samples.
func (m *TimingMetric) MinNs() int64 { return m.min.Load() }

// AvgNs returns the mean sample in nanoseconds, or 0 with no samples.
func (m *TimingMetric) AvgNs() int64 {
	n := m.count.Load()
	if n == 0 {
		return 0
	}
	return m.total.Load() / n
}

// Stats snapshots the metric in milliseconds.
func (m *TimingMetric) Stats() TimingStats {
	const ms = float64(time.Millisecond)
	return TimingStats{
		Name:    m.name,
		Count:   m.Count(),
		TotalMs: float64(m.TotalNs()) / ms,
		AvgMs:   float64(m.AvgNs()) / ms,
		MaxMs:   float64(m.MaxNs()) / ms,
		MinMs:   float64(m.MinNs()) / ms,
	}
}

// Reset clears all samples.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(0)
}

// TimingStats is a point-in-time copy of a TimingMetric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts timing m and returns the func that stops it.
func Timer(m *TimingMetric) func() {
	return TimerWithCallback(m, nil)
}

// TimerWithCallback is Timer that also hands the elapsed time to cb, which
// still runs when collection is off.
func TimerWithCallback(m *TimingMetric, cb func(time.Duration)) func() {
	if m == nil || (!Enabled() && cb == nil) {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		m.Record(d)
		if cb != nil {
			cb(d)
		}
	}
}

// Timings for the hot paths.
var (
	LayoutCompute = newTimingMetric("layout_compute")
	Render        = newTimingMetric("render")
	HitTest       = newTimingMetric("hit_test")
	GraphLoad     = newTimingMetric("graph_load")
	Export        = newTimingMetric("export")
)

var timings = []*TimingMetric{LayoutCompute, Render, HitTest, GraphLoad, Export}

// AllTimingMetrics returns every timing metric in report order.
func AllTimingMetrics() []*TimingMetric {
	return append([]*TimingMetric(nil), timings...)
}

// ResetAll clears every timing and counter.
func ResetAll() {
	for _, m := range timings {
		m.Reset()
	}
	for _, c := range counters {
		c.Reset()
	}
}

// AllTimingStats returns stats for the timings that have samples.
func AllTimingStats() []TimingStats {
	stats := make([]TimingStats, 0, len(timings))
	for _, m := range timings {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}
