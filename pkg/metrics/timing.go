// Package metrics records timing statistics for the windowing hot paths.
//
// Collection is on by default and can be switched off with STV_METRICS=0.
// Measurements use atomic counters, so the loader and watcher goroutines may
// record alongside the UI loop.
//
// Usage:
//
//	func flatten() {
//	    defer metrics.Timer(metrics.Flatten)()
//	    // ...
//	}
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("STV_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric accumulates durations for one named operation.
type TimingMetric struct {
	name  string
	count atomic.Int64
	total atomic.Int64 // ns
	max   atomic.Int64 // ns
	min   atomic.Int64 // ns, 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.total.Add(ns)

	for {
		old := m.max.Load()
		if ns <= old || m.max.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.min.Load()
		if (old != 0 && ns >= old) || m.min.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 {
	return m.count.Load()
}

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.total.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(total) / 1e6,
		AvgMs:   float64(avg) / 1e6,
		MaxMs:   float64(m.max.Load()) / 1e6,
		MinMs:   float64(m.min.Load()) / 1e6,
	}
}

// Reset clears all samples.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(0)
}

// TimingStats is a point-in-time view of a TimingMetric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records the time elapsed since Timer was
// called:
//
//	defer metrics.Timer(metrics.Locate)()
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Registered metrics.
var (
	Flatten  = newTimingMetric("flatten")
	Locate   = newTimingMetric("locate")
	Compose  = newTimingMetric("compose")
	Paint    = newTimingMetric("paint")
	Load     = newTimingMetric("load")
	Snapshot = newTimingMetric("snapshot")
)

// All returns every registered metric.
func All() []*TimingMetric {
	return []*TimingMetric{Flatten, Locate, Compose, Paint, Load, Snapshot}
}

// ResetAll clears every registered metric.
func ResetAll() {
	for _, m := range All() {
		m.Reset()
	}
}

// AllStats returns stats for the metrics that have samples.
func AllStats() []TimingStats {
	var out []TimingStats
	for _, m := range All() {
		if m.Count() > 0 {
			out = append(out, m.Stats())
		}
	}
	return out
}

// WriteReport prints one line per metric with samples.
func WriteReport(w io.Writer) error {
	for _, s := range AllStats() {
		if _, err := fmt.Fprintf(w, "%-10s n=%-8d avg=%.3fms max=%.3fms total=%.1fms\n",
			s.Name, s.Count, s.AvgMs, s.MaxMs, s.TotalMs); err != nil {
			return err
		}
	}
	return nil
}
