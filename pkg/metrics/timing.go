// Package metrics records timings for the build, materialize, parse and
// storage hot paths so `orgchart stats --timings` can report them.
//
// Metrics are collected in-memory with atomic operations.
// Collection is enabled by default and can be disabled via ORGCHART_METRICS=0.
//
//	func Build(...) {
//	    defer metrics.Timer(metrics.TreeBuild)()
//	}
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/vanderheijden86/orgchart/pkg/debug"
)

// enabled controls whether metrics are collected.
var enabled = os.Getenv("ORGCHART_METRICS") != "0"

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled
}

// TimingMetric accumulates durations for one named operation. It is safe
// for concurrent use.
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

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.total.Add(ns)
	casIf(&m.max, ns, func(old int64) bool { return ns > old })
	casIf(&m.min, ns, func(old int64) bool { return old == 0 || ns < old })
}

// casIf stores v into a while better(current) holds.
func casIf(a *atomic.Int64, v int64, better func(old int64) bool) {
	for {
		old := a.Load()
		if !better(old) || a.CompareAndSwap(old, v) {
			return
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

// Stats returns a snapshot in milliseconds.
func (m *TimingMetric) Stats() TimingStats {
	count, total := m.count.Load(), m.total.Load()
	st := TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: ms(total),
		MaxMs:   ms(m.max.Load()),
		MinMs:   ms(m.min.Load()),
	}
	if count > 0 {
		st.AvgMs = ms(total / count)
	}
	return st
}

func ms(ns int64) float64 {
	return float64(ns) / float64(time.Millisecond)
}

// Reset drops all samples.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(0)
}

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records elapsed time when called.
func Timer(m *TimingMetric) func() {
	if !enabled || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		m.Record(d)
		debug.LogTiming(m.name, d)
	}
}

// Timing metrics for the hot paths.
var (
	TreeBuild      = newTimingMetric("tree_build")
	Materialize    = newTimingMetric("materialize")
	CSVParse       = newTimingMetric("csv_parse")
	StoreIO        = newTimingMetric("store_io")
	SnapshotRender = newTimingMetric("snapshot_render")
	UIRender       = newTimingMetric("ui_render")
)

// AllTimingMetrics returns all registered timing metrics.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{TreeBuild, Materialize, CSVParse, StoreIO, SnapshotRender, UIRender}
}

// ResetAll resets all timing metrics.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns stats for metrics that have recorded anything.
func AllTimingStats() []TimingStats {
	all := AllTimingMetrics()
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// WriteReport prints a fixed-width table of the recorded timings.
func WriteReport(w io.Writer) error {
	stats := AllTimingStats()
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "no timings recorded")
		return err
	}
	if _, err := fmt.Fprintf(w, "%-16s %8s %10s %10s %10s\n", "metric", "count", "avg_ms", "min_ms", "max_ms"); err != nil {
		return err
	}
	for _, st := range stats {
		if _, err := fmt.Fprintf(w, "%-16s %8d %10.3f %10.3f %10.3f\n", st.Name, st.Count, st.AvgMs, st.MinMs, st.MaxMs); err != nil {
			return err
		}
	}
	return nil
}
