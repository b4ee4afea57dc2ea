// Package diag tracks rolling frame-time statistics and exports them
// as Prometheus gauges via github.com/prometheus/client_golang, the
// domain dependency the acquisition/transport loops use for
// operational visibility.
package diag

import (
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FrameTime accumulates min/max/average/count/total over a reset
// window. Safe for concurrent use; a single loop typically owns the
// writer side while a metrics scrape reads concurrently.
type FrameTime struct {
	mu    sync.Mutex
	min   time.Duration
	max   time.Duration
	total time.Duration
	count uint64
}

// NewFrameTime constructs an empty window.
func NewFrameTime() *FrameTime {
	f := &FrameTime{}
	f.reset()
	return f
}

func (f *FrameTime) reset() {
	f.min = time.Duration(math.MaxInt64)
	f.max = time.Duration(math.MinInt64)
	f.total = 0
	f.count = 0
}

// Observe folds in one elapsed duration.
func (f *FrameTime) Observe(elapsed time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if elapsed < f.min {
		f.min = elapsed
	}
	if elapsed > f.max {
		f.max = elapsed
	}
	f.total += elapsed
	f.count++
}

// Window is a point-in-time snapshot of the accumulated statistics.
type Window struct {
	Min, Max, Avg time.Duration
	Count         uint64
	Total         time.Duration
}

// Snapshot returns the current window without resetting it.
func (f *FrameTime) Snapshot() Window {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window()
}

func (f *FrameTime) window() Window {
	if f.count == 0 {
		return Window{}
	}
	return Window{
		Min:   f.min,
		Max:   f.max,
		Avg:   f.total / time.Duration(f.count),
		Count: f.count,
		Total: f.total,
	}
}

// Reset zeroes the window, starting a fresh accumulation period.
func (f *FrameTime) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// Collector exports a FrameTime's current window as Prometheus
// gauges, labeled by the loop name the FrameTime tracks (e.g.
// "acquisition", "transmitter_send", "receiver_recv").
type Collector struct {
	ft   *FrameTime
	name string

	minDesc, maxDesc, avgDesc, countDesc *prometheus.Desc
}

// NewCollector wraps ft for export under the given loop name.
func NewCollector(name string, ft *FrameTime) *Collector {
	labels := prometheus.Labels{"loop": name}
	return &Collector{
		ft:   ft,
		name: name,
		minDesc:   prometheus.NewDesc("archon_frametime_min_seconds", "Minimum observed frame time.", nil, labels),
		maxDesc:   prometheus.NewDesc("archon_frametime_max_seconds", "Maximum observed frame time.", nil, labels),
		avgDesc:   prometheus.NewDesc("archon_frametime_avg_seconds", "Average observed frame time.", nil, labels),
		countDesc: prometheus.NewDesc("archon_frametime_count_total", "Number of frames observed.", nil, labels),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.minDesc
	ch <- c.maxDesc
	ch <- c.avgDesc
	ch <- c.countDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	w := c.ft.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.minDesc, prometheus.GaugeValue, w.Min.Seconds())
	ch <- prometheus.MustNewConstMetric(c.maxDesc, prometheus.GaugeValue, w.Max.Seconds())
	ch <- prometheus.MustNewConstMetric(c.avgDesc, prometheus.GaugeValue, w.Avg.Seconds())
	ch <- prometheus.MustNewConstMetric(c.countDesc, prometheus.CounterValue, float64(w.Count))
}
