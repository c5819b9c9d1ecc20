// Package monitoring records per-stage timings and row counts for pipeline runs.
package monitoring

import (
	"runtime"
	"sync"
	"time"
)

// StageMetrics describes a single stage execution.
type StageMetrics struct {
	Stage      string        `json:"stage"`
	Duration   time.Duration `json:"duration"`
	RowsIn     int           `json:"rows_in"`
	RowsOut    int           `json:"rows_out"`
	MemoryUsed int64         `json:"memory_used"`
}

// RowsDropped reports how many rows the stage removed. Stages that grow the
// row count (none today) report zero.
func (m StageMetrics) RowsDropped() int {
	if m.RowsOut >= m.RowsIn {
		return 0
	}
	return m.RowsIn - m.RowsOut
}

// MetricsCollector stores StageMetrics for later inspection.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []StageMetrics
	enabled bool
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{
		metrics: make([]StageMetrics, 0),
		enabled: enabled,
	}
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// RecordStage runs fn and records its duration and row counts. fn returns the
// number of rows the stage produced.
func (mc *MetricsCollector) RecordStage(stage string, rowsIn int, fn func() (int, error)) error {
	if !mc.IsEnabled() {
		_, err := fn()
		return err
	}

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)
	start := time.Now()

	rowsOut, err := fn()

	duration := time.Since(start)
	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	m := StageMetrics{
		Stage:      stage,
		Duration:   duration,
		RowsIn:     rowsIn,
		RowsOut:    rowsOut,
		MemoryUsed: int64(memAfter.TotalAlloc - memBefore.TotalAlloc), //nolint:gosec // monotonic counter
	}

	mc.mu.Lock()
	mc.metrics = append(mc.metrics, m)
	mc.mu.Unlock()

	return err
}

// GetMetrics returns a copy of all collected metrics.
func (mc *MetricsCollector) GetMetrics() []StageMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make([]StageMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Clear removes all collected metrics.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = mc.metrics[:0]
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	var totalDuration time.Duration
	var totalDropped int
	stageCounts := make(map[string]int)

	for _, m := range mc.metrics {
		totalDuration += m.Duration
		totalDropped += m.RowsDropped()
		stageCounts[m.Stage]++
	}

	return MetricsSummary{
		TotalStages:     len(mc.metrics),
		TotalDuration:   totalDuration,
		RowsDropped:     totalDropped,
		StageCounts:     stageCounts,
		AverageDuration: totalDuration / time.Duration(len(mc.metrics)),
	}
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalStages     int            `json:"total_stages"`
	TotalDuration   time.Duration  `json:"total_duration"`
	RowsDropped     int            `json:"rows_dropped"`
	StageCounts     map[string]int `json:"stage_counts"`
	AverageDuration time.Duration  `json:"average_duration"`
}
