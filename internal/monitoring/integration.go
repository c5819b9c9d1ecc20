package monitoring

import (
	"sync"
)

//nolint:gochecknoglobals // process-wide collector toggled by configuration
var (
	globalCollector *MetricsCollector
	globalMutex     sync.RWMutex
)

// SetGlobalCollector sets the global metrics collector.
func SetGlobalCollector(collector *MetricsCollector) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalCollector = collector
}

// GetGlobalCollector returns the global metrics collector, or nil.
func GetGlobalCollector() *MetricsCollector {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalCollector
}

// RecordGlobalStage records a stage using the global collector.
// Without a global collector fn simply runs.
func RecordGlobalStage(stage string, rowsIn int, fn func() (int, error)) error {
	collector := GetGlobalCollector()
	if collector == nil {
		_, err := fn()
		return err
	}
	return collector.RecordStage(stage, rowsIn, fn)
}

// IsGlobalMonitoringEnabled returns true if global monitoring is enabled.
func IsGlobalMonitoringEnabled() bool {
	collector := GetGlobalCollector()
	return collector != nil && collector.IsEnabled()
}

// EnableGlobalMonitoring creates and sets a global metrics collector.
func EnableGlobalMonitoring() {
	SetGlobalCollector(NewMetricsCollector(true))
}

// DisableGlobalMonitoring disables the global metrics collector.
func DisableGlobalMonitoring() {
	collector := GetGlobalCollector()
	if collector != nil {
		collector.SetEnabled(false)
	}
}

// ClearGlobalMetrics clears all metrics from the global collector.
func ClearGlobalMetrics() {
	collector := GetGlobalCollector()
	if collector != nil {
		collector.Clear()
	}
}

// GetGlobalMetrics returns metrics from the global collector.
func GetGlobalMetrics() []StageMetrics {
	collector := GetGlobalCollector()
	if collector == nil {
		return []StageMetrics{}
	}
	return collector.GetMetrics()
}

// GetGlobalSummary returns a summary from the global collector.
func GetGlobalSummary() MetricsSummary {
	collector := GetGlobalCollector()
	if collector == nil {
		return MetricsSummary{}
	}
	return collector.GetSummary()
}

// Configure turns process-wide collection on or off. Metrics already held
// by an existing collector are kept.
func Configure(enabled bool) {
	if !enabled {
		DisableGlobalMonitoring()
		return
	}
	if collector := GetGlobalCollector(); collector != nil {
		collector.SetEnabled(true)
		return
	}
	EnableGlobalMonitoring()
}
