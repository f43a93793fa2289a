// Package metrics exposes status bus counters. The ui client registers a
// PrometheusRecorder when [ui] metrics_addr is set; everything else uses
// NoopRecorder.
package metrics
