// Package metrics records operational metrics from the sparkify jobs
// through a pluggable Backend. The default backend is a no-op, so callers
// never need to check whether metrics are configured.
//
// Concrete backends live in subpackages (prompush, datadog) and are
// installed once at startup with SetBackend.
package metrics

import "time"

// Metric names emitted by this package.
const (
	StepTotal           = "sparkify_step_total"
	StepDurationSeconds = "sparkify_step_duration_seconds"
	RecordsTotal        = "sparkify_records_total"
	BatchesTotal        = "sparkify_batches_total"
	FilesTotal          = "sparkify_files_total"
)

// File outcomes for RecordFile.
const (
	FileLoaded  = "loaded"
	FileSkipped = "skipped"
	FileFailed  = "failed"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of a job step and observes its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow adds delta to the record counter for kind. Kinds are either an
// input family ("song", "log") or a target table ("songplays", "users", ...).
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments the bulk-copy batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{
		"job": job,
	})
}

// RecordFile counts one input file of kind with the given outcome
// (FileLoaded, FileSkipped or FileFailed).
func RecordFile(job, kind, status string) {
	backend.IncCounter(FilesTotal, 1, Labels{
		"job":    job,
		"kind":   kind,
		"status": status,
	})
}
