// Package metrics records load counters through a pluggable backend.
//
// The default backend is a no-op, so every call is safe when no metrics system
// is configured. Concrete backends live in subpackages (see prompush) and are
// installed once at startup with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by every backend.
const (
	StepTotal     = "kombuchadb_step_total"
	StepDuration  = "kombuchadb_step_duration_seconds"
	RecordsTotal  = "kombuchadb_records_total"
	FilesTotal    = "kombuchadb_files_total"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Record kinds, one per record outcome.
const (
	KindInserted     = "inserted"
	KindMalformed    = "malformed"
	KindCoerceFailed = "coerce_failed"
	KindInsertFailed = "insert_failed"
)

// File kinds, one per batch file outcome.
const (
	FileLoaded  = "loaded"
	FileMissing = "missing"
	FileFailed  = "failed"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface a metrics system has to satisfy.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered values, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the installed backend.
func Flush() error { return current().Flush() }

// RecordStep counts one execution of step and observes its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta records of the given kind. Non-positive deltas are
// ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordFile counts one batch file by outcome (FileLoaded, FileMissing,
// FileFailed).
func RecordFile(job, outcome string) {
	current().IncCounter(FilesTotal, 1, Labels{"job": job, "outcome": outcome})
}
