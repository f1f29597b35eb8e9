// Package metrics provides Prometheus metrics for the Reed pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesReadTotal tracks inputs successfully opened for extraction
	FilesReadTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "task",
			Name:      "files_read_total",
			Help:      "Total number of input files read",
		},
	)

	// BytesReadTotal tracks raw input bytes handed to extraction
	BytesReadTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "task",
			Name:      "bytes_read_total",
			Help:      "Total number of input bytes read",
		},
	)

	// InputsSkippedTotal tracks inputs that vanished between job submission and execution
	InputsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "task",
			Name:      "inputs_skipped_total",
			Help:      "Total number of inputs skipped because they no longer exist",
		},
	)

	// InputErrorsTotal tracks recoverable per-input failures by category
	InputErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "task",
			Name:      "input_errors_total",
			Help:      "Total number of recoverable per-input failures by category",
		},
		[]string{"category"},
	)

	// DocumentsLoadedTotal tracks documents handed to the output boundary
	DocumentsLoadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "loader",
			Name:      "documents_loaded_total",
			Help:      "Total number of documents handed to the output sink",
		},
	)

	// ExtractDuration tracks content extraction duration in seconds
	ExtractDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reed",
			Subsystem: "extract",
			Name:      "duration_seconds",
			Help:      "Duration of content extraction in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	// CommitDuration tracks loader commit duration in seconds
	CommitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reed",
			Subsystem: "loader",
			Name:      "commit_duration_seconds",
			Help:      "Duration of loader commits in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)
)

// RecordFileRead records one fully processed input
func RecordFileRead() {
	FilesReadTotal.Inc()
}

// RecordBytesRead records raw input bytes handed to extraction
func RecordBytesRead(bytes int64) {
	BytesReadTotal.Add(float64(bytes))
}

// RecordInputSkipped records an input that vanished before processing
func RecordInputSkipped() {
	InputsSkippedTotal.Inc()
}

// RecordInputError records a recoverable per-input failure
func RecordInputError(category string) {
	InputErrorsTotal.WithLabelValues(category).Inc()
}

// RecordDocumentsLoaded records documents handed to the sink
func RecordDocumentsLoaded(count int) {
	DocumentsLoadedTotal.Add(float64(count))
}

// RecordExtraction records one content extraction
func RecordExtraction(durationSeconds float64) {
	ExtractDuration.Observe(durationSeconds)
}

// RecordCommit records one loader commit
func RecordCommit(durationSeconds float64) {
	CommitDuration.Observe(durationSeconds)
}

// TaskCounters satisfies the task's counter boundary with the package metrics.
type TaskCounters struct{}

func (TaskCounters) IncFilesRead()            { RecordFileRead() }
func (TaskCounters) AddBytesRead(n int64)     { RecordBytesRead(n) }
func (TaskCounters) IncSkipped()              { RecordInputSkipped() }
func (TaskCounters) IncError(category string) { RecordInputError(category) }
