package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// conversion service. The watcher folds each run's summary into them.
type Metrics struct {
	FilesProcessed    prometheus.Counter
	MessagesProcessed prometheus.Counter
	MessagesFailed    prometheus.Counter
	SubsetsFailed     prometheus.Counter
	FeaturesWritten   prometheus.Counter
	RecordsDropped    prometheus.Counter
	RecordsFailed     prometheus.Counter
	SchemaFailures    prometheus.Counter
	WatcherRunning    prometheus.Gauge

	// Per-file conversion metrics.
	BatchSize   prometheus.Histogram
	RunDuration prometheus.Histogram
}

// NewMetrics creates and registers all conversion metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bufr2geojson",
			Name:      "files_processed_total",
			Help:      "Total input dump files picked up and converted.",
		}),
		MessagesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bufr2geojson",
			Name:      "messages_processed_total",
			Help:      "Total BUFR messages seen across all conversion runs.",
		}),
		MessagesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bufr2geojson",
			Name:      "messages_failed_total",
			Help:      "Total messages that finished a run with at least one error.",
		}),
		SubsetsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bufr2geojson",
			Name:      "subsets_failed_total",
			Help:      "Total subsets abandoned during conversion.",
		}),
		FeaturesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bufr2geojson",
			Name:      "features_written_total",
			Help:      "Total schema-valid GeoJSON features written to the sinks.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bufr2geojson",
			Name:      "records_dropped_total",
			Help:      "Total observations dropped for missing values.",
		}),
		RecordsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bufr2geojson",
			Name:      "records_failed_total",
			Help:      "Total observation records abandoned at assembly.",
		}),
		SchemaFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bufr2geojson",
			Name:      "schema_failures_total",
			Help:      "Total assembled features withheld for violating the profile schema.",
		}),
		WatcherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bufr2geojson",
			Name:      "watcher_running",
			Help:      "1 when the input watcher is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bufr2geojson",
			Name:      "batch_size",
			Help:      "Number of BUFR messages per input file.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 250},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bufr2geojson",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete decode-convert-write run for one file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.FilesProcessed,
		m.MessagesProcessed,
		m.MessagesFailed,
		m.SubsetsFailed,
		m.FeaturesWritten,
		m.RecordsDropped,
		m.RecordsFailed,
		m.SchemaFailures,
		m.WatcherRunning,
		m.BatchSize,
		m.RunDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesProcessed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bufr2geojson", Name: "files_processed_total"}),
		MessagesProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bufr2geojson", Name: "messages_processed_total"}),
		MessagesFailed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bufr2geojson", Name: "messages_failed_total"}),
		SubsetsFailed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bufr2geojson", Name: "subsets_failed_total"}),
		FeaturesWritten:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bufr2geojson", Name: "features_written_total"}),
		RecordsDropped:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bufr2geojson", Name: "records_dropped_total"}),
		RecordsFailed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bufr2geojson", Name: "records_failed_total"}),
		SchemaFailures:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bufr2geojson", Name: "schema_failures_total"}),
		WatcherRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "bufr2geojson", Name: "watcher_running"}),
		BatchSize:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bufr2geojson", Name: "batch_size"}),
		RunDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bufr2geojson", Name: "run_duration_seconds"}),
	}
}
