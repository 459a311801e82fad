package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/obskit/bufr2geojson/internal/observability"
	"github.com/obskit/bufr2geojson/internal/sink"
)

// WatcherConfig controls the directory poll loop.
type WatcherConfig struct {
	WatchDir     string
	OutputDir    string
	PollInterval time.Duration
	CSVEnabled   bool
}

// fingerprint identifies one version of an input file. A file is reconverted
// when its size or modification time changes, so re-dropping a corrected
// dump picks it up without restarting the service.
type fingerprint struct {
	modTime time.Time
	size    int64
}

// Watcher polls a directory for element dumps and runs each new or changed
// file through the Runner. Files are marked seen even when their run fails,
// so a poison input is logged once instead of every poll.
type Watcher struct {
	runner  *Runner
	cfg     WatcherConfig
	geo     *sink.GeoJSONWriter
	shared  []FeatureSink
	logger  *slog.Logger
	metrics *observability.Metrics

	seen  map[string]fingerprint
	ready atomic.Bool

	mu   sync.Mutex
	last *Summary
}

// NewWatcher wires the runner to a poll loop. Shared sinks (a broker
// publisher, an in-memory collection) receive the features of every file on
// top of the per-file GeoJSON and CSV outputs.
func NewWatcher(runner *Runner, cfg WatcherConfig, logger *slog.Logger, metrics *observability.Metrics, shared ...FeatureSink) (*Watcher, error) {
	geo, err := sink.NewGeoJSONWriter(cfg.OutputDir, logger)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		runner:  runner,
		cfg:     cfg,
		geo:     geo,
		shared:  shared,
		logger:  logger,
		metrics: metrics,
		seen:    make(map[string]fingerprint),
	}, nil
}

// CheckReadiness returns nil once the watcher has completed at least one
// directory scan, or an error describing why the service is not yet ready.
func (w *Watcher) CheckReadiness(_ context.Context) error {
	if !w.ready.Load() {
		return errors.New("watcher has not completed a directory scan yet")
	}
	return nil
}

// LastRun returns the most recent run summary, if any file has been
// converted since startup.
func (w *Watcher) LastRun() (Summary, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return Summary{}, false
	}
	return *w.last, true
}

// Run polls until the context is cancelled. The first scan happens
// immediately so a directory that already has input is drained at startup.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watcher started", "dir", w.cfg.WatchDir, "interval", w.cfg.PollInterval)
	w.metrics.WatcherRunning.Set(1)
	defer w.metrics.WatcherRunning.Set(0)

	ticker := clock.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.scan(ctx); err != nil {
			w.logger.Error("scan failed", "dir", w.cfg.WatchDir, "error", err)
		}
		w.ready.Store(true)

		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// scan converts every new or changed .json file, in name order as returned
// by the directory listing.
func (w *Watcher) scan(ctx context.Context) error {
	entries, err := os.ReadDir(w.cfg.WatchDir)
	if err != nil {
		return fmt.Errorf("read watch dir: %w", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			w.logger.Warn("stat input failed", "file", name, "error", err)
			continue
		}
		fp := fingerprint{modTime: info.ModTime(), size: info.Size()}
		if prev, ok := w.seen[name]; ok && prev.size == fp.size && prev.modTime.Equal(fp.modTime) {
			continue
		}
		w.seen[name] = fp

		w.convertFile(ctx, name)
	}
	return nil
}

// convertFile runs one input through the Runner and folds the summary into
// the metrics. Failures are logged and counted; the poll loop keeps going.
func (w *Watcher) convertFile(ctx context.Context, name string) {
	path := filepath.Join(w.cfg.WatchDir, name)
	f, err := os.Open(path)
	if err != nil {
		w.logger.Error("open input failed", "file", name, "error", err)
		return
	}
	defer f.Close()

	sinks, cleanup := w.fileSinks(name)
	defer cleanup()

	summary, err := w.runner.Run(ctx, name, f, sinks...)
	w.fold(summary)
	if err != nil {
		w.logger.Error("conversion failed", "file", name, "error", err)
		return
	}
	w.logger.Info("input converted",
		"file", name,
		"messages", summary.MessagesProcessed,
		"features", summary.FeaturesWritten,
	)
}

// fileSinks assembles the sink chain for one input: the shared GeoJSON
// writer, a per-file CSV when enabled, then any shared sinks.
func (w *Watcher) fileSinks(name string) ([]FeatureSink, func()) {
	sinks := []FeatureSink{w.geo}
	cleanup := func() {}

	if w.cfg.CSVEnabled {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		flattener := sink.NewCSVFlattener(filepath.Join(w.cfg.OutputDir, stem+".csv"))
		sinks = append(sinks, flattener)
		cleanup = func() {
			if err := flattener.Close(); err != nil {
				w.logger.Warn("close csv failed", "file", name, "error", err)
			}
		}
	}

	return append(sinks, w.shared...), cleanup
}

func (w *Watcher) fold(s *Summary) {
	w.mu.Lock()
	w.last = s
	w.mu.Unlock()

	w.metrics.FilesProcessed.Inc()
	w.metrics.MessagesProcessed.Add(float64(s.MessagesProcessed))
	w.metrics.MessagesFailed.Add(float64(s.MessagesFailed))
	w.metrics.SubsetsFailed.Add(float64(s.SubsetsFailed))
	w.metrics.FeaturesWritten.Add(float64(s.FeaturesWritten))
	w.metrics.RecordsDropped.Add(float64(s.RecordsDropped))
	w.metrics.RecordsFailed.Add(float64(s.RecordsFailed))
	w.metrics.SchemaFailures.Add(float64(s.SchemaFailures))
	w.metrics.BatchSize.Observe(float64(s.MessagesProcessed))
	w.metrics.RunDuration.Observe(s.FinishedAt.Sub(s.StartedAt).Seconds())
}
