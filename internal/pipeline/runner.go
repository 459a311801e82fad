// Package pipeline orchestrates the decode-convert-assemble-write flow: a
// Runner turns one decoded dump into schema-valid features, and a Watcher
// drives the Runner from a polled input directory.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/obskit/bufr2geojson/internal/bufr"
	"github.com/obskit/bufr2geojson/internal/convert"
	"github.com/obskit/bufr2geojson/internal/geojson"
)

// FeatureSink receives the schema-valid features one message produced.
// A sink error aborts the run; per-message conversion errors never reach it.
type FeatureSink interface {
	WriteFeatures(ctx context.Context, features []geojson.Feature) error
}

// Summary is the accounting for one conversion run. Messages are the unit of
// failure isolation: a message counts as failed when any of its subsets,
// records, or features could not be produced, even if others were written.
type Summary struct {
	RunID      string    `json:"runId"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	MessagesProcessed int `json:"messagesProcessed"`
	MessagesFailed    int `json:"messagesFailed"`
	SubsetsFailed     int `json:"subsetsFailed"`
	RecordsDropped    int `json:"recordsDropped"`
	RecordsFailed     int `json:"recordsFailed"`
	SchemaFailures    int `json:"schemaFailures"`
	FeaturesWritten   int `json:"featuresWritten"`
}

// Runner converts one decoded dump at a time. Conversion fans out across
// workers; assembly and sink writes stay sequential in message order so
// feature identifiers are deterministic regardless of scheduling.
type Runner struct {
	decoder   bufr.Decoder
	converter *convert.Converter
	validator *geojson.SchemaValidator
	logger    *slog.Logger
	workers   int
}

// NewRunner compiles the profile schema once and wires the conversion
// stages. Workers below one are clamped to one.
func NewRunner(decoder bufr.Decoder, logger *slog.Logger, workers int) (*Runner, error) {
	validator, err := geojson.NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		decoder:   decoder,
		converter: convert.New(logger),
		validator: validator,
		logger:    logger,
		workers:   workers,
	}, nil
}

// Run decodes in, converts every message, and writes the resulting features
// to each sink. The summary is always returned, including on error, so
// callers can account for partial progress. The error is non-nil only for
// run-level failures: an unreadable input, a failed sink, or cancellation.
func (r *Runner) Run(ctx context.Context, source string, in io.Reader, sinks ...FeatureSink) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: clock.Now().UTC(),
	}
	defer func() { summary.FinishedAt = clock.Now().UTC() }()

	batch, err := r.decoder.Decode(ctx, in)
	if err != nil {
		return summary, fmt.Errorf("decode %s: %w", source, err)
	}

	summary.MessagesProcessed = len(batch.Messages) + len(batch.Errors)
	summary.MessagesFailed = len(batch.Errors)
	for _, derr := range batch.Errors {
		r.logger.Warn("message abandoned", "source", source, "error", derr)
	}

	results, err := r.convertAll(ctx, batch.Messages)
	if err != nil {
		return summary, err
	}

	assembler := geojson.NewAssembler()
	for i := range batch.Messages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := r.emit(ctx, assembler, &batch.Messages[i], results[i], summary, sinks); err != nil {
			return summary, err
		}
	}

	r.logger.Info("run complete",
		"run_id", summary.RunID,
		"source", source,
		"messages", summary.MessagesProcessed,
		"failed", summary.MessagesFailed,
		"features", summary.FeaturesWritten,
	)
	return summary, nil
}

// convertAll maps messages to records across the worker pool. Results land
// at the message's own index, preserving batch order for assembly.
func (r *Runner) convertAll(ctx context.Context, messages []bufr.Message) ([]convert.Result, error) {
	results := make([]convert.Result, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range messages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.converter.Convert(messages[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// emit assembles, validates, and writes one message's features. The
// assembler is run-scoped and messages arrive in batch order, so a station
// reporting the same parameter at the same time in two messages still gets
// distinct identifiers.
func (r *Runner) emit(ctx context.Context, assembler *geojson.Assembler, msg *bufr.Message, res convert.Result, summary *Summary, sinks []FeatureSink) error {
	summary.SubsetsFailed += len(res.Errors)
	summary.RecordsDropped += res.Dropped
	failed := len(res.Errors) > 0

	features := make([]geojson.Feature, 0, len(res.Records))
	for _, rec := range res.Records {
		f, err := assembler.Assemble(*msg, rec)
		if err != nil {
			r.logger.Warn("record abandoned",
				"message", msg.Index, "subset", rec.Subset, "name", rec.Name, "error", err)
			summary.RecordsFailed++
			failed = true
			continue
		}
		if err := r.validator.Validate(f); err != nil {
			r.logger.Error("feature violates profile schema",
				"message", msg.Index, "feature", f.ID, "error", err)
			summary.SchemaFailures++
			failed = true
			continue
		}
		features = append(features, *f)
	}

	if failed {
		summary.MessagesFailed++
	}
	if len(features) == 0 {
		return nil
	}

	for _, sink := range sinks {
		if err := sink.WriteFeatures(ctx, features); err != nil {
			return fmt.Errorf("write features for message %d: %w", msg.Index, err)
		}
	}
	summary.FeaturesWritten += len(features)
	return nil
}
