// Package convert implements the mapping from decoded BUFR element streams
// to observation records: replication resolution, coordinate context
// accumulation, and record extraction. One subset yields zero or more
// records; one record becomes one GeoJSON feature downstream.
package convert

import (
	"fmt"
	"log/slog"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

// Converter turns decoded messages into observation records. Failures are
// isolated at the narrowest scope that owns them: a subset that cannot be
// interpreted is reported in Result.Errors and the remaining subsets of the
// message still convert.
type Converter struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Converter {
	return &Converter{logger: logger}
}

// Result carries everything one message produced: records in stream order,
// the count of observations dropped for missing values, and the per-subset
// errors conversion continued past.
type Result struct {
	Records []Record
	Dropped int
	Errors  []error
}

// Convert maps every subset of msg to observation records.
func (c *Converter) Convert(msg bufr.Message) Result {
	var res Result
	for _, sub := range msg.Subsets {
		root, err := ResolveReplication(sub)
		if err != nil {
			c.logger.Warn("subset abandoned",
				"message", msg.Index, "subset", sub.Index, "error", err)
			res.Errors = append(res.Errors, err)
			continue
		}

		acc := &accumulator{logger: c.logger}
		records, err := acc.walk(root, NewContext(), sub.Index)
		res.Dropped += acc.dropped
		if err != nil {
			c.logger.Warn("subset abandoned",
				"message", msg.Index, "subset", sub.Index, "error", err)
			res.Errors = append(res.Errors, fmt.Errorf("subset %d: %w", sub.Index, err))
			continue
		}
		res.Records = append(res.Records, records...)
	}
	return res
}
