// Package sink persists assembled features: one GeoJSON document per
// feature, an optional flattened CSV for bulk database loads, and an
// in-memory collection for embedding callers.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/obskit/bufr2geojson/internal/geojson"
)

// GeoJSONWriter writes one pretty-printed <identifier>.geojson document per
// feature into a single output directory. Identifiers are deterministic, so
// re-converting the same input overwrites in place instead of accumulating
// duplicates.
type GeoJSONWriter struct {
	dir    string
	logger *slog.Logger
}

// NewGeoJSONWriter creates the output directory if needed.
func NewGeoJSONWriter(dir string, logger *slog.Logger) (*GeoJSONWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &GeoJSONWriter{dir: dir, logger: logger}, nil
}

// WriteFeatures persists each feature as its own document. Features of one
// message are written together; a cancelled context stops before the next
// document, never mid-file.
func (w *GeoJSONWriter) WriteFeatures(ctx context.Context, features []geojson.Feature) error {
	for i := range features {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := &features[i]
		raw, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return fmt.Errorf("encode feature %s: %w", f.ID, err)
		}
		path := filepath.Join(w.dir, f.ID+".geojson")
		if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
			return fmt.Errorf("write feature %s: %w", f.ID, err)
		}
		w.logger.Debug("feature written", "path", path)
	}
	return nil
}
