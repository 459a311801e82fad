package sink

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/obskit/bufr2geojson/internal/geojson"
)

// csvHeader is the flattened observation layout bulk database loaders
// consume. Interval phenomenon times are split across startTime and
// phenomenonTime; the metadata column carries a digest of the feature's
// metadata array so rows stay fixed-width.
var csvHeader = []string{
	"identifier",
	"reportId",
	"resultTime",
	"wsi",
	"phenomenonTime",
	"startTime",
	"location",
	"zcoordinate",
	"observedPhenomenon",
	"uom",
	"resultValue",
	"description",
	"metadata",
}

// CSVFlattener writes one observation row per feature to a single CSV file.
// The file is created lazily on the first feature, so a run that produces
// nothing leaves nothing behind. Not safe for concurrent use.
type CSVFlattener struct {
	path string
	file *os.File
	w    *csv.Writer
}

func NewCSVFlattener(path string) *CSVFlattener {
	return &CSVFlattener{path: path}
}

// Path returns the output file location.
func (c *CSVFlattener) Path() string { return c.path }

// WriteFeatures appends one row per feature.
func (c *CSVFlattener) WriteFeatures(ctx context.Context, features []geojson.Feature) error {
	if len(features) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.file == nil {
		f, err := os.Create(c.path)
		if err != nil {
			return fmt.Errorf("create observations csv: %w", err)
		}
		c.file = f
		c.w = csv.NewWriter(f)
		if err := c.w.Write(csvHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	for i := range features {
		row, err := flattenFeature(&features[i])
		if err != nil {
			return err
		}
		if err := c.w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes and closes the underlying file. Safe to call when no
// feature was ever written.
func (c *CSVFlattener) Close() error {
	if c.file == nil {
		return nil
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}

func flattenFeature(f *geojson.Feature) ([]string, error) {
	digest, err := metadataDigest(f.Properties.Metadata)
	if err != nil {
		return nil, fmt.Errorf("feature %s: %w", f.ID, err)
	}

	phenomenon := f.Properties.PhenomenonTime
	start := ""
	if s, end, ok := strings.Cut(phenomenon, "/"); ok {
		start, phenomenon = s, end
	}

	coords := f.Geometry.Coordinates
	if len(coords) < 2 {
		return nil, fmt.Errorf("feature %s: point geometry needs two coordinates", f.ID)
	}
	location := fmt.Sprintf("POINT(%s %s)", formatFloat(coords[0]), formatFloat(coords[1]))
	z := ""
	if len(coords) > 2 {
		z = formatFloat(coords[2])
	}

	value := ""
	if f.Properties.Value != nil {
		value = formatFloat(*f.Properties.Value)
	}
	description := ""
	if f.Properties.Description != nil {
		description = *f.Properties.Description
	}

	return []string{
		f.ID,
		f.ReportID,
		f.Properties.ResultTime,
		f.Properties.WIGOSStationIdentifier,
		phenomenon,
		start,
		location,
		z,
		f.Properties.Name,
		f.Properties.Units,
		value,
		description,
		digest,
	}, nil
}

// metadataDigest fingerprints the metadata array so identical qualifier sets
// collapse to the same key in downstream joins. Empty metadata digests to an
// empty string, not the hash of an empty document.
func metadataDigest(items []geojson.Metadata) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
