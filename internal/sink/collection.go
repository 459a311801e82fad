package sink

import (
	"context"
	"sync"

	"github.com/obskit/bufr2geojson/internal/geojson"
)

// Collection buffers features in memory, for callers that want the converted
// batch as a value instead of files on disk. Safe for concurrent writers.
type Collection struct {
	mu       sync.Mutex
	features []geojson.Feature
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) WriteFeatures(_ context.Context, features []geojson.Feature) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.features = append(c.features, features...)
	return nil
}

// Features returns a copy of everything written so far, in write order.
func (c *Collection) Features() []geojson.Feature {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]geojson.Feature, len(c.features))
	copy(out, c.features)
	return out
}

// FeatureCollection wraps the buffered features in a GeoJSON envelope.
func (c *Collection) FeatureCollection() geojson.FeatureCollection {
	return geojson.NewFeatureCollection(c.Features())
}
