package convert

import (
	"maps"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

// entry is one coordinate qualifier in force. Numeric qualifiers carry one
// value, or two when the same key repeats back to back (time bounds).
// Character qualifiers carry text instead.
type entry struct {
	code   bufr.Descriptor
	values []float64
	text   string
	units  string
	scale  int
}

// Context holds the coordinate qualifiers in force at a point in the
// descriptor stream: station identity, horizontal and vertical position, and
// the time coordinates. It is a value type with copy-on-write semantics, so
// a nested replication group can refine its own view without disturbing the
// parent's.
type Context struct {
	entries map[string]entry
}

// NewContext returns an empty context.
func NewContext() Context {
	return Context{}
}

func (c Context) lookup(key string) (entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// value returns the single numeric value for key. Paired entries yield the
// most recent value.
func (c Context) value(key string) (float64, bool) {
	e, ok := c.entries[key]
	if !ok || len(e.values) == 0 {
		return 0, false
	}
	return e.values[len(e.values)-1], true
}

func (c Context) textValue(key string) (string, bool) {
	e, ok := c.entries[key]
	if !ok || e.text == "" {
		return "", false
	}
	return e.text, true
}

func (c Context) with(key string, e entry) Context {
	m := make(map[string]entry, len(c.entries)+1)
	maps.Copy(m, c.entries)
	m[key] = e
	return Context{entries: m}
}

func (c Context) without(key string) Context {
	if _, ok := c.entries[key]; !ok {
		return c
	}
	m := make(map[string]entry, len(c.entries))
	maps.Copy(m, c.entries)
	delete(m, key)
	return Context{entries: m}
}

// unsupportedCoordinates are increment descriptors whose arithmetic the
// engine does not implement. Reporting them as qualifiers would silently
// shift every following observation, so they abort the subset instead.
var unsupportedCoordinates = map[string]string{
	"latitude_increment":  "coordinate increments are not applied",
	"longitude_increment": "coordinate increments are not applied",
	"time_increment":      "time increments are not applied",
}

// Apply folds one coordinate element into the context, returning the derived
// context. A missing value takes the qualifier out of force. Consecutive
// repeats of the same class 04..07 key extend the entry into a pair, which
// is how period bounds arrive on the wire. prevKey is the key of the element
// immediately before this one in the stream.
func (c Context) Apply(el bufr.Element, prevKey string) (Context, error) {
	if reason, ok := unsupportedCoordinates[el.Key]; ok {
		return c, &UnsupportedDescriptorError{Code: el.Code, Key: el.Key, Reason: reason}
	}
	if el.Missing() {
		return c.without(el.Key), nil
	}
	if el.IsCharacter() {
		return c.with(el.Key, entry{code: el.Code, text: el.Text, units: el.Units, scale: el.Scale}), nil
	}
	e := entry{code: el.Code, values: []float64{*el.Value}, units: el.Units, scale: el.Scale}
	x := el.Code.X()
	if x >= 4 && x <= 7 && el.Key == prevKey {
		if prev, ok := c.entries[el.Key]; ok {
			e.values = append(append([]float64(nil), prev.values...), *el.Value)
		}
	}
	return c.with(el.Key, e), nil
}
