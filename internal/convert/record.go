package convert

import (
	"strings"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

// MetadataItem is one descriptive qualifier attached to a record: sensor
// height, significance flags, instrumentation. Exactly one of Value and
// Description is set.
type MetadataItem struct {
	Name        string
	Value       *float64
	Units       string
	Description *string
}

// Record is one observed parameter together with the coordinate context in
// force when it was reported. Exactly one of Value and Description is set:
// numeric observations carry Value, character data and decoded table entries
// carry Description.
type Record struct {
	Subset      int
	Pos         int // position in the subset's flat element stream
	Code        bufr.Descriptor
	Name        string
	Value       *float64
	Units       string
	Description *string
	Metadata    []MetadataItem
	Context     Context
}

// resolveElement maps an element's payload onto the value/description pair.
// Code table figures resolve to their entry name when the table knows them
// and stay numeric otherwise. Both nil means the element carried nothing
// reportable.
func resolveElement(el bufr.Element) (*float64, *string) {
	if el.IsCharacter() {
		text := strings.TrimSpace(el.Text)
		if text == "" {
			return nil, nil
		}
		return nil, &text
	}
	if el.IsCodeTable() && el.Value != nil {
		if name, ok := bufr.LookupCode(el.Code, int(*el.Value)); ok {
			return nil, &name
		}
	}
	return el.Value, nil
}
