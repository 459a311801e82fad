package geojson

import (
	"fmt"

	"github.com/obskit/bufr2geojson/internal/bufr"
	"github.com/obskit/bufr2geojson/internal/convert"
)

// Assembler builds profile features from observation records. One assembler
// spans one conversion run so feature identifiers stay unique across every
// message in the batch. Not safe for concurrent use.
type Assembler struct {
	ids *convert.IdentifierGenerator
}

func NewAssembler() *Assembler {
	return &Assembler{ids: convert.NewIdentifierGenerator()}
}

// Assemble resolves a record's context into a complete feature. It fails
// with an IncompleteContextError when the context lacks the coordinates,
// times, or station identity a feature cannot exist without; sibling records
// of the same subset are unaffected.
func (a *Assembler) Assemble(msg bufr.Message, rec convert.Record) (*Feature, error) {
	if (rec.Value == nil) == (rec.Description == nil) {
		return nil, fmt.Errorf("record %s (%s): value and description are mutually exclusive", rec.Code, rec.Name)
	}

	coords, err := rec.Context.Location()
	if err != nil {
		return nil, err
	}
	times, err := rec.Context.Times()
	if err != nil {
		return nil, err
	}
	wsi, ok := rec.Context.WIGOSIdentifier()
	if !ok {
		return nil, &convert.IncompleteContextError{Missing: []string{"station identifier"}}
	}
	if !convert.ValidWSI(wsi) {
		return nil, fmt.Errorf("record %s (%s): malformed WIGOS station identifier %q", rec.Code, rec.Name, wsi)
	}

	id := a.ids.Next(wsi, times.Phenomenon, rec.Name)

	return &Feature{
		ID:         id,
		ConformsTo: []string{ProfileURI},
		ReportID:   reportID(msg, rec.Subset, wsi),
		Type:       "Feature",
		Geometry:   Geometry{Type: "Point", Coordinates: coords},
		Properties: Properties{
			Identifier:             id,
			WIGOSStationIdentifier: wsi,
			PhenomenonTime:         times.Phenomenon,
			ResultTime:             times.Result,
			Name:                   rec.Name,
			Value:                  rec.Value,
			Units:                  rec.Units,
			Description:            rec.Description,
			Metadata:               metadataItems(rec.Metadata),
			Index:                  rec.Pos,
			FXXYYY:                 rec.Code.String(),
		},
	}, nil
}

// reportID names the report the feature came from: station plus the
// message's typical date and time, with the subset index appended when the
// message carries more than one subset.
func reportID(msg bufr.Message, subset int, wsi string) string {
	if msg.Header.TypicalDate == "" || msg.Header.TypicalTime == "" {
		return ""
	}
	id := fmt.Sprintf("WIGOS_%s_%sT%s", wsi, msg.Header.TypicalDate, msg.Header.TypicalTime)
	if len(msg.Subsets) > 1 {
		id = fmt.Sprintf("%s-%d", id, subset)
	}
	return id
}

func metadataItems(items []convert.MetadataItem) []Metadata {
	if len(items) == 0 {
		return nil
	}
	out := make([]Metadata, len(items))
	for i, it := range items {
		out[i] = Metadata{
			Name:        it.Name,
			Value:       it.Value,
			Description: it.Description,
		}
		if it.Units != "" {
			units := it.Units
			out[i].Units = &units
		}
	}
	return out
}
