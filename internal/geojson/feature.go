// Package geojson models the WMO observation profile of GeoJSON: one
// Feature per observed parameter, carrying the station identity, temporal
// extent and descriptive metadata resolved during conversion. The package
// also validates assembled features against the embedded profile schema.
package geojson

// ProfileURI identifies the WMO O&M GeoJSON profile requirement class every
// emitted feature conforms to.
const ProfileURI = "http://www.wmo.int/spec/om-profile-1/1.0/req/geojson"

// Feature is one observed parameter expressed as a profile GeoJSON Feature.
type Feature struct {
	ID         string     `json:"id"`
	ConformsTo []string   `json:"conformsTo"`
	ReportID   string     `json:"reportId,omitempty"`
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
	Links      []Link     `json:"links,omitempty"`
}

// Geometry is the feature's point location: [longitude, latitude] with an
// optional third element for station elevation in metres.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Properties carries the observation payload. Value and Description are
// mutually exclusive: numeric observations populate Value, character data
// and decoded code table entries populate Description. Both keys always
// serialize so consumers can rely on their presence.
type Properties struct {
	Identifier             string     `json:"identifier"`
	WIGOSStationIdentifier string     `json:"wigos_station_identifier"`
	PhenomenonTime         string     `json:"phenomenonTime"`
	ResultTime             string     `json:"resultTime"`
	Name                   string     `json:"name"`
	Value                  *float64   `json:"value"`
	Units                  string     `json:"units"`
	Description            *string    `json:"description"`
	Metadata               []Metadata `json:"metadata,omitempty"`
	Index                  int        `json:"index"`
	FXXYYY                 string     `json:"fxxyyy,omitempty"`
}

// Metadata is one descriptive qualifier that was in force when the
// observation was reported.
type Metadata struct {
	Name        string   `json:"name"`
	Value       *float64 `json:"value"`
	Units       *string  `json:"units"`
	Description *string  `json:"description"`
}

// Link is a related-resource reference in the style of RFC 8288.
type Link struct {
	Href  string `json:"href"`
	Rel   string `json:"rel"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// FeatureCollection groups features for consumers that want a single
// document instead of one file per feature.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection wraps features in a FeatureCollection envelope.
func NewFeatureCollection(features []Feature) FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
