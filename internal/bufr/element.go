package bufr

import (
	"regexp"
	"strings"
)

// Role classifies how the conversion engine treats a decoded element.
// The set is closed; dispatch on it exhaustively.
type Role int

const (
	// RolePrimary marks an observed parameter (classes 10 and above).
	// Each non-missing primary element becomes one observation record.
	RolePrimary Role = iota
	// RoleCoordinate marks a qualifier that updates the observation context:
	// station identity, time, or horizontal/vertical location.
	RoleCoordinate
	// RoleMetadata marks a qualifier that describes the next observation
	// (sensor height, significance flags, instrumentation) without moving it.
	RoleMetadata
	// RoleReplication marks an F=1 descriptor opening a repeated span.
	RoleReplication
	// RoleCount marks replication bookkeeping: class 31 delayed counts and
	// any operator descriptors a decoder leaves in the stream. Consumed by
	// the replication resolver, never reported.
	RoleCount
)

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleCoordinate:
		return "coordinate"
	case RoleMetadata:
		return "metadata"
	case RoleReplication:
		return "replication"
	case RoleCount:
		return "count"
	default:
		return "unknown"
	}
}

// seaTemperatureInstrument (022067) lives in data class 22 but acts as an
// instrumentation qualifier for the profile measurements that follow it.
const seaTemperatureInstrument Descriptor = 22067

// Element is one decoded unit from a BUFR subset stream. Value holds numeric
// data (nil when the source encodes a missing value); Text holds character
// data for CCITT IA5 elements. At most one of the two is populated.
type Element struct {
	Code  Descriptor
	Key   string // normalized name, see NormalizeKey
	Value *float64
	Text  string
	Units string
	Scale int
}

// Missing reports whether the element carries no data at all.
func (e Element) Missing() bool { return e.Value == nil && e.Text == "" }

// IsCharacter reports whether the element carries character data.
func (e Element) IsCharacter() bool { return e.Units == "CCITT IA5" }

// IsCodeTable reports whether the element's value is a coded table entry.
func (e Element) IsCodeTable() bool { return e.Units == "CODE TABLE" }

// Role derives the element's dispatch role from its descriptor and key.
func (e Element) Role() Role {
	switch e.Code.F() {
	case 1:
		return RoleReplication
	case 2, 3:
		return RoleCount
	}
	x := e.Code.X()
	switch {
	case x == 31:
		return RoleCount
	case (x >= 1 && x <= 9) || e.Code == seaTemperatureInstrument:
		if IsLocationKey(e.Key) || IsTimeKey(e.Key) || IsIdentityKey(e.Key) {
			return RoleCoordinate
		}
		return RoleMetadata
	default:
		return RolePrimary
	}
}

// Subset is one independent observation stream within a message.
type Subset struct {
	Index    int
	Elements []Element
}

// Header carries the BUFR section 1 identification fields surfaced by the
// decoder, used for report-level output and identifier generation.
type Header struct {
	Edition              int    `json:"edition"`
	MasterTable          int    `json:"masterTableNumber"`
	MasterTableVersion   int    `json:"masterTablesVersionNumber"`
	OriginatingCentre    int    `json:"bufrHeaderCentre"`
	OriginatingSubCentre int    `json:"bufrHeaderSubCentre"`
	DataCategory         int    `json:"dataCategory"`
	DataSubCategory      int    `json:"internationalDataSubCategory"`
	TypicalDate          string `json:"typicalDate"` // YYYYMMDD
	TypicalTime          string `json:"typicalTime"` // HHMMSS
	Sequence             string `json:"sequence"`    // unexpanded descriptors, comma-joined
}

// Message is one decoded BUFR message: header plus one or more subsets.
type Message struct {
	Index   int
	Header  Header
	Subsets []Subset
}

var (
	rankPrefixRe = regexp.MustCompile(`#[0-9]+#`)
	camelBoundRe = regexp.MustCompile(`([a-z])([A-Z])`)
)

// NormalizeKey strips the replication rank prefix and converts a decoder
// camelCase name to snake_case: "#2#airTemperature" -> "air_temperature".
func NormalizeKey(key string) string {
	key = rankPrefixRe.ReplaceAllString(key, "")
	key = camelBoundRe.ReplaceAllString(key, "${1}_${2}")
	return strings.ToLower(key)
}

// Coordinate key sets. Keys appearing here (within qualifier classes) steer
// the observation context; all other qualifiers ride along as metadata.
var (
	locationKeys = map[string]struct{}{
		"latitude":               {},
		"latitude_increment":     {},
		"latitude_displacement":  {},
		"longitude":              {},
		"longitude_increment":    {},
		"longitude_displacement": {},
		"height_of_station_ground_above_mean_sea_level": {},
	}

	timeKeys = map[string]struct{}{
		"year":           {},
		"month":          {},
		"day":            {},
		"hour":           {},
		"minute":         {},
		"second":         {},
		"time_increment": {},
		"time_period":    {},
	}

	identityKeys = map[string]struct{}{
		"block_number":   {},
		"station_number": {},
		"ship_or_mobile_land_station_identifier":              {},
		"wmo_region_sub_area":                                 {},
		"region_number":                                       {},
		"buoy_or_platform_identifier":                         {},
		"stationary_buoy_platform_identifier_e_g_c_man_buoys": {},
		"marine_observing_platform_identifier":                {},
		"wigos_identifier_series":                             {},
		"wigos_issuer_of_identifier":                          {},
		"wigos_issue_number":                                  {},
		"wigos_local_identifier_character":                    {},
	}
)

// IsLocationKey reports whether key is a horizontal/vertical station
// coordinate descriptor name.
func IsLocationKey(key string) bool { _, ok := locationKeys[key]; return ok }

// IsTimeKey reports whether key is a time coordinate descriptor name.
func IsTimeKey(key string) bool { _, ok := timeKeys[key]; return ok }

// IsIdentityKey reports whether key is a station identification descriptor name.
func IsIdentityKey(key string) bool { _, ok := identityKeys[key]; return ok }
