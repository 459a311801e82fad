package bufr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"camel case", "airTemperature", "air_temperature"},
		{"rank prefix stripped", "#2#airTemperature", "air_temperature"},
		{"long key", "heightOfStationGroundAboveMeanSeaLevel", "height_of_station_ground_above_mean_sea_level"},
		{"wigos key", "wigosLocalIdentifierCharacter", "wigos_local_identifier_character"},
		{"already lower", "latitude", "latitude"},
		{"digit boundary kept together", "pressureReducedToMeanSeaLevel", "pressure_reduced_to_mean_sea_level"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.input))
		})
	}
}

func TestElementRole(t *testing.T) {
	v := 1.0
	tests := []struct {
		name     string
		code     string
		key      string
		expected Role
	}{
		{"replication marker", "103005", "", RoleReplication},
		{"delayed count", "031001", "extended_delayed_descriptor_replication_factor", RoleCount},
		{"operator left by decoder", "207001", "", RoleCount},
		{"latitude coordinate", "005001", "latitude", RoleCoordinate},
		{"time coordinate", "004004", "hour", RoleCoordinate},
		{"identity coordinate", "001001", "block_number", RoleCoordinate},
		{"time period coordinate", "004024", "time_period", RoleCoordinate},
		{"sensor height metadata", "007032", "height_of_sensor_above_local_ground_or_deck_of_marine_platform", RoleMetadata},
		{"station type metadata", "002001", "type_of_station", RoleMetadata},
		{"significance metadata", "008002", "vertical_significance_surface_observations", RoleMetadata},
		{"sea temperature instrument qualifier", "022067", "instrument_type_for_water_temperature_profile_measurement", RoleMetadata},
		{"air temperature primary", "012101", "air_temperature", RolePrimary},
		{"pressure primary", "010004", "pressure", RolePrimary},
		{"station name qualifier", "001015", "station_or_site_name", RoleMetadata},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDescriptor(tt.code)
			assert.NoError(t, err)
			e := Element{Code: d, Key: tt.key, Value: &v}
			assert.Equal(t, tt.expected, e.Role(), "role for %s", tt.code)
		})
	}
}

func TestElementMissing(t *testing.T) {
	v := 283.15
	assert.True(t, Element{}.Missing())
	assert.False(t, Element{Value: &v}.Missing())
	assert.False(t, Element{Text: "SHIP"}.Missing())
}

func TestElementUnitPredicates(t *testing.T) {
	assert.True(t, Element{Units: "CCITT IA5"}.IsCharacter())
	assert.True(t, Element{Units: "CODE TABLE"}.IsCodeTable())
	assert.False(t, Element{Units: "K"}.IsCharacter())
	assert.False(t, Element{Units: "K"}.IsCodeTable())
}

func TestCoordinateKeySets(t *testing.T) {
	assert.True(t, IsLocationKey("latitude"))
	assert.True(t, IsLocationKey("longitude_displacement"))
	assert.True(t, IsLocationKey("height_of_station_ground_above_mean_sea_level"))
	assert.False(t, IsLocationKey("height_of_sensor_above_local_ground_or_deck_of_marine_platform"))

	assert.True(t, IsTimeKey("year"))
	assert.True(t, IsTimeKey("time_period"))
	assert.False(t, IsTimeKey("time_significance"))

	assert.True(t, IsIdentityKey("block_number"))
	assert.True(t, IsIdentityKey("wigos_local_identifier_character"))
	assert.False(t, IsIdentityKey("station_or_site_name"))
}
