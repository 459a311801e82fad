package convert

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func numEl(code int, key string, value float64, units string, scale int) bufr.Element {
	return bufr.Element{Code: bufr.Descriptor(code), Key: key, Value: &value, Units: units, Scale: scale}
}

func textEl(code int, key, text string) bufr.Element {
	return bufr.Element{Code: bufr.Descriptor(code), Key: key, Text: text, Units: "CCITT IA5"}
}

func missingEl(code int, key, units string) bufr.Element {
	return bufr.Element{Code: bufr.Descriptor(code), Key: key, Units: units}
}

func markerEl(code int) bufr.Element {
	return bufr.Element{Code: bufr.Descriptor(code), Key: "replication"}
}

func delayedCountEl(n float64) bufr.Element {
	return bufr.Element{
		Code:  bufr.Descriptor(31001),
		Key:   "delayed_descriptor_replication_factor",
		Value: &n,
		Units: "Numeric",
	}
}

// surfaceReportElements is a minimal synoptic report: station identity, time
// and position qualifiers followed by two observed parameters.
func surfaceReportElements() []bufr.Element {
	return []bufr.Element{
		numEl(1001, "block_number", 11, "Numeric", 0),
		numEl(1002, "station_number", 839, "Numeric", 0),
		numEl(4001, "year", 2022, "a", 0),
		numEl(4002, "month", 3, "mon", 0),
		numEl(4003, "day", 20, "d", 0),
		numEl(4004, "hour", 21, "h", 0),
		numEl(4005, "minute", 0, "min", 0),
		numEl(5001, "latitude", 48.25, "deg", 5),
		numEl(6001, "longitude", 16.37, "deg", 5),
		numEl(7030, "height_of_station_ground_above_mean_sea_level", 198, "m", 1),
		numEl(10004, "non_coordinate_pressure", 101320, "Pa", -1),
		numEl(12101, "air_temperature", 294.15, "K", 2),
	}
}

func TestConvertSurfaceReport(t *testing.T) {
	msg := bufr.Message{
		Subsets: []bufr.Subset{{Index: 0, Elements: surfaceReportElements()}},
	}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)
	assert.Zero(t, res.Dropped)

	pressure := res.Records[0]
	assert.Equal(t, "non_coordinate_pressure", pressure.Name)
	require.NotNil(t, pressure.Value)
	assert.Equal(t, 1013.2, *pressure.Value)
	assert.Equal(t, "hPa", pressure.Units)
	assert.Nil(t, pressure.Description)

	temp := res.Records[1]
	assert.Equal(t, "air_temperature", temp.Name)
	require.NotNil(t, temp.Value)
	assert.Equal(t, 21.0, *temp.Value)
	assert.Equal(t, "Celsius", temp.Units)

	for _, rec := range res.Records {
		coords, err := rec.Context.Location()
		require.NoError(t, err)
		assert.Equal(t, []float64{16.37, 48.25, 198}, coords)

		tr, err := rec.Context.Times()
		require.NoError(t, err)
		assert.Equal(t, "2022-03-20T21:00:00Z", tr.Phenomenon)

		wsi, ok := rec.Context.WIGOSIdentifier()
		require.True(t, ok)
		assert.Equal(t, "0-20000-0-11839", wsi)
	}
}

func TestConvertReplicatedLevels(t *testing.T) {
	elements := []bufr.Element{
		numEl(4001, "year", 2022, "a", 0),
		numEl(4002, "month", 3, "mon", 0),
		numEl(5001, "latitude", -31.92, "deg", 5),
		numEl(6001, "longitude", 115.87, "deg", 5),
		markerEl(102003),
		numEl(7032, "height_of_sensor_above_local_ground", 2, "m", 2),
		numEl(12101, "air_temperature", 290.15, "K", 2),
		numEl(7032, "height_of_sensor_above_local_ground", 10, "m", 2),
		numEl(12101, "air_temperature", 289.65, "K", 2),
		numEl(7032, "height_of_sensor_above_local_ground", 50, "m", 2),
		numEl(12101, "air_temperature", 288.15, "K", 2),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 3)

	wantHeights := []float64{2, 10, 50}
	wantTemps := []float64{17.0, 16.5, 15.0}
	for i, rec := range res.Records {
		assert.Equal(t, "air_temperature", rec.Name)
		require.NotNil(t, rec.Value)
		assert.Equal(t, wantTemps[i], *rec.Value)

		require.Len(t, rec.Metadata, 1, "each level carries its own sensor height")
		require.NotNil(t, rec.Metadata[0].Value)
		assert.Equal(t, wantHeights[i], *rec.Metadata[0].Value)
	}
}

func TestConvertDelayedReplication(t *testing.T) {
	elements := []bufr.Element{
		numEl(4001, "year", 2021, "a", 0),
		numEl(4002, "month", 7, "mon", 0),
		numEl(5001, "latitude", 52.52, "deg", 5),
		numEl(6001, "longitude", 13.4, "deg", 5),
		markerEl(101000),
		delayedCountEl(2),
		numEl(20011, "cloud_amount", 3, "CODE TABLE", 0),
		numEl(20011, "cloud_amount", 7, "CODE TABLE", 0),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)
	for _, rec := range res.Records {
		assert.Equal(t, "cloud_amount", rec.Name)
		assert.Nil(t, rec.Value)
		require.NotNil(t, rec.Description)
	}
}

func TestConvertZeroRepetitions(t *testing.T) {
	elements := []bufr.Element{
		numEl(4001, "year", 2021, "a", 0),
		numEl(4002, "month", 7, "mon", 0),
		numEl(5001, "latitude", 52.52, "deg", 5),
		numEl(6001, "longitude", 13.4, "deg", 5),
		markerEl(101000),
		delayedCountEl(0),
		numEl(12101, "air_temperature", 273.15, "K", 2),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors, "zero repetitions is data, not an error")
	require.Len(t, res.Records, 1)
	assert.Equal(t, "air_temperature", res.Records[0].Name)
	assert.Equal(t, 0.0, *res.Records[0].Value)
}

func TestConvertMalformedReplicationIsolatesSubset(t *testing.T) {
	broken := []bufr.Element{
		numEl(4001, "year", 2021, "a", 0),
		markerEl(103002),
		numEl(12101, "air_temperature", 280.15, "K", 2),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{
		{Index: 0, Elements: broken},
		{Index: 1, Elements: surfaceReportElements()},
	}}

	res := New(discardLogger()).Convert(msg)
	require.Len(t, res.Errors, 1)

	var mre *MalformedReplicationError
	require.ErrorAs(t, res.Errors[0], &mre)
	assert.Equal(t, 0, mre.Subset)

	require.Len(t, res.Records, 2, "healthy subset still converts")
	for _, rec := range res.Records {
		assert.Equal(t, 1, rec.Subset)
	}
}

func TestConvertNestedGroupContextIsolation(t *testing.T) {
	elements := []bufr.Element{
		numEl(1001, "block_number", 10, "Numeric", 0),
		numEl(1002, "station_number", 384, "Numeric", 0),
		numEl(4001, "year", 2022, "a", 0),
		numEl(4002, "month", 1, "mon", 0),
		numEl(4003, "day", 1, "d", 0),
		numEl(4004, "hour", 12, "h", 0),
		numEl(5001, "latitude", 52.52, "deg", 5),
		numEl(6001, "longitude", 13.4, "deg", 5),
		markerEl(102001),
		numEl(4004, "hour", 13, "h", 0),
		numEl(12101, "air_temperature", 281.15, "K", 2),
		numEl(12103, "dewpoint_temperature", 275.15, "K", 2),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)

	inGroup, err := res.Records[0].Context.Times()
	require.NoError(t, err)
	assert.Equal(t, "2022-01-01T13:00:00Z", inGroup.Phenomenon)

	afterGroup, err := res.Records[1].Context.Times()
	require.NoError(t, err)
	assert.Equal(t, "2022-01-01T12:00:00Z", afterGroup.Phenomenon,
		"group-local hour must not leak into the parent context")
}

func TestConvertPendingMetadataAttachesToNextRecord(t *testing.T) {
	elements := []bufr.Element{
		numEl(4001, "year", 2022, "a", 0),
		numEl(4002, "month", 6, "mon", 0),
		numEl(5001, "latitude", 59.33, "deg", 5),
		numEl(6001, "longitude", 18.07, "deg", 5),
		textEl(1015, "station_or_site_name", "STOCKHOLM  "),
		numEl(2001, "type_of_station", 0, "CODE TABLE", 0),
		numEl(12101, "air_temperature", 288.15, "K", 2),
		numEl(7032, "height_of_sensor_above_local_ground", 1.5, "m", 2),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	require.Len(t, rec.Metadata, 3)

	assert.Equal(t, "station_or_site_name", rec.Metadata[0].Name)
	require.NotNil(t, rec.Metadata[0].Description)
	assert.Equal(t, "STOCKHOLM", *rec.Metadata[0].Description)
	assert.Nil(t, rec.Metadata[0].Value)

	assert.Equal(t, "type_of_station", rec.Metadata[1].Name)
	require.NotNil(t, rec.Metadata[1].Description)
	assert.Equal(t, "Automatic station", *rec.Metadata[1].Description)

	assert.Equal(t, "height_of_sensor_above_local_ground", rec.Metadata[2].Name,
		"trailing qualifier attaches to the still-open record")
}

func TestConvertMissingValuesDropSilently(t *testing.T) {
	elements := []bufr.Element{
		numEl(4001, "year", 2022, "a", 0),
		numEl(4002, "month", 6, "mon", 0),
		numEl(5001, "latitude", 59.33, "deg", 5),
		numEl(6001, "longitude", 18.07, "deg", 5),
		missingEl(12101, "air_temperature", "K"),
		numEl(12103, "dewpoint_temperature", 275.15, "K", 2),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "dewpoint_temperature", res.Records[0].Name)
	assert.Equal(t, 1, res.Dropped)
}

func TestConvertRecordOrderFollowsStream(t *testing.T) {
	msg := bufr.Message{
		Subsets: []bufr.Subset{{Index: 0, Elements: surfaceReportElements()}},
	}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)
	assert.Less(t, res.Records[0].Pos, res.Records[1].Pos)
	assert.Equal(t, []string{"non_coordinate_pressure", "air_temperature"},
		[]string{res.Records[0].Name, res.Records[1].Name})
}

func TestConvertCoordinateIncrementAbandonsSubset(t *testing.T) {
	elements := []bufr.Element{
		numEl(4001, "year", 2022, "a", 0),
		numEl(4002, "month", 6, "mon", 0),
		numEl(5001, "latitude", 59.33, "deg", 5),
		numEl(5012, "latitude_increment", 0.5, "deg", 5),
		numEl(12101, "air_temperature", 288.15, "K", 2),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Len(t, res.Errors, 1)

	var ude *UnsupportedDescriptorError
	require.ErrorAs(t, res.Errors[0], &ude)
	assert.Equal(t, "latitude_increment", ude.Key)
	assert.Empty(t, res.Records)
}

func TestConvertTextualObservation(t *testing.T) {
	elements := []bufr.Element{
		numEl(4001, "year", 2022, "a", 0),
		numEl(4002, "month", 6, "mon", 0),
		numEl(5001, "latitude", 59.33, "deg", 5),
		numEl(6001, "longitude", 18.07, "deg", 5),
		textEl(20090, "special_phenomena", "AURORA BOREALIS "),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Nil(t, rec.Value)
	require.NotNil(t, rec.Description)
	assert.Equal(t, "AURORA BOREALIS", *rec.Description)
}

func TestConvertCodeTableFallsBackToFigure(t *testing.T) {
	elements := []bufr.Element{
		numEl(4001, "year", 2022, "a", 0),
		numEl(4002, "month", 6, "mon", 0),
		numEl(5001, "latitude", 59.33, "deg", 5),
		numEl(6001, "longitude", 18.07, "deg", 5),
		numEl(20011, "cloud_amount", 99, "CODE TABLE", 0),
	}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 0, Elements: elements}}}

	res := New(discardLogger()).Convert(msg)
	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Nil(t, rec.Description, "unknown figure stays numeric")
	require.NotNil(t, rec.Value)
	assert.Equal(t, 99.0, *rec.Value)
}

func TestConvertSameInputTwiceIsIdentical(t *testing.T) {
	msg := bufr.Message{
		Subsets: []bufr.Subset{{Index: 0, Elements: surfaceReportElements()}},
	}
	c := New(discardLogger())

	a := c.Convert(msg)
	b := c.Convert(msg)
	require.Equal(t, len(a.Records), len(b.Records))
	for i := range a.Records {
		assert.Equal(t, a.Records[i].Name, b.Records[i].Name)
		assert.Equal(t, *a.Records[i].Value, *b.Records[i].Value)
		assert.Equal(t, a.Records[i].Pos, b.Records[i].Pos)
	}
}

func TestConvertErrorsAreTyped(t *testing.T) {
	broken := []bufr.Element{markerEl(105001), numEl(12101, "air_temperature", 280.15, "K", 2)}
	msg := bufr.Message{Subsets: []bufr.Subset{{Index: 3, Elements: broken}}}

	res := New(discardLogger()).Convert(msg)
	require.Len(t, res.Errors, 1)
	assert.True(t, errors.As(res.Errors[0], new(*MalformedReplicationError)))
	assert.Contains(t, res.Errors[0].Error(), "subset 3")
}
