package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUnits(t *testing.T) {
	tests := []struct {
		name      string
		in        float64
		units     string
		scale     int
		want      float64
		wantUnits string
	}{
		{name: "kelvin to celsius", in: 300, units: "K", scale: 2, want: 26.85, wantUnits: "Celsius"},
		{name: "pascal to hectopascal", in: 101325, units: "Pa", scale: 0, want: 1013.25, wantUnits: "hPa"},
		{name: "coarse pressure keeps precision", in: 101320, units: "Pa", scale: -1, want: 1013.2, wantUnits: "hPa"},
		{name: "other units untouched", in: 198, units: "m", scale: 1, want: 198, wantUnits: "m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := normalizeUnits(numEl(12101, "x", tt.in, tt.units, tt.scale))
			require.NotNil(t, el.Value)
			assert.Equal(t, tt.want, *el.Value)
			assert.Equal(t, tt.wantUnits, el.Units)
		})
	}
}

func TestNormalizeUnitsMissingValue(t *testing.T) {
	el := normalizeUnits(missingEl(12101, "air_temperature", "K"))
	assert.Nil(t, el.Value)
	assert.Equal(t, "K", el.Units, "missing values are never converted")
}

func TestRoundScale(t *testing.T) {
	assert.Equal(t, 48.24861, roundScale(48.2486149, 5))
	assert.Equal(t, 1010.0, roundScale(1013.2, -1), "negative scale rounds to tens")
	assert.Equal(t, 21.0, roundScale(20.999999999999996, 2))
}
