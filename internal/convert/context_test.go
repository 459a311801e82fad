package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextApplyCopyOnWrite(t *testing.T) {
	base := NewContext()
	base, err := base.Apply(numEl(4004, "hour", 12, "h", 0), "")
	require.NoError(t, err)

	derived, err := base.Apply(numEl(4004, "hour", 13, "h", 0), "")
	require.NoError(t, err)

	v, ok := base.value("hour")
	require.True(t, ok)
	assert.Equal(t, 12.0, v, "parent context untouched by derived write")

	v, ok = derived.value("hour")
	require.True(t, ok)
	assert.Equal(t, 13.0, v)
}

func TestContextApplyMissingRemovesQualifier(t *testing.T) {
	ctx, err := NewContext().Apply(numEl(4004, "hour", 12, "h", 0), "")
	require.NoError(t, err)

	ctx, err = ctx.Apply(missingEl(4004, "hour", "h"), "")
	require.NoError(t, err)

	_, ok := ctx.value("hour")
	assert.False(t, ok, "missing value takes the qualifier out of force")
}

func TestContextApplyPairsConsecutiveRepeats(t *testing.T) {
	ctx, err := NewContext().Apply(numEl(4024, "time_period", -6, "h", 0), "")
	require.NoError(t, err)
	ctx, err = ctx.Apply(numEl(4024, "time_period", -3, "h", 0), "time_period")
	require.NoError(t, err)

	e, ok := ctx.lookup("time_period")
	require.True(t, ok)
	assert.Equal(t, []float64{-6, -3}, e.values)
}

func TestContextApplySeparatedRepeatReplaces(t *testing.T) {
	ctx, err := NewContext().Apply(numEl(4024, "time_period", -6, "h", 0), "")
	require.NoError(t, err)
	ctx, err = ctx.Apply(numEl(4024, "time_period", -3, "h", 0), "air_temperature")
	require.NoError(t, err)

	e, ok := ctx.lookup("time_period")
	require.True(t, ok)
	assert.Equal(t, []float64{-3}, e.values)
}

func TestContextApplyCharacterQualifier(t *testing.T) {
	ctx, err := NewContext().Apply(textEl(1019, "long_station_name", "VIENNA"), "")
	require.NoError(t, err)

	text, ok := ctx.textValue("long_station_name")
	require.True(t, ok)
	assert.Equal(t, "VIENNA", text)
}

func TestContextApplyIncrementRejected(t *testing.T) {
	_, err := NewContext().Apply(numEl(5012, "latitude_increment", 0.5, "deg", 5), "")
	var ude *UnsupportedDescriptorError
	require.ErrorAs(t, err, &ude)
	assert.Equal(t, "latitude_increment", ude.Key)
}
