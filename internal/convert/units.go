package convert

import (
	"math"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

// Table B reports thermodynamic quantities in SI base units. Downstream
// consumers expect the conventional meteorological units instead, so those
// values are converted before any record or qualifier is built.
//
// A Pa to hPa conversion shifts the decimal point two places, so the
// element's scale is widened by the same amount to keep the reported
// precision.

func normalizeUnits(el bufr.Element) bufr.Element {
	if el.Value == nil {
		return el
	}
	v := *el.Value
	switch el.Units {
	case "K":
		v -= 273.15
		el.Units = "Celsius"
	case "Pa":
		v /= 100
		el.Units = "hPa"
		el.Scale += 2
	default:
		return el
	}
	v = roundScale(v, el.Scale)
	el.Value = &v
	return el
}

// roundScale rounds v to the precision implied by a Table B scale factor.
// Negative scales round to tens, hundreds and so on.
func roundScale(v float64, scale int) float64 {
	p := math.Pow(10, float64(scale))
	return math.Round(v*p) / p
}
