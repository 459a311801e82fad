package convert

import (
	"fmt"
	"time"
)

const timeLayout = "2006-01-02T15:04:05Z"

// TimeRange is the resolved temporal extent of an observation. Phenomenon is
// either a single ISO 8601 instant or a "start/end" interval; Result is
// always a single instant, the end of the interval when one applies.
type TimeRange struct {
	Phenomenon string
	Result     string
}

// Times resolves the context's time coordinates. Year and month are
// mandatory; day defaults to the first of the month and the clock fields to
// zero, so monthly and daily summaries resolve to the start of their span.
// An hour of 24 means midnight at the end of the given day and rolls over.
//
// A time_period qualifier turns the instant into an interval. One reported
// period displaces either backwards (negative, period ending at the base
// instant) or forwards; two consecutive periods give both bounds explicitly.
func (c Context) Times() (TimeRange, error) {
	var missing []string
	year, ok := c.value("year")
	if !ok {
		missing = append(missing, "year")
	}
	month, ok := c.value("month")
	if !ok {
		missing = append(missing, "month")
	}
	if len(missing) > 0 {
		return TimeRange{}, &IncompleteContextError{Missing: missing}
	}

	day := c.valueOr("day", 1)
	hour := c.valueOr("hour", 0)
	minute := c.valueOr("minute", 0)
	second := c.valueOr("second", 0)

	dayOffset := 0
	if int(hour) == 24 {
		hour = 0
		dayOffset = 1
	}
	base := time.Date(int(year), time.Month(int(month)), int(day),
		int(hour), int(minute), int(second), 0, time.UTC)
	base = base.AddDate(0, 0, dayOffset)

	period, ok := c.lookup("time_period")
	if !ok || len(period.values) == 0 {
		instant := base.Format(timeLayout)
		return TimeRange{Phenomenon: instant, Result: instant}, nil
	}

	var bounds [2]float64
	switch len(period.values) {
	case 1:
		if v := period.values[0]; v < 0 {
			bounds = [2]float64{v, 0}
		} else {
			bounds = [2]float64{0, v}
		}
	case 2:
		bounds = [2]float64{period.values[0], period.values[1]}
	default:
		return TimeRange{}, &UnsupportedDescriptorError{
			Code:   period.code,
			Key:    "time_period",
			Reason: fmt.Sprintf("%d stacked period values", len(period.values)),
		}
	}

	var ends [2]time.Time
	for i, v := range bounds {
		t, ok := shiftTime(base, period.units, int(v))
		if !ok {
			return TimeRange{}, &UnsupportedDescriptorError{
				Code:   period.code,
				Key:    "time_period",
				Reason: fmt.Sprintf("unhandled period units %q", period.units),
			}
		}
		ends[i] = t
	}
	return TimeRange{
		Phenomenon: ends[0].Format(timeLayout) + "/" + ends[1].Format(timeLayout),
		Result:     ends[1].Format(timeLayout),
	}, nil
}

func (c Context) valueOr(key string, def float64) float64 {
	if v, ok := c.value(key); ok {
		return v
	}
	return def
}

// shiftTime displaces t by v in the Table B period units. Calendar units go
// through AddDate so month lengths and leap years are honoured.
func shiftTime(t time.Time, units string, v int) (time.Time, bool) {
	switch units {
	case "a":
		return t.AddDate(v, 0, 0), true
	case "mon":
		return t.AddDate(0, v, 0), true
	case "d":
		return t.AddDate(0, 0, v), true
	case "h":
		return t.Add(time.Duration(v) * time.Hour), true
	case "min":
		return t.Add(time.Duration(v) * time.Minute), true
	case "s":
		return t.Add(time.Duration(v) * time.Second), true
	}
	return t, false
}
