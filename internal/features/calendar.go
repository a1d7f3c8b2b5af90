package features

import "math"

const (
	daysPerWeek   = 7
	monthsPerYear = 12
	weekendCutoff = 5 // day_of_week 5=Saturday, 6=Sunday
)

// encodeCalendar derives the calendar feature family for a single row.
// Row-independent and order-independent; the date is already parsed by the
// time rows reach the pipeline, so this stage cannot fail.
func encodeCalendar(dayOfWeek, month int) CalendarFeatures {
	feats := CalendarFeatures{Month: month}
	if dayOfWeek >= weekendCutoff {
		feats.IsWeekend = 1
	}

	feats.DaySin = math.Sin(2 * math.Pi * float64(dayOfWeek) / daysPerWeek)
	feats.DayCos = math.Cos(2 * math.Pi * float64(dayOfWeek) / daysPerWeek)
	feats.MonthSin = math.Sin(2 * math.Pi * float64(month) / monthsPerYear)
	feats.MonthCos = math.Cos(2 * math.Pi * float64(month) / monthsPerYear)

	return feats
}
