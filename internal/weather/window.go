package weather

import (
	"strings"
	"time"
)

const (
	dayLayout  = "2006-01-02"
	hourLayout = "2006-01-02 15:04"
)

// SelectHours picks the upcoming hourly entries relative to now, evaluated in
// loc regardless of the process timezone: the remainder of today (hour-of-day
// >= now's hour-of-day) followed by all of the next forecast day. The result
// is that concatenation order, not a global timestamp sort. When no forecast
// day matches today's calendar date in loc, the result is empty.
func SelectHours(days []ForecastDay, now time.Time, loc *time.Location) []Hour {
	local := now.In(loc)
	today := local.Format(dayLayout)

	idx := -1
	for i, d := range days {
		if d.Date == today {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	currentHour := local.Hour()

	var result []Hour
	for _, h := range days[idx].Hour {
		t, err := time.ParseInLocation(hourLayout, h.Time, loc)
		if err != nil {
			continue
		}
		if t.Hour() >= currentHour {
			result = append(result, h)
		}
	}

	if idx+1 < len(days) {
		result = append(result, days[idx+1].Hour...)
	}

	return result
}

// FormatHourLabel renders the two-digit hour-of-day of a "2006-01-02 15:04"
// wall-clock string, interpreted in loc. Unparseable input degrades to the
// token after the last space rather than an error.
func FormatHourLabel(timeStr string, loc *time.Location) string {
	t, err := time.ParseInLocation(hourLayout, timeStr, loc)
	if err != nil {
		if i := strings.LastIndex(timeStr, " "); i >= 0 {
			return timeStr[i+1:]
		}
		return timeStr
	}
	return t.Format("15")
}
