package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Day is the weekday name stored in schedules.day.
type Day string

const (
	DaySenin  Day = "senin"
	DaySelasa Day = "selasa"
	DayRabu   Day = "rabu"
	DayKamis  Day = "kamis"
	DayJumat  Day = "jumat"
	DaySabtu  Day = "sabtu"
	DayMinggu Day = "minggu"
)

var weekdayToDay = map[time.Weekday]Day{
	time.Monday:    DaySenin,
	time.Tuesday:   DaySelasa,
	time.Wednesday: DayRabu,
	time.Thursday:  DayKamis,
	time.Friday:    DayJumat,
	time.Saturday:  DaySabtu,
	time.Sunday:    DayMinggu,
}

// DayOf maps a calendar date onto the stored weekday name.
func DayOf(t time.Time) Day {
	return weekdayToDay[t.Weekday()]
}

// ParseDay accepts the stored names case-insensitively.
func ParseDay(v string) (Day, error) {
	d := Day(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range weekdayToDay {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown schedule day %q", v)
}
