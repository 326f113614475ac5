package app

import "time"

// DefaultSweepWindow matches the cron period.
const DefaultSweepWindow = 5 * time.Minute

// SweepWindow selects schedules that just ended: now-Width < end <= now,
// compared at minute resolution on the clock of now's location.
type SweepWindow struct {
	Width time.Duration
}

func (w SweepWindow) minutes() int {
	m := int(w.Width / time.Minute)
	if m <= 0 {
		return int(DefaultSweepWindow / time.Minute)
	}
	return m
}

// Contains reports whether a schedule ending at endMinute (minutes since midnight) is eligible at now.
// A window reaching back past midnight does not wrap into the previous day.
func (w SweepWindow) Contains(endMinute int, now time.Time) bool {
	nowMinute := now.Hour()*60 + now.Minute()
	return endMinute <= nowMinute && endMinute > nowMinute-w.minutes()
}
