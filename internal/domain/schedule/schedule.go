package schedule

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule is a recurring class slot.
// Corresponds to the 'schedules' table; only last_notified_date is written by this service.
type Schedule struct {
	ID                   int64
	TeachingAssignmentID int64
	Day                  Day
	StartTime            string // HH:MM or HH:MM:SS
	EndTime              string
	LastNotifiedDate     sql.NullTime
}

// TimeSlot renders the slot the way it appears in reports, e.g. "07:30 - 09:00".
func (s *Schedule) TimeSlot() string {
	return fmt.Sprintf("%s - %s", trimSeconds(s.StartTime), trimSeconds(s.EndTime))
}

// NotifiedOn reports whether the schedule was already notified on the calendar day of date.
func (s *Schedule) NotifiedOn(date time.Time) bool {
	if !s.LastNotifiedDate.Valid {
		return false
	}
	return !dateOnly(s.LastNotifiedDate.Time).Before(dateOnly(date))
}

// EndMinute returns the end time as minutes since midnight.
func (s *Schedule) EndMinute() (int, error) {
	return ParseClock(s.EndTime)
}

// TeachingAssignment is the (teacher, class, subject) triple a schedule hangs off of,
// resolved to display names.
type TeachingAssignment struct {
	ID          int64
	TeacherName string
	SubjectName string
	ClassID     int64
	LevelName   string
	MajorName   string
	RombelName  string
}

// ClassName joins level, major and rombel, e.g. "X RPL 1".
func (ta *TeachingAssignment) ClassName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{ta.LevelName, ta.MajorName, ta.RombelName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
func ParseClock(v string) (int, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock value %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in clock value %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in clock value %q", v)
	}
	return h*60 + m, nil
}

// dateOnly keeps the calendar day of t as seen in t's own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func trimSeconds(v string) string {
	if parts := strings.Split(v, ":"); len(parts) == 3 {
		return parts[0] + ":" + parts[1]
	}
	return v
}
