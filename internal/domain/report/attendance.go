package report

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// AttendanceStatus is the single attendance variant used across aggregation and formatting.
type AttendanceStatus int

const (
	// AttendanceUnrecorded means no attendance row exists yet; distinct from Absent.
	AttendanceUnrecorded AttendanceStatus = iota
	AttendancePresent
	AttendanceExcused
	AttendanceAbsent
)

// ParseAttendanceStatus maps the stored status column onto the variant.
func ParseAttendanceStatus(v string) (AttendanceStatus, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "hadir":
		return AttendancePresent, nil
	case "izin", "sakit":
		return AttendanceExcused, nil
	case "alfa", "alpha", "alpa":
		return AttendanceAbsent, nil
	default:
		return AttendanceUnrecorded, fmt.Errorf("unknown attendance status %q", v)
	}
}

// Label is the localized text shown to parents.
func (s AttendanceStatus) Label() string {
	switch s {
	case AttendancePresent:
		return "Hadir"
	case AttendanceExcused:
		return "Izin"
	case AttendanceAbsent:
		return "Alpha"
	default:
		return "Belum diabsen"
	}
}

func (s AttendanceStatus) String() string {
	switch s {
	case AttendancePresent:
		return "present"
	case AttendanceExcused:
		return "excused"
	case AttendanceAbsent:
		return "absent"
	default:
		return "unrecorded"
	}
}

// Attendance is one row per (student, schedule, date).
type Attendance struct {
	StudentID  int64
	ScheduleID int64
	Date       time.Time
	Status     AttendanceStatus
	Note       sql.NullString
}
