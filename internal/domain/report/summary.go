package report

import (
	"time"

	"reportify_notifier/internal/domain/student"
)

// SessionSummary is built fresh for every dispatch and never persisted.
type SessionSummary struct {
	Student        student.Student
	ScheduleID     int64
	Date           time.Time
	ClassName      string
	SubjectName    string
	TeacherName    string
	TimeSlot       string
	Attendance     AttendanceStatus
	AttendanceNote string
	Assignments    []AssignmentProgress
	Announcements  []Announcement
}
