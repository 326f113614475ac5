package report

import (
	"context"
	"time"
)

// Repository defines read access to the session facts of a teaching assignment.
type Repository interface {
	// ListAttendance returns the attendance rows of a schedule on date keyed by student ID.
	ListAttendance(ctx context.Context, scheduleID int64, date time.Time) (map[int64]*Attendance, error)
	// ListRelevantAssignments returns assignments with deadline >= dueFrom OR created_at >= createdFrom,
	// ordered by deadline.
	ListRelevantAssignments(ctx context.Context, teachingAssignmentID int64, dueFrom, createdFrom time.Time) ([]*Assignment, error)
	// ListCompletions returns the student's completion records keyed by assignment ID.
	ListCompletions(ctx context.Context, studentID int64, assignmentIDs []int64) (map[int64]*Completion, error)
	// ListAnnouncements returns announcements dated within [from, to].
	ListAnnouncements(ctx context.Context, teachingAssignmentID int64, from, to time.Time) ([]*Announcement, error)
}
