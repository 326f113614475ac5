package report

import "time"

// Announcement belongs to a teaching assignment.
type Announcement struct {
	ID                   int64
	TeachingAssignmentID int64
	Title                string
	Body                 string
	Date                 time.Time
}
