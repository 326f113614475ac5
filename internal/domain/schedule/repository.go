package schedule

import (
	"context"
	"time"
)

// Repository defines the schedule reads and the single write this service performs.
type Repository interface {
	// ListPendingForDay returns schedules on day whose last_notified_date is NULL or before today.
	ListPendingForDay(ctx context.Context, day Day, today time.Time) ([]*Schedule, error)
	GetByID(ctx context.Context, id int64) (*Schedule, error)
	GetTeachingAssignment(ctx context.Context, id int64) (*TeachingAssignment, error)
	// MarkNotified sets last_notified_date for the schedule.
	MarkNotified(ctx context.Context, id int64, date time.Time) error
}
