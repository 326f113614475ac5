package student

import "context"

// Repository defines read access to enrolled students.
type Repository interface {
	ListByClass(ctx context.Context, classID int64) ([]*Student, error)
}
