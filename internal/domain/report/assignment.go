package report

import (
	"database/sql"
	"time"
)

// Assignment belongs to a teaching assignment.
type Assignment struct {
	ID                   int64
	TeachingAssignmentID int64
	Title                string
	Description          sql.NullString
	Deadline             time.Time
	CreatedAt            time.Time
}

// Completion is a student's StudentAssignment record.
type Completion struct {
	AssignmentID int64
	StudentID    int64
	Done         bool
	Note         sql.NullString
	CompletedAt  sql.NullTime
}

// CompletionState distinguishes "no record" from "recorded as not done".
type CompletionState int

const (
	CompletionNoRecord CompletionState = iota
	CompletionNotDone
	CompletionDone
)

// Label is the localized text shown to parents.
func (c CompletionState) Label() string {
	switch c {
	case CompletionDone:
		return "Sudah selesai"
	case CompletionNotDone:
		return "Belum selesai"
	default:
		return "Belum dikerjakan"
	}
}

// AssignmentProgress pairs an assignment with one student's completion.
type AssignmentProgress struct {
	Assignment Assignment
	State      CompletionState
	Note       string
}

// ProgressFor derives the progress of one student from an optional completion record.
func ProgressFor(a Assignment, c *Completion) AssignmentProgress {
	p := AssignmentProgress{Assignment: a, State: CompletionNoRecord}
	if c == nil {
		return p
	}
	p.State = CompletionNotDone
	if c.Done {
		p.State = CompletionDone
	}
	if c.Note.Valid {
		p.Note = c.Note.String
	}
	return p
}
