package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reportify_notifier/internal/domain/report"

	"github.com/lib/pq" // For pq.Array
)

type PostgresReportRepository struct {
	db *sql.DB
}

func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) ListAttendance(ctx context.Context, scheduleID int64, date time.Time) (map[int64]*report.Attendance, error) {
	query := `SELECT id_student, id_schedule, date, status, note
               FROM attendances
               WHERE id_schedule = $1 AND date = $2::date
               ORDER BY id` // later rows win if the CRUD side ever duplicated one
	rows, err := r.db.QueryContext(ctx, query, scheduleID, sqlDate(date))
	if err != nil {
		return nil, fmt.Errorf("error listing attendance for schedule %d: %w", scheduleID, err)
	}
	defer rows.Close()

	attendance := make(map[int64]*report.Attendance)
	for rows.Next() {
		a := &report.Attendance{}
		var status string
		if err := rows.Scan(&a.StudentID, &a.ScheduleID, &a.Date, &status, &a.Note); err != nil {
			return nil, fmt.Errorf("error scanning attendance: %w", err)
		}
		a.Status, err = report.ParseAttendanceStatus(status)
		if err != nil {
			return nil, fmt.Errorf("attendance of student %d: %w", a.StudentID, err)
		}
		attendance[a.StudentID] = a
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}
	return attendance, nil
}

func (r *PostgresReportRepository) ListRelevantAssignments(ctx context.Context, teachingAssignmentID int64, dueFrom, createdFrom time.Time) ([]*report.Assignment, error) {
	query := `SELECT id, id_teaching_assignment, assignment_title, assignment_desc, deadline, created_at
               FROM assignments
               WHERE id_teaching_assignment = $1
                 AND (deadline >= $2::date OR created_at >= $3::date)
               ORDER BY deadline ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, teachingAssignmentID, sqlDate(dueFrom), sqlDate(createdFrom))
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*report.Assignment, 0)
	for rows.Next() {
		a := &report.Assignment{}
		if err := rows.Scan(&a.ID, &a.TeachingAssignmentID, &a.Title, &a.Description, &a.Deadline, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return assignments, nil
}

func (r *PostgresReportRepository) ListCompletions(ctx context.Context, studentID int64, assignmentIDs []int64) (map[int64]*report.Completion, error) {
	completions := make(map[int64]*report.Completion)
	if len(assignmentIDs) == 0 {
		return completions, nil
	}

	query := `SELECT id_assignment, id_student, status, note, completed_at
               FROM student_assignments
               WHERE id_student = $1 AND id_assignment = ANY($2::bigint[])`
	rows, err := r.db.QueryContext(ctx, query, studentID, pq.Array(assignmentIDs))
	if err != nil {
		return nil, fmt.Errorf("error listing completions for student %d: %w", studentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		c := &report.Completion{}
		if err := rows.Scan(&c.AssignmentID, &c.StudentID, &c.Done, &c.Note, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("error scanning completion: %w", err)
		}
		completions[c.AssignmentID] = c
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completions: %w", err)
	}
	return completions, nil
}

func (r *PostgresReportRepository) ListAnnouncements(ctx context.Context, teachingAssignmentID int64, from, to time.Time) ([]*report.Announcement, error) {
	query := `SELECT id, id_teaching_assignment, title, COALESCE("desc", ''), date
               FROM announcements
               WHERE id_teaching_assignment = $1 AND date BETWEEN $2::date AND $3::date
               ORDER BY date DESC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, teachingAssignmentID, sqlDate(from), sqlDate(to))
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	announcements := make([]*report.Announcement, 0)
	for rows.Next() {
		a := &report.Announcement{}
		if err := rows.Scan(&a.ID, &a.TeachingAssignmentID, &a.Title, &a.Body, &a.Date); err != nil {
			return nil, fmt.Errorf("error scanning announcement: %w", err)
		}
		announcements = append(announcements, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcements: %w", err)
	}
	return announcements, nil
}
