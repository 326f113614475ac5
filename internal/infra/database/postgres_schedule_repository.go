package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reportify_notifier/internal/domain/schedule"
)

// Custom errors specific to schedule repository
var ErrScheduleNotFound = fmt.Errorf("schedule not found")
var ErrTeachingAssignmentNotFound = fmt.Errorf("teaching assignment not found")

type PostgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

const scheduleColumns = `id, id_teaching_assignment, day, start_time, end_time, last_notified_date`

func scanSchedule(row interface{ Scan(...any) error }) (*schedule.Schedule, error) {
	s := &schedule.Schedule{}
	var day string
	if err := row.Scan(&s.ID, &s.TeachingAssignmentID, &day, &s.StartTime, &s.EndTime, &s.LastNotifiedDate); err != nil {
		return nil, err
	}
	parsed, err := schedule.ParseDay(day)
	if err != nil {
		return nil, fmt.Errorf("schedule %d: %w", s.ID, err)
	}
	s.Day = parsed
	return s, nil
}

func (r *PostgresScheduleRepository) ListPendingForDay(ctx context.Context, day schedule.Day, today time.Time) ([]*schedule.Schedule, error) {
	query := `SELECT ` + scheduleColumns + `
               FROM schedules
               WHERE LOWER(day) = $1 AND (last_notified_date IS NULL OR last_notified_date < $2::date)
               ORDER BY end_time, id`
	rows, err := r.db.QueryContext(ctx, query, string(day), sqlDate(today))
	if err != nil {
		return nil, fmt.Errorf("error listing pending schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]*schedule.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}
	return schedules, nil
}

func (r *PostgresScheduleRepository) GetByID(ctx context.Context, id int64) (*schedule.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("error getting schedule by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresScheduleRepository) GetTeachingAssignment(ctx context.Context, id int64) (*schedule.TeachingAssignment, error) {
	query := `SELECT ta.id, u.name, subj.name, c.id, COALESCE(l.name, ''), COALESCE(m.name, ''), COALESCE(rb.name, '')
               FROM teaching_assignments ta
               JOIN users u ON u.id = ta.id_user
               JOIN subjects subj ON subj.id = ta.id_subject
               JOIN classes c ON c.id = ta.id_class
               LEFT JOIN levels l ON l.id = c.id_level
               LEFT JOIN majors m ON m.id = c.id_major
               LEFT JOIN rombels rb ON rb.id = c.id_rombel
               WHERE ta.id = $1`
	ta := &schedule.TeachingAssignment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ta.ID, &ta.TeacherName, &ta.SubjectName, &ta.ClassID, &ta.LevelName, &ta.MajorName, &ta.RombelName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTeachingAssignmentNotFound
		}
		return nil, fmt.Errorf("error getting teaching assignment by ID: %w", err)
	}
	return ta, nil
}

func (r *PostgresScheduleRepository) MarkNotified(ctx context.Context, id int64, date time.Time) error {
	query := `UPDATE schedules SET last_notified_date = $1::date WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, sqlDate(date), id)
	if err != nil {
		return fmt.Errorf("error marking schedule %d notified: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for schedule %d: %w", id, err)
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// sqlDate renders the calendar day of t in its own location, so DATE columns
// receive the school-local day regardless of the session time zone.
func sqlDate(t time.Time) string {
	return t.Format("2006-01-02")
}
