package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"reportify_notifier/internal/domain/schedule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func TestPostgresScheduleRepository_ListPendingForDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresScheduleRepository(db)

	// 23:30 WIB on the 19th is still the 19th, even though it is the 19th 16:30 UTC.
	today := time.Date(2026, 10, 19, 23, 30, 0, 0, wib)
	notified := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules")).
		WithArgs("senin", "2026-10-19").
		WillReturnRows(sqlmock.NewRows([]string{"id", "id_teaching_assignment", "day", "start_time", "end_time", "last_notified_date"}).
			AddRow(1, 10, "Senin", "08:00:00", "10:00:00", nil).
			AddRow(2, 11, "senin", "10:00", "11:30", notified))

	got, err := repo.ListPendingForDay(context.Background(), schedule.DaySenin, today)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, schedule.DaySenin, got[0].Day)
	assert.False(t, got[0].LastNotifiedDate.Valid)
	assert.Equal(t, "08:00 - 10:00", got[0].TimeSlot())
	assert.True(t, got[1].LastNotifiedDate.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresScheduleRepository_ListPendingForDay_BadDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "id_teaching_assignment", "day", "start_time", "end_time", "last_notified_date"}).
			AddRow(1, 10, "monday", "08:00", "10:00", nil))

	_, err = NewPostgresScheduleRepository(db).ListPendingForDay(context.Background(), schedule.DaySenin, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monday")
}

func TestPostgresScheduleRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "id_teaching_assignment", "day", "start_time", "end_time", "last_notified_date"}).
			AddRow(1, 10, "rabu", "07:30", "09:00", nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), s.TeachingAssignmentID)
	assert.Equal(t, schedule.DayRabu, s.Day)

	_, err = repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresScheduleRepository_GetTeachingAssignment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM teaching_assignments ta")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher", "subject", "class", "level", "major", "rombel"}).
			AddRow(10, "Sari Wulandari", "Matematika", 5, "X", "RPL", "1"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM teaching_assignments ta")).
		WithArgs(int64(99)).
		WillReturnError(errors.New("connection reset by peer"))

	ta, err := repo.GetTeachingAssignment(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "X RPL 1", ta.ClassName())
	assert.Equal(t, int64(5), ta.ClassID)

	_, err = repo.GetTeachingAssignment(context.Background(), 99)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTeachingAssignmentNotFound)
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresScheduleRepository_GetTeachingAssignment_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM teaching_assignments ta")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewPostgresScheduleRepository(db).GetTeachingAssignment(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTeachingAssignmentNotFound)
}

func TestPostgresScheduleRepository_MarkNotified(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedules SET last_notified_date = $1::date WHERE id = $2")).
		WithArgs("2026-10-19", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedules")).
		WithArgs("2026-10-19", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	date := time.Date(2026, 10, 19, 0, 0, 0, 0, wib)
	require.NoError(t, repo.MarkNotified(context.Background(), 1, date))
	assert.ErrorIs(t, repo.MarkNotified(context.Background(), 404, date), ErrScheduleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
