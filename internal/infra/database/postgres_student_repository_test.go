package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStudentRepository_ListByClass(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON u.id = s.id_user")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nis", "name", "id_class", "parent_telephone", "student_telephone", "email"}).
			AddRow(100, "12345", "Andi Pratama", 5, "081234567890", nil, "andi@example.com").
			AddRow(101, "12346", "Budi", 5, nil, "0822222222", nil))

	students, err := NewPostgresStudentRepository(db).ListByClass(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, students, 2)

	assert.True(t, students[0].HasParentPhone())
	assert.False(t, students[0].HasStudentPhone())
	assert.Equal(t, "andi@example.com", students[0].Email())

	assert.False(t, students[1].HasParentPhone())
	assert.True(t, students[1].HasStudentPhone())
	assert.Equal(t, "", students[1].Email())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStudentRepository_ListByClass_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM students s")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nis", "name", "id_class", "parent_telephone", "student_telephone", "email"}))

	students, err := NewPostgresStudentRepository(db).ListByClass(context.Background(), 6)
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}
