package database

import (
	"context"
	"database/sql"
	"fmt"

	"reportify_notifier/internal/domain/student"
)

type PostgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

func (r *PostgresStudentRepository) ListByClass(ctx context.Context, classID int64) ([]*student.Student, error) {
	query := `SELECT s.id, s.nis, s.name, s.id_class, s.parent_telephone, s.student_telephone, u.email
               FROM students s
               LEFT JOIN users u ON u.id = s.id_user
               WHERE s.id_class = $1
               ORDER BY s.name, s.id`

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing students by class: %w", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		s := &student.Student{}
		if err := rows.Scan(&s.ID, &s.NIS, &s.Name, &s.ClassID, &s.ParentPhone, &s.StudentPhone, &s.AccountEmail); err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}
