package student

import "database/sql"

// Student is a student enrolled in exactly one class.
type Student struct {
	ID           int64
	NIS          string
	Name         string
	ClassID      int64
	ParentPhone  sql.NullString // required by the CRUD side, but NULL rows exist
	StudentPhone sql.NullString
	AccountEmail sql.NullString // users.email of the linked account, used for email fallback
}

// HasParentPhone reports whether a non-blank parent phone is stored.
func (s *Student) HasParentPhone() bool {
	return s.ParentPhone.Valid && s.ParentPhone.String != ""
}

// HasStudentPhone reports whether a non-blank student phone is stored.
func (s *Student) HasStudentPhone() bool {
	return s.StudentPhone.Valid && s.StudentPhone.String != ""
}

// Email returns the fallback address, or "" when none is resolvable.
func (s *Student) Email() string {
	if !s.AccountEmail.Valid {
		return ""
	}
	return s.AccountEmail.String
}
