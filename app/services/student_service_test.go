package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func studentRow(id, matricule, yearID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "other_names", "matricule", "gender",
		"date_of_birth", "guardian_name", "guardian_phone", "reduction_percent",
		"status", "notes", "school_year_id", "classroom_id", "class_group_id",
		"created_at", "updated_at",
	}).AddRow(id, "Amina", "Nakato", nil, matricule, "F",
		nil, nil, nil, 0.0,
		"active", nil, yearID, nil, nil,
		now, now)
}

func TestResolveSchoolYearID(t *testing.T) {
	t.Run("explicit year must exist", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM school_years WHERE id = ").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "start_date", "end_date", "is_active", "created_at", "updated_at",
			}))

		_, err = resolveSchoolYearID(db, "missing")
		require.Error(t, err)
		assert.Equal(t, CodeSchoolYearNotFound, CodeOf(err))
	})

	t.Run("falls back to the active year", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM school_years WHERE is_active = true").
			WillReturnRows(schoolYearRow("year-1", "2025-2026", true))

		resolved, err := resolveSchoolYearID(db, "")
		require.NoError(t, err)
		assert.Equal(t, "year-1", resolved)
	})

	t.Run("empty when nothing is active", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM school_years WHERE is_active = true").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "start_date", "end_date", "is_active", "created_at", "updated_at",
			}))

		resolved, err := resolveSchoolYearID(db, "")
		require.NoError(t, err)
		assert.Empty(t, resolved)
	})
}

func TestGenerateMatricule(t *testing.T) {
	t.Run("first student of the year", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM school_years WHERE id = ").
			WithArgs("year-1").
			WillReturnRows(schoolYearRow("year-1", "2025-2026", true))
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs("year-1", "STU25").
			WillReturnRows(sqlmock.NewRows([]string{"matricule"}).AddRow(""))

		matricule, err := generateMatricule(db, "year-1")
		require.NoError(t, err)
		assert.Equal(t, "STU250001", matricule)
	})

	t.Run("continues from the highest sequence", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM school_years WHERE id = ").
			WithArgs("year-1").
			WillReturnRows(schoolYearRow("year-1", "2025-2026", true))
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs("year-1", "STU25").
			WillReturnRows(sqlmock.NewRows([]string{"matricule"}).AddRow("STU250007"))

		matricule, err := generateMatricule(db, "year-1")
		require.NoError(t, err)
		assert.Equal(t, "STU250008", matricule)
	})

	t.Run("matches the expected shape", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM school_years WHERE id = ").
			WithArgs("year-1").
			WillReturnRows(schoolYearRow("year-1", "2025-2026", true))
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs("year-1", "STU25").
			WillReturnRows(sqlmock.NewRows([]string{"matricule"}).AddRow("STU250099"))

		matricule, err := generateMatricule(db, "year-1")
		require.NoError(t, err)
		assert.Regexp(t, `^STU\d{2}\d{4}$`, matricule)
	})
}

func TestEnrollStudentUpsertsYearlyEnrollment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM students WHERE id = (.+) FOR UPDATE").
		WithArgs("student-1").
		WillReturnRows(studentRow("student-1", "STU250001", "year-1"))
	mock.ExpectQuery("FROM school_years WHERE id = ").
		WithArgs("year-2").
		WillReturnRows(schoolYearRow("year-2", "2026-2027", false))
	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("enroll-1", now, now))
	mock.ExpectExec("UPDATE students").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	student, err := EnrollStudent(db, "student-1", EnrollStudentInput{SchoolYearID: "year-2"})
	require.NoError(t, err)
	assert.Equal(t, "year-2", student.SchoolYearID)
	assert.Nil(t, student.ClassroomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollStudentRequiresYearWithoutActiveFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM students WHERE id = (.+) FOR UPDATE").
		WithArgs("student-1").
		WillReturnRows(studentRow("student-1", "STU250001", "year-1"))
	mock.ExpectQuery("FROM school_years WHERE is_active = true").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "start_date", "end_date", "is_active", "created_at", "updated_at",
		}))
	mock.ExpectRollback()

	_, err = EnrollStudent(db, "student-1", EnrollStudentInput{})
	require.Error(t, err)
	assert.Equal(t, CodeSchoolYearRequired, CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM students WHERE id = (.+) FOR UPDATE").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err = DeleteStudent(db, "missing")
	require.Error(t, err)
	assert.Equal(t, CodeStudentNotFound, CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
