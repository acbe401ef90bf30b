package services

import (
	"testing"
	"time"

	"scolaris/app/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schoolYearRow(id, name string, isActive bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "start_date", "end_date", "is_active", "created_at", "updated_at",
	}).AddRow(id, name, now, now.AddDate(0, 10, 0), isActive, now, now)
}

func TestCreateSchoolYearRejectsDuplicateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM school_years WHERE name = ").
		WithArgs("2025-2026", "").
		WillReturnRows(schoolYearRow("year-1", "2025-2026", false))
	mock.ExpectRollback()

	_, err = CreateSchoolYear(db, CreateSchoolYearInput{Name: "2025-2026"})
	require.Error(t, err)
	assert.Equal(t, CodeSchoolYearAlreadyExists, CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchoolYearRejectsInvertedDates(t *testing.T) {
	start := models.CustomTime{Time: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)}
	end := models.CustomTime{Time: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)}

	_, err := CreateSchoolYear(nil, CreateSchoolYearInput{
		Name:      "2025-2026",
		StartDate: start,
		EndDate:   end,
	})
	require.Error(t, err)
	assert.Equal(t, CodeInvalidDateRange, CodeOf(err))
}

func TestCreateActiveSchoolYearDeactivatesOthers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM school_years WHERE name = ").
		WithArgs("2026-2027", "").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "start_date", "end_date", "is_active", "created_at", "updated_at",
		}))
	mock.ExpectQuery("INSERT INTO school_years").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("year-2", now, now))
	mock.ExpectExec("UPDATE school_years SET is_active = false").
		WithArgs("year-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	year, err := CreateSchoolYear(db, CreateSchoolYearInput{Name: "2026-2027", IsActive: true})
	require.NoError(t, err)
	assert.True(t, year.IsActive)
	assert.Equal(t, "year-2", year.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivateSchoolYearIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Already active: no deactivation sweep, no update write.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM school_years WHERE id = (.+) FOR UPDATE").
		WithArgs("year-1").
		WillReturnRows(schoolYearRow("year-1", "2025-2026", true))
	mock.ExpectCommit()

	year, err := ActivateSchoolYear(db, "year-1")
	require.NoError(t, err)
	assert.True(t, year.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivateSchoolYearDeactivatesOthers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM school_years WHERE id = (.+) FOR UPDATE").
		WithArgs("year-2").
		WillReturnRows(schoolYearRow("year-2", "2026-2027", false))
	mock.ExpectExec("UPDATE school_years SET is_active = false").
		WithArgs("year-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE school_years").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	year, err := ActivateSchoolYear(db, "year-2")
	require.NoError(t, err)
	assert.True(t, year.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSchoolYearForbiddenWhileActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM school_years WHERE id = (.+) FOR UPDATE").
		WithArgs("year-1").
		WillReturnRows(schoolYearRow("year-1", "2025-2026", true))
	mock.ExpectRollback()

	err = DeleteSchoolYear(db, "year-1")
	require.Error(t, err)
	assert.Equal(t, CodeActiveYearDeleteForbidden, CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveSchoolYearReturnsNilWhenNoneDefined(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM school_years WHERE is_active = true").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "start_date", "end_date", "is_active", "created_at", "updated_at",
		}))

	year, err := GetActiveSchoolYear(db)
	require.NoError(t, err)
	assert.Nil(t, year)
	assert.NoError(t, mock.ExpectationsWereMet())
}
