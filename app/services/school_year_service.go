package services

import (
	"database/sql"

	"scolaris/app/database"
	"scolaris/app/models"
)

// CreateSchoolYearInput carries the fields accepted when opening a new
// school year. Dates are optional; the year is created inactive unless
// IsActive is set.
type CreateSchoolYearInput struct {
	Name      string            `json:"name" validate:"required"`
	StartDate models.CustomTime `json:"start_date"`
	EndDate   models.CustomTime `json:"end_date"`
	IsActive  bool              `json:"is_active"`
}

// SchoolYearPatch is a partial update. Nil fields keep the stored value.
type SchoolYearPatch struct {
	Name      *string            `json:"name"`
	StartDate *models.CustomTime `json:"start_date"`
	EndDate   *models.CustomTime `json:"end_date"`
	IsActive  *bool              `json:"is_active"`
}

func validateYearDates(start, end models.CustomTime) error {
	if !start.Time.IsZero() && !end.Time.IsZero() && end.Time.Before(start.Time) {
		return newError(CodeInvalidDateRange, "end date must not precede start date")
	}
	return nil
}

// CreateSchoolYear creates a school year. When IsActive is requested all
// other years are flipped inactive within the same transaction, so a
// concurrent reader never sees two active years.
func CreateSchoolYear(db *sql.DB, input CreateSchoolYearInput) (*models.SchoolYear, error) {
	if err := validateYearDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Row lock on the name lookup so concurrent creates serialize;
	// the unique constraint backs up the gap when no row exists yet.
	existing, err := database.FindSchoolYearByName(tx, input.Name, "", true)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if existing != nil {
		return nil, newError(CodeSchoolYearAlreadyExists, "a school year with this name already exists")
	}

	year := &models.SchoolYear{
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  input.IsActive,
	}

	if err := database.InsertSchoolYear(tx, year); err != nil {
		if database.IsUniqueViolation(err, "uq_school_years_name") {
			return nil, newError(CodeSchoolYearAlreadyExists, "a school year with this name already exists")
		}
		return nil, err
	}

	if year.IsActive {
		if err := database.DeactivateOtherSchoolYears(tx, year.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return year, nil
}

// UpdateSchoolYear applies a partial update. A name change re-checks
// uniqueness excluding the year itself; activating deactivates all others.
func UpdateSchoolYear(db *sql.DB, id string, patch SchoolYearPatch) (*models.SchoolYear, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	year, err := database.GetSchoolYearByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodeSchoolYearNotFound, "school year not found")
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != year.Name {
		existing, err := database.FindSchoolYearByName(tx, *patch.Name, year.ID, false)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if existing != nil {
			return nil, newError(CodeSchoolYearAlreadyExists, "a school year with this name already exists")
		}
		year.Name = *patch.Name
	}

	if patch.StartDate != nil {
		year.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		year.EndDate = *patch.EndDate
	}
	if err := validateYearDates(year.StartDate, year.EndDate); err != nil {
		return nil, err
	}

	if patch.IsActive != nil {
		year.IsActive = *patch.IsActive
	}

	if err := database.UpdateSchoolYear(tx, year); err != nil {
		if database.IsUniqueViolation(err, "uq_school_years_name") {
			return nil, newError(CodeSchoolYearAlreadyExists, "a school year with this name already exists")
		}
		return nil, err
	}

	if year.IsActive {
		if err := database.DeactivateOtherSchoolYears(tx, year.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return year, nil
}

// ActivateSchoolYear makes the year the single active one. Idempotent:
// activating an already-active year changes nothing.
func ActivateSchoolYear(db *sql.DB, id string) (*models.SchoolYear, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	year, err := database.GetSchoolYearByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodeSchoolYearNotFound, "school year not found")
	}
	if err != nil {
		return nil, err
	}

	if year.IsActive {
		return year, tx.Commit()
	}

	if err := database.DeactivateOtherSchoolYears(tx, year.ID); err != nil {
		return nil, err
	}

	year.IsActive = true
	if err := database.UpdateSchoolYear(tx, year); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return year, nil
}

// DeleteSchoolYear removes a year. The active year cannot be deleted.
func DeleteSchoolYear(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	year, err := database.GetSchoolYearByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return newError(CodeSchoolYearNotFound, "school year not found")
	}
	if err != nil {
		return err
	}

	if year.IsActive {
		return newError(CodeActiveYearDeleteForbidden, "the active school year cannot be deleted")
	}

	if err := database.DeleteSchoolYear(tx, year.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetActiveSchoolYear returns the unique active year, or nil when none
// is defined. The active year is always re-derived by query, never cached.
func GetActiveSchoolYear(db *sql.DB) (*models.SchoolYear, error) {
	year, err := database.GetActiveSchoolYear(db)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return year, nil
}

func GetSchoolYearByID(db *sql.DB, id string) (*models.SchoolYear, error) {
	year, err := database.GetSchoolYearByID(db, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodeSchoolYearNotFound, "school year not found")
	}
	if err != nil {
		return nil, err
	}
	return year, nil
}

func ListSchoolYears(db *sql.DB, isActive *bool) ([]*models.SchoolYear, error) {
	return database.ListSchoolYears(db, isActive)
}
