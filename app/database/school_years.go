package database

import (
	"scolaris/app/models"
)

const schoolYearColumns = `id, name, start_date, end_date, is_active, created_at, updated_at`

func scanSchoolYear(row interface{ Scan(...interface{}) error }) (*models.SchoolYear, error) {
	sy := &models.SchoolYear{}
	err := row.Scan(
		&sy.ID, &sy.Name, &sy.StartDate, &sy.EndDate,
		&sy.IsActive, &sy.CreatedAt, &sy.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sy, nil
}

func GetSchoolYearByID(q DBTX, id string) (*models.SchoolYear, error) {
	query := `SELECT ` + schoolYearColumns + ` FROM school_years WHERE id = $1`
	return scanSchoolYear(q.QueryRow(query, id))
}

// GetSchoolYearByIDForUpdate locks the row for the rest of the transaction.
func GetSchoolYearByIDForUpdate(q DBTX, id string) (*models.SchoolYear, error) {
	query := `SELECT ` + schoolYearColumns + ` FROM school_years WHERE id = $1 FOR UPDATE`
	return scanSchoolYear(q.QueryRow(query, id))
}

// FindSchoolYearByName returns the year with the given name, excluding
// excludeID when non-empty. Locks the found row when forUpdate is set.
func FindSchoolYearByName(q DBTX, name, excludeID string, forUpdate bool) (*models.SchoolYear, error) {
	query := `SELECT ` + schoolYearColumns + ` FROM school_years WHERE name = $1 AND ($2 = '' OR id::text <> $2)`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanSchoolYear(q.QueryRow(query, name, excludeID))
}

func GetActiveSchoolYear(q DBTX) (*models.SchoolYear, error) {
	query := `SELECT ` + schoolYearColumns + ` FROM school_years WHERE is_active = true`
	return scanSchoolYear(q.QueryRow(query))
}

func ListSchoolYears(q DBTX, isActive *bool) ([]*models.SchoolYear, error) {
	query := `SELECT ` + schoolYearColumns + ` FROM school_years
			  WHERE ($1::boolean IS NULL OR is_active = $1)
			  ORDER BY start_date DESC, name DESC`

	rows, err := q.Query(query, isActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []*models.SchoolYear
	for rows.Next() {
		sy, err := scanSchoolYear(rows)
		if err != nil {
			return nil, err
		}
		years = append(years, sy)
	}
	return years, rows.Err()
}

func InsertSchoolYear(q DBTX, sy *models.SchoolYear) error {
	query := `INSERT INTO school_years (name, start_date, end_date, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at, updated_at`
	return q.QueryRow(query, sy.Name, sy.StartDate, sy.EndDate, sy.IsActive).
		Scan(&sy.ID, &sy.CreatedAt, &sy.UpdatedAt)
}

func UpdateSchoolYear(q DBTX, sy *models.SchoolYear) error {
	query := `UPDATE school_years
			  SET name = $1, start_date = $2, end_date = $3, is_active = $4, updated_at = NOW()
			  WHERE id = $5
			  RETURNING updated_at`
	return q.QueryRow(query, sy.Name, sy.StartDate, sy.EndDate, sy.IsActive, sy.ID).
		Scan(&sy.UpdatedAt)
}

// DeactivateOtherSchoolYears flips every year except keepID to inactive.
// Runs inside the same transaction as the activation write.
func DeactivateOtherSchoolYears(q DBTX, keepID string) error {
	query := `UPDATE school_years SET is_active = false, updated_at = NOW()
			  WHERE id <> $1 AND is_active = true`
	_, err := q.Exec(query, keepID)
	return err
}

func DeleteSchoolYear(q DBTX, id string) error {
	_, err := q.Exec(`DELETE FROM school_years WHERE id = $1`, id)
	return err
}
