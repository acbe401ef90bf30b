package database

import (
	"scolaris/app/models"
)

const studentColumns = `id, first_name, last_name, other_names, matricule, gender, date_of_birth,
	guardian_name, guardian_phone, reduction_percent, status, notes,
	school_year_id, classroom_id, class_group_id, created_at, updated_at`

// StudentFilters represents filtering options for students
type StudentFilters struct {
	SchoolYearID string
	ClassroomID  string
	ClassGroupID string
	Status       string
	Search       string
	Limit        int
	Offset       int
}

func scanStudent(row interface{ Scan(...interface{}) error }) (*models.Student, error) {
	st := &models.Student{}
	var gender, status string
	err := row.Scan(
		&st.ID, &st.FirstName, &st.LastName, &st.OtherNames, &st.Matricule,
		&gender, &st.DateOfBirth, &st.GuardianName, &st.GuardianPhone,
		&st.ReductionPercent, &status, &st.Notes,
		&st.SchoolYearID, &st.ClassroomID, &st.ClassGroupID,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	st.Gender = models.Gender(gender)
	st.Status = models.StudentStatus(status)
	return st, nil
}

func GetStudentByID(q DBTX, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudent(q.QueryRow(query, id))
}

func GetStudentByIDForUpdate(q DBTX, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1 FOR UPDATE`
	return scanStudent(q.QueryRow(query, id))
}

// FindStudentByMatricule looks up a student by matricule, excluding
// excludeID when non-empty.
func FindStudentByMatricule(q DBTX, matricule, excludeID string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
			  WHERE matricule = $1 AND ($2 = '' OR id::text <> $2)`
	return scanStudent(q.QueryRow(query, matricule, excludeID))
}

// MaxMatriculeForYear returns the highest matricule sharing prefix within
// the school year, or "" when none exists. Callers must hold the year's
// advisory lock so concurrent sequence scans serialize.
func MaxMatriculeForYear(q DBTX, schoolYearID, prefix string) (string, error) {
	query := `SELECT COALESCE(MAX(matricule), '') FROM students
			  WHERE school_year_id = $1 AND matricule LIKE $2 || '%'`
	var matricule string
	err := q.QueryRow(query, schoolYearID, prefix).Scan(&matricule)
	return matricule, err
}

func ListStudents(q DBTX, filters StudentFilters) ([]*models.Student, int, error) {
	query := `SELECT ` + studentColumns + `, COUNT(*) OVER() AS total FROM students
			  WHERE ($1 = '' OR school_year_id::text = $1)
			  AND ($2 = '' OR classroom_id::text = $2)
			  AND ($3 = '' OR class_group_id::text = $3)
			  AND ($4 = '' OR status = $4)
			  AND ($5 = '' OR first_name ILIKE '%' || $5 || '%'
				   OR last_name ILIKE '%' || $5 || '%'
				   OR other_names ILIKE '%' || $5 || '%'
				   OR matricule ILIKE '%' || $5 || '%')
			  ORDER BY last_name ASC, first_name ASC
			  LIMIT $6 OFFSET $7`

	rows, err := q.Query(query, filters.SchoolYearID, filters.ClassroomID,
		filters.ClassGroupID, filters.Status, filters.Search, filters.Limit, filters.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []*models.Student
	total := 0
	for rows.Next() {
		st := &models.Student{}
		var gender, status string
		err := rows.Scan(
			&st.ID, &st.FirstName, &st.LastName, &st.OtherNames, &st.Matricule,
			&gender, &st.DateOfBirth, &st.GuardianName, &st.GuardianPhone,
			&st.ReductionPercent, &status, &st.Notes,
			&st.SchoolYearID, &st.ClassroomID, &st.ClassGroupID,
			&st.CreatedAt, &st.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, err
		}
		st.Gender = models.Gender(gender)
		st.Status = models.StudentStatus(status)
		students = append(students, st)
	}
	return students, total, rows.Err()
}

func InsertStudent(q DBTX, st *models.Student) error {
	query := `INSERT INTO students (first_name, last_name, other_names, matricule, gender,
				  date_of_birth, guardian_name, guardian_phone, reduction_percent,
				  status, notes, school_year_id, classroom_id, class_group_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING id, created_at, updated_at`
	return q.QueryRow(query, st.FirstName, st.LastName, st.OtherNames, st.Matricule,
		string(st.Gender), st.DateOfBirth, st.GuardianName, st.GuardianPhone,
		st.ReductionPercent, string(st.Status), st.Notes,
		st.SchoolYearID, st.ClassroomID, st.ClassGroupID).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

func UpdateStudent(q DBTX, st *models.Student) error {
	query := `UPDATE students
			  SET first_name = $1, last_name = $2, other_names = $3, matricule = $4,
				  gender = $5, date_of_birth = $6, guardian_name = $7, guardian_phone = $8,
				  reduction_percent = $9, status = $10, notes = $11,
				  school_year_id = $12, classroom_id = $13, class_group_id = $14,
				  updated_at = NOW()
			  WHERE id = $15
			  RETURNING updated_at`
	return q.QueryRow(query, st.FirstName, st.LastName, st.OtherNames, st.Matricule,
		string(st.Gender), st.DateOfBirth, st.GuardianName, st.GuardianPhone,
		st.ReductionPercent, string(st.Status), st.Notes,
		st.SchoolYearID, st.ClassroomID, st.ClassGroupID, st.ID).
		Scan(&st.UpdatedAt)
}

// SyncStudentPlacement updates the student's current year and class
// placement to match the latest enrollment.
func SyncStudentPlacement(q DBTX, studentID, schoolYearID string, classroomID, classGroupID *string) error {
	query := `UPDATE students
			  SET school_year_id = $1, classroom_id = $2, class_group_id = $3, updated_at = NOW()
			  WHERE id = $4`
	_, err := q.Exec(query, schoolYearID, classroomID, classGroupID, studentID)
	return err
}

func DeleteStudent(q DBTX, id string) error {
	_, err := q.Exec(`DELETE FROM students WHERE id = $1`, id)
	return err
}
