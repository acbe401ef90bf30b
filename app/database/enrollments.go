package database

import (
	"scolaris/app/models"
)

const enrollmentColumns = `id, student_id, school_year_id, classroom_id, class_group_id,
	enrollment_date, status, notes, created_at, updated_at`

func scanEnrollment(row interface{ Scan(...interface{}) error }) (*models.Enrollment, error) {
	en := &models.Enrollment{}
	var status string
	err := row.Scan(
		&en.ID, &en.StudentID, &en.SchoolYearID, &en.ClassroomID, &en.ClassGroupID,
		&en.EnrollmentDate, &status, &en.Notes, &en.CreatedAt, &en.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	en.Status = models.EnrollmentStatus(status)
	return en, nil
}

func InsertEnrollment(q DBTX, en *models.Enrollment) error {
	query := `INSERT INTO enrollments (student_id, school_year_id, classroom_id, class_group_id,
				  enrollment_date, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at`
	return q.QueryRow(query, en.StudentID, en.SchoolYearID, en.ClassroomID, en.ClassGroupID,
		en.EnrollmentDate, string(en.Status), en.Notes).
		Scan(&en.ID, &en.CreatedAt, &en.UpdatedAt)
}

// UpsertEnrollment inserts the yearly enrollment or, when one already
// exists for (student, school year), updates it in place. Re-enrolling
// into the same year never duplicates the row.
func UpsertEnrollment(q DBTX, en *models.Enrollment) error {
	query := `INSERT INTO enrollments (student_id, school_year_id, classroom_id, class_group_id,
				  enrollment_date, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (student_id, school_year_id) DO UPDATE
			  SET classroom_id = EXCLUDED.classroom_id,
				  class_group_id = EXCLUDED.class_group_id,
				  enrollment_date = EXCLUDED.enrollment_date,
				  status = EXCLUDED.status,
				  notes = EXCLUDED.notes,
				  updated_at = NOW()
			  RETURNING id, created_at, updated_at`
	return q.QueryRow(query, en.StudentID, en.SchoolYearID, en.ClassroomID, en.ClassGroupID,
		en.EnrollmentDate, string(en.Status), en.Notes).
		Scan(&en.ID, &en.CreatedAt, &en.UpdatedAt)
}

func ListEnrollmentsByStudent(q DBTX, studentID string) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments
			  WHERE student_id = $1 ORDER BY enrollment_date DESC`

	rows, err := q.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		en, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, en)
	}
	return enrollments, rows.Err()
}

func DeleteEnrollmentsByStudent(q DBTX, studentID string) error {
	_, err := q.Exec(`DELETE FROM enrollments WHERE student_id = $1`, studentID)
	return err
}
