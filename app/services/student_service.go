package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"scolaris/app/database"
	"scolaris/app/models"
)

// CreateStudentInput carries a student registration payload. SchoolYearID
// is optional; the active year is used when absent.
type CreateStudentInput struct {
	FirstName        string               `json:"first_name" validate:"required,max=120"`
	LastName         string               `json:"last_name" validate:"required,max=120"`
	OtherNames       *string              `json:"other_names"`
	Matricule        string               `json:"matricule"`
	Gender           models.Gender        `json:"gender"`
	DateOfBirth      *models.CustomTime   `json:"date_of_birth"`
	GuardianName     *string              `json:"guardian_name"`
	GuardianPhone    *string              `json:"guardian_phone"`
	ReductionPercent float64              `json:"reduction_percent" validate:"gte=0,lte=100"`
	Status           models.StudentStatus `json:"status"`
	Notes            *string              `json:"notes"`
	SchoolYearID     string               `json:"school_year_id"`
	ClassroomID      *string              `json:"classroom_id"`
	ClassGroupID     *string              `json:"class_group_id"`
	EnrollmentNotes  *string              `json:"enrollment_notes"`
}

// StudentPatch is a partial update. Nil fields keep the stored value.
type StudentPatch struct {
	FirstName        *string               `json:"first_name"`
	LastName         *string               `json:"last_name"`
	OtherNames       *string               `json:"other_names"`
	Matricule        *string               `json:"matricule"`
	Gender           *models.Gender        `json:"gender"`
	DateOfBirth      *models.CustomTime    `json:"date_of_birth"`
	GuardianName     *string               `json:"guardian_name"`
	GuardianPhone    *string               `json:"guardian_phone"`
	ReductionPercent *float64              `json:"reduction_percent"`
	Status           *models.StudentStatus `json:"status"`
	Notes            *string               `json:"notes"`
	SchoolYearID     *string               `json:"school_year_id"`
	ClassroomID      *string               `json:"classroom_id"`
	ClassGroupID     *string               `json:"class_group_id"`
}

// EnrollStudentInput places a student into a school year. An omitted
// year falls back to the active one; enrollment fails when neither is
// available.
type EnrollStudentInput struct {
	SchoolYearID   string                  `json:"school_year_id"`
	ClassroomID    *string                 `json:"classroom_id"`
	ClassGroupID   *string                 `json:"class_group_id"`
	EnrollmentDate time.Time               `json:"enrollment_date"`
	Status         models.EnrollmentStatus `json:"status"`
	Notes          *string                 `json:"notes"`
}

// resolveSchoolYearID validates an explicit year id, or falls back to the
// active year when none is requested. Returns "" when neither exists.
func resolveSchoolYearID(q database.DBTX, requestedID string) (string, error) {
	if requestedID != "" {
		year, err := database.GetSchoolYearByID(q, requestedID)
		if err == sql.ErrNoRows {
			return "", newError(CodeSchoolYearNotFound, "school year not found")
		}
		if err != nil {
			return "", err
		}
		return year.ID, nil
	}

	active, err := database.GetActiveSchoolYear(q)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return active.ID, nil
}

// validateClassReferences checks that a classroom/group placement is
// internally consistent with the school year and with each other.
func validateClassReferences(q database.DBTX, classroomID, classGroupID *string, schoolYearID string) error {
	if classroomID != nil {
		classroom, err := database.GetClassRoomByID(q, *classroomID)
		if err == sql.ErrNoRows {
			return newError(CodeClassroomNotFound, "classroom not found")
		}
		if err != nil {
			return err
		}
		if schoolYearID != "" && classroom.SchoolYearID != schoolYearID {
			return newError(CodeClassroomYearMismatch, "classroom does not belong to the given school year")
		}
	}

	if classGroupID != nil {
		group, err := database.GetClassGroupByID(q, *classGroupID)
		if err == sql.ErrNoRows {
			return newError(CodeClassGroupNotFound, "class group not found")
		}
		if err != nil {
			return err
		}
		if schoolYearID != "" && group.SchoolYearID != schoolYearID {
			return newError(CodeClassGroupYearMismatch, "class group does not belong to the given school year")
		}
		if classroomID != nil && group.ClassroomID != *classroomID {
			return newError(CodeClassGroupClassMismatch, "class group does not belong to the given classroom")
		}
	}

	return nil
}

// generateMatricule builds the next student code for a year: STU + the
// last two digits of the year's starting segment + a 4-digit sequence.
// The caller must already hold the year's advisory lock.
func generateMatricule(q database.DBTX, schoolYearID string) (string, error) {
	year, err := database.GetSchoolYearByID(q, schoolYearID)
	if err == sql.ErrNoRows {
		return "", newError(CodeSchoolYearNotFound, "school year not found")
	}
	if err != nil {
		return "", err
	}

	if len(year.Name) < 4 {
		return "", newError(CodeSchoolYearNotFound, "school year name is not in YYYY-YYYY format")
	}
	prefix := "STU" + year.Name[2:4]

	highest, err := database.MaxMatriculeForYear(q, schoolYearID, prefix)
	if err != nil {
		return "", err
	}

	nextSequence := 1
	if strings.HasPrefix(highest, prefix) {
		if current, err := strconv.Atoi(highest[len(prefix):]); err == nil {
			nextSequence = current + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, nextSequence), nil
}

// CreateStudent registers a student and their first enrollment in one
// transaction. The matricule is generated unless supplied.
func CreateStudent(db *sql.DB, input CreateStudentInput) (*models.Student, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	schoolYearID, err := resolveSchoolYearID(tx, input.SchoolYearID)
	if err != nil {
		return nil, err
	}
	if schoolYearID == "" {
		return nil, newError(CodeActiveSchoolYearRequired, "no active school year is defined")
	}

	if err := validateClassReferences(tx, input.ClassroomID, input.ClassGroupID, schoolYearID); err != nil {
		return nil, err
	}

	matricule := input.Matricule
	if matricule == "" {
		// Serialize sequence generation per year
		if err := database.AcquireYearLock(tx, schoolYearID); err != nil {
			return nil, err
		}
		matricule, err = generateMatricule(tx, schoolYearID)
		if err != nil {
			return nil, err
		}
	}

	gender := input.Gender
	if gender == "" {
		gender = models.GenderMale
	}
	status := input.Status
	if status == "" {
		status = models.StudentActive
	}

	student := &models.Student{
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		OtherNames:       input.OtherNames,
		Matricule:        matricule,
		Gender:           gender,
		DateOfBirth:      input.DateOfBirth,
		GuardianName:     input.GuardianName,
		GuardianPhone:    input.GuardianPhone,
		ReductionPercent: input.ReductionPercent,
		Status:           status,
		Notes:            input.Notes,
		SchoolYearID:     schoolYearID,
		ClassroomID:      input.ClassroomID,
		ClassGroupID:     input.ClassGroupID,
	}

	if err := database.InsertStudent(tx, student); err != nil {
		if database.IsUniqueViolation(err, "uq_students_matricule") {
			return nil, newError(CodeDuplicateMatricule, "a student with this matricule already exists")
		}
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:      student.ID,
		SchoolYearID:   schoolYearID,
		ClassroomID:    input.ClassroomID,
		ClassGroupID:   input.ClassGroupID,
		EnrollmentDate: time.Now(),
		Status:         models.EnrollmentActive,
		Notes:          input.EnrollmentNotes,
	}
	if err := database.InsertEnrollment(tx, enrollment); err != nil {
		return nil, err
	}
	student.Enrollments = []*models.Enrollment{enrollment}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return student, nil
}

// UpdateStudent applies a partial update, re-validating the matricule and
// class placement against the possibly-new school year.
func UpdateStudent(db *sql.DB, id string, patch StudentPatch) (*models.Student, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	student, err := database.GetStudentByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodeStudentNotFound, "student not found")
	}
	if err != nil {
		return nil, err
	}

	if patch.Matricule != nil && *patch.Matricule != student.Matricule {
		existing, err := database.FindStudentByMatricule(tx, *patch.Matricule, student.ID)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if existing != nil {
			return nil, newError(CodeDuplicateMatricule, "a student with this matricule already exists")
		}
		student.Matricule = *patch.Matricule
	}

	requestedYearID := student.SchoolYearID
	if patch.SchoolYearID != nil {
		requestedYearID = *patch.SchoolYearID
	}
	nextYearID, err := resolveSchoolYearID(tx, requestedYearID)
	if err != nil {
		return nil, err
	}

	nextClassroomID := student.ClassroomID
	if patch.ClassroomID != nil {
		nextClassroomID = patch.ClassroomID
	}
	nextClassGroupID := student.ClassGroupID
	if patch.ClassGroupID != nil {
		nextClassGroupID = patch.ClassGroupID
	}

	if err := validateClassReferences(tx, nextClassroomID, nextClassGroupID, nextYearID); err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		student.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		student.LastName = *patch.LastName
	}
	if patch.OtherNames != nil {
		student.OtherNames = patch.OtherNames
	}
	if patch.Gender != nil {
		student.Gender = *patch.Gender
	}
	if patch.DateOfBirth != nil {
		student.DateOfBirth = patch.DateOfBirth
	}
	if patch.GuardianName != nil {
		student.GuardianName = patch.GuardianName
	}
	if patch.GuardianPhone != nil {
		student.GuardianPhone = patch.GuardianPhone
	}
	if patch.ReductionPercent != nil {
		student.ReductionPercent = *patch.ReductionPercent
	}
	if patch.Status != nil {
		student.Status = *patch.Status
	}
	if patch.Notes != nil {
		student.Notes = patch.Notes
	}
	student.SchoolYearID = nextYearID
	student.ClassroomID = nextClassroomID
	student.ClassGroupID = nextClassGroupID

	if err := database.UpdateStudent(tx, student); err != nil {
		if database.IsUniqueViolation(err, "uq_students_matricule") {
			return nil, newError(CodeDuplicateMatricule, "a student with this matricule already exists")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return student, nil
}

// EnrollStudent upserts the student's enrollment for the target year and
// synchronizes the student's current placement. Re-enrolling into the
// same year updates the existing record, never duplicates it.
func EnrollStudent(db *sql.DB, studentID string, input EnrollStudentInput) (*models.Student, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	student, err := database.GetStudentByIDForUpdate(tx, studentID)
	if err == sql.ErrNoRows {
		return nil, newError(CodeStudentNotFound, "student not found")
	}
	if err != nil {
		return nil, err
	}

	schoolYearID, err := resolveSchoolYearID(tx, input.SchoolYearID)
	if err != nil {
		return nil, err
	}
	if schoolYearID == "" {
		return nil, newError(CodeSchoolYearRequired, "a school year is required to enroll the student")
	}

	if err := validateClassReferences(tx, input.ClassroomID, input.ClassGroupID, schoolYearID); err != nil {
		return nil, err
	}

	enrollmentDate := input.EnrollmentDate
	if enrollmentDate.IsZero() {
		enrollmentDate = time.Now()
	}
	status := input.Status
	if status == "" {
		status = models.EnrollmentActive
	}

	enrollment := &models.Enrollment{
		StudentID:      student.ID,
		SchoolYearID:   schoolYearID,
		ClassroomID:    input.ClassroomID,
		ClassGroupID:   input.ClassGroupID,
		EnrollmentDate: enrollmentDate,
		Status:         status,
		Notes:          input.Notes,
	}
	if err := database.UpsertEnrollment(tx, enrollment); err != nil {
		return nil, err
	}

	if err := database.SyncStudentPlacement(tx, student.ID, schoolYearID, input.ClassroomID, input.ClassGroupID); err != nil {
		return nil, err
	}
	student.SchoolYearID = schoolYearID
	student.ClassroomID = input.ClassroomID
	student.ClassGroupID = input.ClassGroupID

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes a student and all their enrollments in one
// transaction.
func DeleteStudent(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	student, err := database.GetStudentByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return newError(CodeStudentNotFound, "student not found")
	}
	if err != nil {
		return err
	}

	if err := database.DeleteEnrollmentsByStudent(tx, student.ID); err != nil {
		return err
	}
	if err := database.DeleteStudent(tx, student.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetStudentByID returns a student with their enrollment history.
func GetStudentByID(db *sql.DB, id string) (*models.Student, error) {
	student, err := database.GetStudentByID(db, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodeStudentNotFound, "student not found")
	}
	if err != nil {
		return nil, err
	}

	enrollments, err := database.ListEnrollmentsByStudent(db, student.ID)
	if err != nil {
		return nil, err
	}
	student.Enrollments = enrollments
	return student, nil
}

// StudentListResult carries one page of students.
type StudentListResult struct {
	Students []*models.Student `json:"students"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// ListStudents returns a filtered page of students. An explicit school
// year filter must exist; otherwise the active year is used when defined.
func ListStudents(db *sql.DB, filters database.StudentFilters, page, limit int) (*StudentListResult, error) {
	resolvedYearID, err := resolveSchoolYearID(db, filters.SchoolYearID)
	if err != nil {
		return nil, err
	}
	filters.SchoolYearID = resolvedYearID

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	students, total, err := database.ListStudents(db, filters)
	if err != nil {
		return nil, err
	}

	return &StudentListResult{
		Students: students,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}
