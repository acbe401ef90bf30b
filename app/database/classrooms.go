package database

import (
	"scolaris/app/models"
)

const classRoomColumns = `id, name, level, description, capacity, monthly_fee, school_year_id, is_active, created_at, updated_at`

const classGroupColumns = `id, name, description, capacity, classroom_id, school_year_id, is_active, created_at, updated_at`

func scanClassRoom(row interface{ Scan(...interface{}) error }) (*models.ClassRoom, error) {
	cr := &models.ClassRoom{}
	err := row.Scan(
		&cr.ID, &cr.Name, &cr.Level, &cr.Description, &cr.Capacity,
		&cr.MonthlyFee, &cr.SchoolYearID, &cr.IsActive, &cr.CreatedAt, &cr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cr, nil
}

func scanClassGroup(row interface{ Scan(...interface{}) error }) (*models.ClassGroup, error) {
	cg := &models.ClassGroup{}
	err := row.Scan(
		&cg.ID, &cg.Name, &cg.Description, &cg.Capacity,
		&cg.ClassroomID, &cg.SchoolYearID, &cg.IsActive, &cg.CreatedAt, &cg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cg, nil
}

func GetClassRoomByID(q DBTX, id string) (*models.ClassRoom, error) {
	query := `SELECT ` + classRoomColumns + ` FROM classrooms WHERE id = $1`
	return scanClassRoom(q.QueryRow(query, id))
}

func GetClassRoomByIDForUpdate(q DBTX, id string) (*models.ClassRoom, error) {
	query := `SELECT ` + classRoomColumns + ` FROM classrooms WHERE id = $1 FOR UPDATE`
	return scanClassRoom(q.QueryRow(query, id))
}

// FindClassRoomByName looks up a classroom by (schoolYearID, name),
// excluding excludeID when non-empty. Locks the found row when forUpdate
// is set so concurrent duplicate inserts serialize.
func FindClassRoomByName(q DBTX, schoolYearID, name, excludeID string, forUpdate bool) (*models.ClassRoom, error) {
	query := `SELECT ` + classRoomColumns + ` FROM classrooms
			  WHERE school_year_id = $1 AND name = $2 AND ($3 = '' OR id::text <> $3)`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanClassRoom(q.QueryRow(query, schoolYearID, name, excludeID))
}

func ListClassRooms(q DBTX, schoolYearID string, isActive *bool, limit, offset int) ([]*models.ClassRoom, error) {
	query := `SELECT ` + classRoomColumns + ` FROM classrooms
			  WHERE ($1 = '' OR school_year_id::text = $1)
			  AND ($2::boolean IS NULL OR is_active = $2)
			  ORDER BY name ASC
			  LIMIT $3 OFFSET $4`

	rows, err := q.Query(query, schoolYearID, isActive, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classrooms []*models.ClassRoom
	for rows.Next() {
		cr, err := scanClassRoom(rows)
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, cr)
	}
	return classrooms, rows.Err()
}

func CountClassRooms(q DBTX, schoolYearID string, isActive *bool) (int, error) {
	query := `SELECT COUNT(*) FROM classrooms
			  WHERE ($1 = '' OR school_year_id::text = $1)
			  AND ($2::boolean IS NULL OR is_active = $2)`
	var count int
	err := q.QueryRow(query, schoolYearID, isActive).Scan(&count)
	return count, err
}

func InsertClassRoom(q DBTX, cr *models.ClassRoom) error {
	query := `INSERT INTO classrooms (name, level, description, capacity, monthly_fee, school_year_id, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at`
	return q.QueryRow(query, cr.Name, cr.Level, cr.Description, cr.Capacity,
		cr.MonthlyFee, cr.SchoolYearID, cr.IsActive).
		Scan(&cr.ID, &cr.CreatedAt, &cr.UpdatedAt)
}

func UpdateClassRoom(q DBTX, cr *models.ClassRoom) error {
	query := `UPDATE classrooms
			  SET name = $1, level = $2, description = $3, capacity = $4,
				  monthly_fee = $5, school_year_id = $6, is_active = $7, updated_at = NOW()
			  WHERE id = $8
			  RETURNING updated_at`
	return q.QueryRow(query, cr.Name, cr.Level, cr.Description, cr.Capacity,
		cr.MonthlyFee, cr.SchoolYearID, cr.IsActive, cr.ID).
		Scan(&cr.UpdatedAt)
}

func DeleteClassRoom(q DBTX, id string) error {
	_, err := q.Exec(`DELETE FROM classrooms WHERE id = $1`, id)
	return err
}

func GetClassGroupByID(q DBTX, id string) (*models.ClassGroup, error) {
	query := `SELECT ` + classGroupColumns + ` FROM class_groups WHERE id = $1`
	return scanClassGroup(q.QueryRow(query, id))
}

func GetClassGroupByIDForUpdate(q DBTX, id string) (*models.ClassGroup, error) {
	query := `SELECT ` + classGroupColumns + ` FROM class_groups WHERE id = $1 FOR UPDATE`
	return scanClassGroup(q.QueryRow(query, id))
}

// FindClassGroupByName looks up a group by name within its classroom,
// excluding excludeID when non-empty.
func FindClassGroupByName(q DBTX, classroomID, name, excludeID string, forUpdate bool) (*models.ClassGroup, error) {
	query := `SELECT ` + classGroupColumns + ` FROM class_groups
			  WHERE classroom_id = $1 AND name = $2 AND ($3 = '' OR id::text <> $3)`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanClassGroup(q.QueryRow(query, classroomID, name, excludeID))
}

func ListClassGroupsByClassroom(q DBTX, classroomID string) ([]*models.ClassGroup, error) {
	query := `SELECT ` + classGroupColumns + ` FROM class_groups
			  WHERE classroom_id = $1 ORDER BY name ASC`

	rows, err := q.Query(query, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.ClassGroup
	for rows.Next() {
		cg, err := scanClassGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, cg)
	}
	return groups, rows.Err()
}

func CountClassGroups(q DBTX, classroomID string) (int, error) {
	var count int
	err := q.QueryRow(`SELECT COUNT(*) FROM class_groups WHERE classroom_id = $1`, classroomID).Scan(&count)
	return count, err
}

func InsertClassGroup(q DBTX, cg *models.ClassGroup) error {
	query := `INSERT INTO class_groups (name, description, capacity, classroom_id, school_year_id, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	return q.QueryRow(query, cg.Name, cg.Description, cg.Capacity,
		cg.ClassroomID, cg.SchoolYearID, cg.IsActive).
		Scan(&cg.ID, &cg.CreatedAt, &cg.UpdatedAt)
}

func UpdateClassGroup(q DBTX, cg *models.ClassGroup) error {
	query := `UPDATE class_groups
			  SET name = $1, description = $2, capacity = $3, is_active = $4, updated_at = NOW()
			  WHERE id = $5
			  RETURNING updated_at`
	return q.QueryRow(query, cg.Name, cg.Description, cg.Capacity, cg.IsActive, cg.ID).
		Scan(&cg.UpdatedAt)
}

// CascadeGroupSchoolYear mirrors a classroom's new school year onto all
// of its groups. The group value is derived, never caller-settable.
func CascadeGroupSchoolYear(q DBTX, classroomID, schoolYearID string) error {
	query := `UPDATE class_groups SET school_year_id = $1, updated_at = NOW()
			  WHERE classroom_id = $2`
	_, err := q.Exec(query, schoolYearID, classroomID)
	return err
}

func DeleteClassGroup(q DBTX, id string) error {
	_, err := q.Exec(`DELETE FROM class_groups WHERE id = $1`, id)
	return err
}
