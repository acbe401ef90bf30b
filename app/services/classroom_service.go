package services

import (
	"database/sql"

	"scolaris/app/database"
	"scolaris/app/models"
)

// ClassGroupInput describes a group nested inside a classroom creation
// payload, or created standalone under an existing classroom.
type ClassGroupInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Capacity    int     `json:"capacity"`
	IsActive    *bool   `json:"is_active"`
}

// CreateClassRoomInput carries a classroom creation payload, optionally
// with nested groups created in the same transaction.
type CreateClassRoomInput struct {
	Name         string            `json:"name" validate:"required"`
	SchoolYearID string            `json:"school_year_id" validate:"required"`
	Level        *string           `json:"level"`
	Description  *string           `json:"description"`
	Capacity     int               `json:"capacity"`
	MonthlyFee   *float64          `json:"monthly_fee"`
	IsActive     *bool             `json:"is_active"`
	Groups       []ClassGroupInput `json:"groups"`
}

// ClassRoomPatch is a partial update. Nil fields keep the stored value.
type ClassRoomPatch struct {
	Name         *string  `json:"name"`
	SchoolYearID *string  `json:"school_year_id"`
	Level        *string  `json:"level"`
	Description  *string  `json:"description"`
	Capacity     *int     `json:"capacity"`
	MonthlyFee   *float64 `json:"monthly_fee"`
	IsActive     *bool    `json:"is_active"`
}

// ClassGroupPatch is a partial update for a class group.
type ClassGroupPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity"`
	IsActive    *bool   `json:"is_active"`
}

const defaultClassCapacity = 30

// CreateClassRoom creates a classroom and any nested groups in one
// transaction; a failing group aborts the whole creation.
func CreateClassRoom(db *sql.DB, input CreateClassRoomInput) (*models.ClassRoom, error) {
	if input.Name == "" || input.SchoolYearID == "" {
		return nil, newError(CodeClassroomInvalidPayload, "name and school year are required")
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := database.GetSchoolYearByID(tx, input.SchoolYearID); err != nil {
		if err == sql.ErrNoRows {
			return nil, newError(CodeSchoolYearNotFound, "school year not found")
		}
		return nil, err
	}

	duplicate, err := database.FindClassRoomByName(tx, input.SchoolYearID, input.Name, "", true)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if duplicate != nil {
		return nil, newError(CodeClassroomDuplicate, "a classroom with this name already exists for this year")
	}

	capacity := input.Capacity
	if capacity <= 0 {
		capacity = defaultClassCapacity
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	classroom := &models.ClassRoom{
		Name:         input.Name,
		Level:        input.Level,
		Description:  input.Description,
		Capacity:     capacity,
		MonthlyFee:   input.MonthlyFee,
		SchoolYearID: input.SchoolYearID,
		IsActive:     isActive,
	}

	if err := database.InsertClassRoom(tx, classroom); err != nil {
		if database.IsUniqueViolation(err, "uq_classrooms_year_name") {
			return nil, newError(CodeClassroomDuplicate, "a classroom with this name already exists for this year")
		}
		return nil, err
	}

	for _, groupInput := range input.Groups {
		if groupInput.Name == "" {
			return nil, newError(CodeClassGroupInvalidName, "every group needs a name")
		}

		group := buildClassGroup(classroom, groupInput)
		if err := database.InsertClassGroup(tx, group); err != nil {
			if database.IsUniqueViolation(err, "uq_class_groups_classroom_name") {
				return nil, newError(CodeClassGroupDuplicate, "a group with this name already exists for this classroom")
			}
			return nil, err
		}
		classroom.Groups = append(classroom.Groups, group)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return classroom, nil
}

// buildClassGroup derives a group from its owning classroom; the group's
// school year and default capacity always come from the classroom.
func buildClassGroup(classroom *models.ClassRoom, input ClassGroupInput) *models.ClassGroup {
	capacity := input.Capacity
	if capacity <= 0 {
		capacity = classroom.Capacity
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	return &models.ClassGroup{
		Name:         input.Name,
		Description:  input.Description,
		Capacity:     capacity,
		ClassroomID:  classroom.ID,
		SchoolYearID: classroom.SchoolYearID,
		IsActive:     isActive,
	}
}

// UpdateClassRoom applies a partial update. Changing the school year
// cascades the new year onto all owned groups.
func UpdateClassRoom(db *sql.DB, id string, patch ClassRoomPatch) (*models.ClassRoom, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	classroom, err := database.GetClassRoomByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodeClassroomNotFound, "classroom not found")
	}
	if err != nil {
		return nil, err
	}

	nextName := classroom.Name
	if patch.Name != nil {
		nextName = *patch.Name
	}
	nextYearID := classroom.SchoolYearID
	if patch.SchoolYearID != nil {
		nextYearID = *patch.SchoolYearID
	}

	if nextName != classroom.Name || nextYearID != classroom.SchoolYearID {
		duplicate, err := database.FindClassRoomByName(tx, nextYearID, nextName, classroom.ID, false)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if duplicate != nil {
			return nil, newError(CodeClassroomDuplicate, "a classroom with this name already exists for this year")
		}
	}

	yearChanged := nextYearID != classroom.SchoolYearID
	if yearChanged {
		if _, err := database.GetSchoolYearByID(tx, nextYearID); err != nil {
			if err == sql.ErrNoRows {
				return nil, newError(CodeSchoolYearNotFound, "school year not found")
			}
			return nil, err
		}
	}

	classroom.Name = nextName
	classroom.SchoolYearID = nextYearID
	if patch.Level != nil {
		classroom.Level = patch.Level
	}
	if patch.Description != nil {
		classroom.Description = patch.Description
	}
	if patch.Capacity != nil {
		classroom.Capacity = *patch.Capacity
	}
	if patch.MonthlyFee != nil {
		classroom.MonthlyFee = patch.MonthlyFee
	}
	if patch.IsActive != nil {
		classroom.IsActive = *patch.IsActive
	}

	if err := database.UpdateClassRoom(tx, classroom); err != nil {
		if database.IsUniqueViolation(err, "uq_classrooms_year_name") {
			return nil, newError(CodeClassroomDuplicate, "a classroom with this name already exists for this year")
		}
		return nil, err
	}

	if yearChanged {
		if err := database.CascadeGroupSchoolYear(tx, classroom.ID, nextYearID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return classroom, nil
}

// DeleteClassRoom removes a classroom. Blocked while it still owns groups.
func DeleteClassRoom(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	classroom, err := database.GetClassRoomByIDForUpdate(tx, id)
	if err == sql.ErrNoRows {
		return newError(CodeClassroomNotFound, "classroom not found")
	}
	if err != nil {
		return err
	}

	count, err := database.CountClassGroups(tx, classroom.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return newError(CodeClassroomHasGroups, "classroom still has groups")
	}

	if err := database.DeleteClassRoom(tx, classroom.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateClassGroup adds a group to an existing classroom. The group's
// school year is inherited from the classroom.
func CreateClassGroup(db *sql.DB, classroomID string, input ClassGroupInput) (*models.ClassGroup, error) {
	if input.Name == "" {
		return nil, newError(CodeClassGroupInvalidName, "group name is required")
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	classroom, err := database.GetClassRoomByID(tx, classroomID)
	if err == sql.ErrNoRows {
		return nil, newError(CodeClassroomNotFound, "classroom not found")
	}
	if err != nil {
		return nil, err
	}

	duplicate, err := database.FindClassGroupByName(tx, classroom.ID, input.Name, "", true)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if duplicate != nil {
		return nil, newError(CodeClassGroupDuplicate, "a group with this name already exists for this classroom")
	}

	group := buildClassGroup(classroom, input)
	if err := database.InsertClassGroup(tx, group); err != nil {
		if database.IsUniqueViolation(err, "uq_class_groups_classroom_name") {
			return nil, newError(CodeClassGroupDuplicate, "a group with this name already exists for this classroom")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateClassGroup applies a partial update; the duplicate-name check is
// scoped to the owning classroom. The school year is never settable here.
func UpdateClassGroup(db *sql.DB, groupID string, patch ClassGroupPatch) (*models.ClassGroup, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	group, err := database.GetClassGroupByIDForUpdate(tx, groupID)
	if err == sql.ErrNoRows {
		return nil, newError(CodeClassGroupNotFound, "class group not found")
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != group.Name {
		duplicate, err := database.FindClassGroupByName(tx, group.ClassroomID, *patch.Name, group.ID, false)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if duplicate != nil {
			return nil, newError(CodeClassGroupDuplicate, "a group with this name already exists for this classroom")
		}
		group.Name = *patch.Name
	}

	if patch.Description != nil {
		group.Description = patch.Description
	}
	if patch.Capacity != nil {
		group.Capacity = *patch.Capacity
	}
	if patch.IsActive != nil {
		group.IsActive = *patch.IsActive
	}

	if err := database.UpdateClassGroup(tx, group); err != nil {
		if database.IsUniqueViolation(err, "uq_class_groups_classroom_name") {
			return nil, newError(CodeClassGroupDuplicate, "a group with this name already exists for this classroom")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteClassGroup removes a group.
func DeleteClassGroup(db *sql.DB, groupID string) error {
	_, err := database.GetClassGroupByID(db, groupID)
	if err == sql.ErrNoRows {
		return newError(CodeClassGroupNotFound, "class group not found")
	}
	if err != nil {
		return err
	}
	return database.DeleteClassGroup(db, groupID)
}

// GetClassRoomByID returns a classroom with its groups preloaded.
func GetClassRoomByID(db *sql.DB, id string) (*models.ClassRoom, error) {
	classroom, err := database.GetClassRoomByID(db, id)
	if err == sql.ErrNoRows {
		return nil, newError(CodeClassroomNotFound, "classroom not found")
	}
	if err != nil {
		return nil, err
	}

	groups, err := database.ListClassGroupsByClassroom(db, classroom.ID)
	if err != nil {
		return nil, err
	}
	classroom.Groups = groups
	return classroom, nil
}

// ClassRoomListResult carries one page of classrooms.
type ClassRoomListResult struct {
	Classrooms []*models.ClassRoom `json:"classrooms"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// ListClassRooms returns a filtered page of classrooms with groups.
func ListClassRooms(db *sql.DB, schoolYearID string, isActive *bool, page, limit int) (*ClassRoomListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	classrooms, err := database.ListClassRooms(db, schoolYearID, isActive, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := database.CountClassRooms(db, schoolYearID, isActive)
	if err != nil {
		return nil, err
	}

	for _, classroom := range classrooms {
		groups, err := database.ListClassGroupsByClassroom(db, classroom.ID)
		if err != nil {
			return nil, err
		}
		classroom.Groups = groups
	}

	return &ClassRoomListResult{
		Classrooms: classrooms,
		Total:      total,
		Page:       page,
		Limit:      limit,
	}, nil
}
