package services

import (
	"testing"
	"time"

	"scolaris/app/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classRoomRow(id, name, yearID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "level", "description", "capacity", "monthly_fee",
		"school_year_id", "is_active", "created_at", "updated_at",
	}).AddRow(id, name, nil, nil, 30, nil, yearID, true, now, now)
}

func TestCreateClassRoomRequiresNameAndYear(t *testing.T) {
	_, err := CreateClassRoom(nil, CreateClassRoomInput{Name: "P1"})
	require.Error(t, err)
	assert.Equal(t, CodeClassroomInvalidPayload, CodeOf(err))

	_, err = CreateClassRoom(nil, CreateClassRoomInput{SchoolYearID: "year-1"})
	require.Error(t, err)
	assert.Equal(t, CodeClassroomInvalidPayload, CodeOf(err))
}

func TestCreateClassRoomRejectsDuplicateNameWithinYear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM school_years WHERE id = ").
		WithArgs("year-1").
		WillReturnRows(schoolYearRow("year-1", "2025-2026", true))
	mock.ExpectQuery("FROM classrooms").
		WithArgs("year-1", "P1", "").
		WillReturnRows(classRoomRow("class-1", "P1", "year-1"))
	mock.ExpectRollback()

	_, err = CreateClassRoom(db, CreateClassRoomInput{Name: "P1", SchoolYearID: "year-1"})
	require.Error(t, err)
	assert.Equal(t, CodeClassroomDuplicate, CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClassRoomBlockedWhileGroupsExist(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM classrooms WHERE id = (.+) FOR UPDATE").
		WithArgs("class-1").
		WillReturnRows(classRoomRow("class-1", "P1", "year-1"))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("class-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err = DeleteClassRoom(db, "class-1")
	require.Error(t, err)
	assert.Equal(t, CodeClassroomHasGroups, CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildClassGroupInheritsFromClassroom(t *testing.T) {
	classroom := &models.ClassRoom{
		ID:           "class-1",
		Capacity:     40,
		SchoolYearID: "year-1",
	}

	group := buildClassGroup(classroom, ClassGroupInput{Name: "P1 Red"})
	assert.Equal(t, "class-1", group.ClassroomID)
	assert.Equal(t, "year-1", group.SchoolYearID)
	assert.Equal(t, 40, group.Capacity, "capacity should default to the classroom's")
	assert.True(t, group.IsActive)

	group = buildClassGroup(classroom, ClassGroupInput{Name: "P1 Blue", Capacity: 25})
	assert.Equal(t, 25, group.Capacity)
}

func TestCreateClassGroupRequiresName(t *testing.T) {
	_, err := CreateClassGroup(nil, "class-1", ClassGroupInput{})
	require.Error(t, err)
	assert.Equal(t, CodeClassGroupInvalidName, CodeOf(err))
}
