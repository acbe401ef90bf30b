package models

import "time"

// Student represents a pupil registered in the school. The current
// classroom/group placement, if set, must belong to the student's
// current school year.
type Student struct {
	ID               string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	FirstName        string        `json:"first_name" gorm:"not null" validate:"required,max=120"`
	LastName         string        `json:"last_name" gorm:"not null" validate:"required,max=120"`
	OtherNames       *string       `json:"other_names,omitempty"`
	Matricule        string        `json:"matricule" gorm:"uniqueIndex;not null" validate:"required,max=30"`
	Gender           Gender        `json:"gender" gorm:"not null;default:'M';type:varchar(1)"`
	DateOfBirth      *CustomTime   `json:"date_of_birth,omitempty"`
	GuardianName     *string       `json:"guardian_name,omitempty"`
	GuardianPhone    *string       `json:"guardian_phone,omitempty"`
	ReductionPercent float64       `json:"reduction_percent" gorm:"default:0" validate:"gte=0,lte=100"`
	Status           StudentStatus `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	Notes            *string       `json:"notes,omitempty"`
	SchoolYearID     string        `json:"school_year_id" gorm:"not null;index;type:uuid"`
	ClassroomID      *string       `json:"classroom_id,omitempty" gorm:"index;type:uuid"`
	ClassGroupID     *string       `json:"class_group_id,omitempty" gorm:"index;type:uuid"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	SchoolYear  *SchoolYear   `json:"school_year,omitempty" gorm:"foreignKey:SchoolYearID;references:ID"`
	Classroom   *ClassRoom    `json:"classroom,omitempty" gorm:"foreignKey:ClassroomID;references:ID"`
	ClassGroup  *ClassGroup   `json:"class_group,omitempty" gorm:"foreignKey:ClassGroupID;references:ID"`
	Enrollments []*Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
