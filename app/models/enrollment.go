package models

import "time"

// Enrollment is the historical record of a student's placement for a
// given school year. One row exists per (student, school year) pair.
type Enrollment struct {
	ID             string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID      string           `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SchoolYearID   string           `json:"school_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassroomID    *string          `json:"classroom_id,omitempty" gorm:"index;type:uuid"`
	ClassGroupID   *string          `json:"class_group_id,omitempty" gorm:"index;type:uuid"`
	EnrollmentDate time.Time        `json:"enrollment_date" gorm:"not null"`
	Status         EnrollmentStatus `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	Notes          *string          `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}
