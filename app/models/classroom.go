package models

import "time"

// ClassRoom is a class grouping scoped to one school year.
// Its name is unique within that year.
type ClassRoom struct {
	ID           string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name         string        `json:"name" gorm:"not null" validate:"required"`
	Level        *string       `json:"level,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Capacity     int           `json:"capacity" gorm:"default:30" validate:"gte=1"`
	MonthlyFee   *float64      `json:"monthly_fee,omitempty" gorm:"type:decimal(10,2)"`
	SchoolYearID string        `json:"school_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	IsActive     bool          `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
	SchoolYear   *SchoolYear   `json:"school_year,omitempty" gorm:"foreignKey:SchoolYearID;references:ID"`
	Groups       []*ClassGroup `json:"groups,omitempty" gorm:"foreignKey:ClassroomID;references:ID"`
}

// ClassGroup is a subdivision of a classroom. Its school year always
// mirrors the owning classroom's and is never set by callers.
type ClassGroup struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name         string    `json:"name" gorm:"not null" validate:"required"`
	Description  *string   `json:"description,omitempty"`
	Capacity     int       `json:"capacity" gorm:"default:30"`
	ClassroomID  string    `json:"classroom_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SchoolYearID string    `json:"school_year_id" gorm:"not null;index;type:uuid"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
